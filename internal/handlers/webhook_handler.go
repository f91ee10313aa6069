package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Sannikov1993/PosResto-sub000/internal/attendance"
)

// WebhookHandler is the ingress for vendor terminals. Authentication is the
// per-device api key, not a staff JWT, so these routes sit outside the
// authenticated group.
type WebhookHandler struct {
	Svc *attendance.Service
}

func NewWebhookHandler(svc *attendance.Service) *WebhookHandler { return &WebhookHandler{Svc: svc} }

// Receive handles POST /webhook/:vendor.
func (h *WebhookHandler) Receive(c *gin.Context) {
	vendor := strings.ToLower(strings.TrimSpace(c.Param("vendor")))

	var body map[string]any
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			fail(c, attendance.ErrInvalidPayload)
			return
		}
	}

	key := attendance.ExtractAPIKey(c.GetHeader("X-Api-Key"), c.GetHeader("Authorization"))
	out, err := h.Svc.IngestWebhook(vendor, key, body)
	if err != nil {
		fail(c, err)
		return
	}

	resp := gin.H{"success": true, "message": out.Message}
	if out.Duplicate {
		resp["duplicate"] = true
	}
	if out.Enrollment {
		resp["enroll_type"] = out.EnrollKind
	} else if !out.Duplicate {
		resp["event_type"] = out.Type
	}
	c.JSON(http.StatusOK, resp)
}

type heartbeatReq struct {
	SerialNumber string `json:"serial_number"`
	SN           string `json:"sn"`
}

// Heartbeat handles POST /webhook/heartbeat. Serial lookup only, no device
// credential required.
func (h *WebhookHandler) Heartbeat(c *gin.Context) {
	var req heartbeatReq
	_ = c.ShouldBindJSON(&req)

	serial := strings.TrimSpace(req.SerialNumber)
	if serial == "" {
		serial = strings.TrimSpace(req.SN)
	}

	device, serverTime, err := h.Svc.Heartbeat(serial)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"device_id":   device.ID,
		"server_time": serverTime,
	})
}
