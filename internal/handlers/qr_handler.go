package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Sannikov1993/PosResto-sub000/internal/attendance"
	"github.com/Sannikov1993/PosResto-sub000/internal/models"
	"github.com/Sannikov1993/PosResto-sub000/internal/utils"
)

// QRHandler drives the QR clock channel. A rotating TOTP code is rendered on
// the restaurant's display; staff scan it to prove presence, then clock
// through the same session state machine the terminals use.
type QRHandler struct {
	DB  *gorm.DB
	Svc *attendance.Service
}

func NewQRHandler(db *gorm.DB, svc *attendance.Service) *QRHandler {
	return &QRHandler{DB: db, Svc: svc}
}

// CurrentCode handles GET /attendance/qr/code (manager only, feeds the
// break-room display).
func (h *QRHandler) CurrentCode(c *gin.Context) {
	r, ok := loadRestaurant(h.DB, c)
	if !ok {
		return
	}
	if r.QRSecret == "" {
		badRequest(c, "qr clocking is not configured for this restaurant")
		return
	}
	code, err := utils.CurrentQRCode(r.QRSecret)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "code": code, "period_seconds": 30})
}

type qrClockReq struct {
	Code      string   `json:"code" binding:"required"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Clock handles POST /attendance/qr.
func (h *QRHandler) Clock(c *gin.Context) {
	var req qrClockReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "code is required")
		return
	}

	res, err := h.Svc.QRClock(restaurantID(c), c.GetUint("user_id"), req.Code, req.Latitude, req.Longitude)
	if err != nil {
		fail(c, err)
		return
	}

	msg := "departure recorded"
	if res.Type == models.EventClockIn {
		msg = "arrival recorded"
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    msg,
		"event_type": res.Type,
		"session":    res.Session,
	})
}
