package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Sannikov1993/PosResto-sub000/internal/attendance"
	"github.com/Sannikov1993/PosResto-sub000/internal/models"
)

// DeviceHandler is the administrator surface for terminals and their user
// links. The api key is returned only on create and rotate.
type DeviceHandler struct {
	DB  *gorm.DB
	Svc *attendance.Service
}

func NewDeviceHandler(db *gorm.DB, svc *attendance.Service) *DeviceHandler {
	return &DeviceHandler{DB: db, Svc: svc}
}

var deviceVendors = map[models.DeviceVendor]bool{
	models.VendorAnviz:     true,
	models.VendorZKTeco:    true,
	models.VendorHikvision: true,
	models.VendorGeneric:   true,
}

type createDeviceReq struct {
	Vendor       string         `json:"vendor" binding:"required"`
	Name         string         `json:"name" binding:"required"`
	SerialNumber string         `json:"serial_number" binding:"required"`
	Host         string         `json:"host"`
	Port         int            `json:"port"`
	Settings     map[string]any `json:"settings"`
}

func (h *DeviceHandler) Create(c *gin.Context) {
	var req createDeviceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "vendor, name and serial_number are required")
		return
	}
	vendor := models.DeviceVendor(strings.ToLower(strings.TrimSpace(req.Vendor)))
	if !deviceVendors[vendor] {
		fail(c, attendance.ErrUnknownType)
		return
	}

	device := models.Device{
		RestaurantID: restaurantID(c),
		Vendor:       vendor,
		Name:         strings.TrimSpace(req.Name),
		SerialNumber: strings.TrimSpace(req.SerialNumber),
		Host:         strings.TrimSpace(req.Host),
		Port:         req.Port,
		APIKey:       uuid.NewString(),
		Status:       models.DeviceInactive,
		Settings:     datatypes.JSONMap(req.Settings),
	}
	if err := h.DB.Create(&device).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "create_failed", "message": "serial number already registered"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "device": device, "api_key": device.APIKey})
}

func (h *DeviceHandler) List(c *gin.Context) {
	var devices []models.Device
	if err := h.DB.Where("restaurant_id = ?", restaurantID(c)).
		Order("created_at asc").Find(&devices).Error; err != nil {
		fail(c, err)
		return
	}

	now := h.Svc.Now()
	rows := make([]gin.H, 0, len(devices))
	for i := range devices {
		rows = append(rows, gin.H{"device": devices[i], "online": devices[i].Online(now)})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "devices": rows})
}

func (h *DeviceHandler) Get(c *gin.Context) {
	device, ok := h.find(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "device": device, "online": device.Online(h.Svc.Now())})
}

type updateDeviceReq struct {
	Name     *string        `json:"name"`
	Host     *string        `json:"host"`
	Port     *int           `json:"port"`
	Status   *string        `json:"status"`
	Settings map[string]any `json:"settings"`
}

func (h *DeviceHandler) Update(c *gin.Context) {
	device, ok := h.find(c)
	if !ok {
		return
	}
	var req updateDeviceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	if req.Name != nil {
		device.Name = strings.TrimSpace(*req.Name)
	}
	if req.Host != nil {
		device.Host = strings.TrimSpace(*req.Host)
	}
	if req.Port != nil {
		device.Port = *req.Port
	}
	if req.Status != nil {
		switch s := models.DeviceStatus(*req.Status); s {
		case models.DeviceActive, models.DeviceInactive, models.DeviceOffline:
			device.Status = s
		default:
			badRequest(c, "status must be active, inactive or offline")
			return
		}
	}
	if req.Settings != nil {
		device.Settings = datatypes.JSONMap(req.Settings)
	}
	if err := h.DB.Save(device).Error; err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "device": device})
}

func (h *DeviceHandler) Delete(c *gin.Context) {
	device, ok := h.find(c)
	if !ok {
		return
	}
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("device_id = ?", device.ID).Delete(&models.DeviceUserLink{}).Error; err != nil {
			return err
		}
		return tx.Delete(device).Error
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RotateKey invalidates the previous device credential.
func (h *DeviceHandler) RotateKey(c *gin.Context) {
	device, ok := h.find(c)
	if !ok {
		return
	}
	device.APIKey = uuid.NewString()
	if err := h.DB.Model(device).Update("api_key", device.APIKey).Error; err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "api_key": device.APIKey})
}

type linkUserReq struct {
	UserID       uint   `json:"user_id" binding:"required"`
	DeviceUserID string `json:"device_user_id"`
}

// LinkUser handles POST /devices/:id/users. Without a device_user_id the
// next free numeric id on the terminal is allocated.
func (h *DeviceHandler) LinkUser(c *gin.Context) {
	device, ok := h.find(c)
	if !ok {
		return
	}
	var req linkUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "user_id is required")
		return
	}
	link, err := h.Svc.LinkUser(device, req.UserID, strings.TrimSpace(req.DeviceUserID))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "link": link})
}

func (h *DeviceHandler) ListLinks(c *gin.Context) {
	device, ok := h.find(c)
	if !ok {
		return
	}
	var links []models.DeviceUserLink
	if err := h.DB.Where("device_id = ?", device.ID).Find(&links).Error; err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "links": links})
}

// UnlinkUser handles DELETE /devices/:id/users/:linkID.
func (h *DeviceHandler) UnlinkUser(c *gin.Context) {
	device, ok := h.find(c)
	if !ok {
		return
	}
	res := h.DB.Where("device_id = ? AND id = ?", device.ID, c.Param("linkID")).
		Delete(&models.DeviceUserLink{})
	if res.Error != nil {
		fail(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		fail(c, attendance.ErrUserNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *DeviceHandler) find(c *gin.Context) (*models.Device, bool) {
	id, ok := idParam(c)
	if !ok {
		return nil, false
	}
	var device models.Device
	err := h.DB.Where("restaurant_id = ? AND id = ?", restaurantID(c), id).First(&device).Error
	if err != nil {
		fail(c, attendance.ErrDeviceNotFound)
		return nil, false
	}
	return &device, true
}
