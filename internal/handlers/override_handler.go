package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Sannikov1993/PosResto-sub000/internal/models"
)

// OverrideHandler manages whole-day classifications (vacation, day off, sick
// leave, absence, or an explicit-hours shift). One override per user/date;
// upserts replace.
type OverrideHandler struct {
	DB *gorm.DB
}

func NewOverrideHandler(db *gorm.DB) *OverrideHandler { return &OverrideHandler{DB: db} }

type upsertOverrideReq struct {
	UserID    uint    `json:"user_id" binding:"required"`
	Date      string  `json:"date" binding:"required"`
	Kind      string  `json:"kind" binding:"required"`
	Hours     float64 `json:"hours"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Notes     string  `json:"notes"`
}

var overrideKinds = map[models.OverrideKind]bool{
	models.OverrideShift:     true,
	models.OverrideDayOff:    true,
	models.OverrideVacation:  true,
	models.OverrideSickLeave: true,
	models.OverrideAbsence:   true,
}

// Upsert handles PUT /overrides. Hours may be explicit or derived from a
// start/end time pair, overnight-aware.
func (h *OverrideHandler) Upsert(c *gin.Context) {
	var req upsertOverrideReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "user_id, date and kind are required")
		return
	}
	kind := models.OverrideKind(req.Kind)
	if !overrideKinds[kind] {
		badRequest(c, "kind must be one of shift, day_off, vacation, sick_leave, absence")
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		badRequest(c, "date must be YYYY-MM-DD")
		return
	}

	hours := req.Hours
	if req.StartTime != nil && req.EndTime != nil {
		start, ok1 := models.MinutesOfDay(*req.StartTime)
		end, ok2 := models.MinutesOfDay(*req.EndTime)
		if !ok1 || !ok2 {
			badRequest(c, "start_time and end_time must be HH:MM")
			return
		}
		if end < start {
			end += 24 * 60
		}
		hours = float64(end-start) / 60
	}
	if hours < 0 {
		badRequest(c, "hours must not be negative")
		return
	}

	ov := models.WorkDayOverride{
		RestaurantID: restaurantID(c),
		UserID:       req.UserID,
		Date:         req.Date,
		Kind:         kind,
		Hours:        hours,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Notes:        req.Notes,
	}
	err := h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"restaurant_id", "kind", "hours", "start_time", "end_time", "notes",
		}),
	}).Create(&ov).Error
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "override": ov})
}

// Delete handles DELETE /overrides?user_id=N&date=YYYY-MM-DD.
func (h *OverrideHandler) Delete(c *gin.Context) {
	uid, err := strconv.ParseUint(c.Query("user_id"), 10, 64)
	date := c.Query("date")
	if err != nil || date == "" {
		badRequest(c, "user_id and date are required")
		return
	}
	res := h.DB.Where("restaurant_id = ? AND user_id = ? AND date = ?",
		restaurantID(c), uint(uid), date).Delete(&models.WorkDayOverride{})
	if res.Error != nil {
		fail(c, res.Error)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": res.RowsAffected > 0})
}

// List handles GET /overrides?month=YYYY-MM.
func (h *OverrideHandler) List(c *gin.Context) {
	r, ok := loadRestaurant(h.DB, c)
	if !ok {
		return
	}
	year, month, err := monthParam(c, r.Location())
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	prefix := timeMonthPrefix(year, month)
	var rows []models.WorkDayOverride
	if err := h.DB.Where("restaurant_id = ? AND date LIKE ?", r.ID, prefix).
		Order("date asc").Find(&rows).Error; err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "overrides": rows})
}
