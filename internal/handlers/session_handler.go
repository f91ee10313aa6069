package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Sannikov1993/PosResto-sub000/internal/attendance"
	"github.com/Sannikov1993/PosResto-sub000/internal/models"
)

// SessionHandler is the manager-facing work-session surface. All times come
// in as a date plus HH:MM pair and are interpreted in the restaurant's
// timezone.
type SessionHandler struct {
	DB  *gorm.DB
	Svc *attendance.Service
}

func NewSessionHandler(db *gorm.DB, svc *attendance.Service) *SessionHandler {
	return &SessionHandler{DB: db, Svc: svc}
}

type createSessionReq struct {
	UserID       uint    `json:"user_id" binding:"required"`
	Date         string  `json:"date" binding:"required"`
	ClockIn      string  `json:"clock_in" binding:"required"`
	ClockOut     *string `json:"clock_out"`
	BreakMinutes int     `json:"break_minutes"`
	Notes        string  `json:"notes"`
}

// Create handles POST /sessions: a manual session, open or whole-range.
func (h *SessionHandler) Create(c *gin.Context) {
	var req createSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "user_id, date and clock_in are required")
		return
	}
	r, ok := loadRestaurant(h.DB, c)
	if !ok {
		return
	}
	loc := r.Location()

	clockIn, err := combineLocal(req.Date, req.ClockIn, loc)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	var clockOut *time.Time
	if req.ClockOut != nil && strings.TrimSpace(*req.ClockOut) != "" {
		out, err := combineLocal(req.Date, *req.ClockOut, loc)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		if out.Before(clockIn) {
			out = out.Add(24 * time.Hour) // overnight shift
		}
		clockOut = &out
	}

	sess, err := h.Svc.CreateManualRange(r.ID, req.UserID, clockIn, clockOut, req.BreakMinutes, req.Notes)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session": sess, "is_overnight": sess.Overnight()})
}

type closeSessionReq struct {
	Date     string `json:"date" binding:"required"`
	ClockOut string `json:"clock_out" binding:"required"`
}

// Close handles POST /sessions/:id/close.
func (h *SessionHandler) Close(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req closeSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "date and clock_out are required")
		return
	}
	r, ok := loadRestaurant(h.DB, c)
	if !ok {
		return
	}

	clockOut, err := combineLocal(req.Date, req.ClockOut, r.Location())
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	sess, err := h.Svc.CloseManualSession(r.ID, id, clockOut)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session": sess, "is_overnight": sess.Overnight()})
}

type correctSessionReq struct {
	Date         string `json:"date" binding:"required"`
	ClockIn      string `json:"clock_in" binding:"required"`
	ClockOut     string `json:"clock_out" binding:"required"`
	BreakMinutes *int   `json:"break_minutes"`
	Reason       string `json:"reason" binding:"required"`
}

// Correct handles PUT /sessions/:id.
func (h *SessionHandler) Correct(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req correctSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "date, clock_in, clock_out and reason are required")
		return
	}
	r, ok := loadRestaurant(h.DB, c)
	if !ok {
		return
	}
	loc := r.Location()

	clockIn, err := combineLocal(req.Date, req.ClockIn, loc)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	clockOut, err := combineLocal(req.Date, req.ClockOut, loc)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if clockOut.Before(clockIn) {
		clockOut = clockOut.Add(24 * time.Hour)
	}

	breakMin := -1
	if req.BreakMinutes != nil {
		breakMin = *req.BreakMinutes
	}
	sess, err := h.Svc.CorrectSession(r.ID, id, clockIn, clockOut, breakMin, req.Reason)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session": sess, "is_overnight": sess.Overnight()})
}

// Delete handles DELETE /sessions/:id.
func (h *SessionHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.Svc.DeleteSession(restaurantID(c), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// List handles GET /sessions?month=YYYY-MM&user_id=N. Stale sessions are
// reaped on this read path before the query runs.
func (h *SessionHandler) List(c *gin.Context) {
	r, ok := loadRestaurant(h.DB, c)
	if !ok {
		return
	}
	loc := r.Location()

	year, month, err := monthParam(c, loc)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	h.Svc.ReapStale(r.ID)

	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)
	q := h.DB.Where("restaurant_id = ? AND clock_in >= ? AND clock_in < ?", r.ID, start, end)
	if raw := c.Query("user_id"); raw != "" {
		uid, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			badRequest(c, "user_id must be numeric")
			return
		}
		q = q.Where("user_id = ?", uint(uid))
	}

	var sessions []models.WorkSession
	if err := q.Order("clock_in desc").Find(&sessions).Error; err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "sessions": sessions})
}

// DeleteEvent handles DELETE /events/:id; only manual entries are deletable.
func (h *SessionHandler) DeleteEvent(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.Svc.DeleteEvent(restaurantID(c), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func idParam(c *gin.Context) (uint, bool) {
	id64, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil {
		badRequest(c, "id must be numeric")
		return 0, false
	}
	return uint(id64), true
}
