package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Sannikov1993/PosResto-sub000/internal/attendance"
)

// TimesheetHandler is the read-side payroll surface.
type TimesheetHandler struct {
	DB  *gorm.DB
	Svc *attendance.Service
}

func NewTimesheetHandler(db *gorm.DB, svc *attendance.Service) *TimesheetHandler {
	return &TimesheetHandler{DB: db, Svc: svc}
}

// Monthly handles GET /timesheet?month=YYYY-MM&user_ids=1,2,3.
func (h *TimesheetHandler) Monthly(c *gin.Context) {
	r, ok := loadRestaurant(h.DB, c)
	if !ok {
		return
	}
	year, month, err := monthParam(c, r.Location())
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	var userIDs []uint
	if raw := c.Query("user_ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
			if err != nil {
				badRequest(c, "user_ids must be a comma-separated list of ids")
				return
			}
			userIDs = append(userIDs, uint(id))
		}
	}

	totals, err := h.Svc.MonthlyTimesheet(r, year, month, userIDs)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"month":   c.DefaultQuery("month", ""),
		"rows":    totals,
	})
}

// User handles GET /timesheet/users/:id?month=YYYY-MM: totals plus the
// day-by-day calendar.
func (h *TimesheetHandler) User(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	r, ok := loadRestaurant(h.DB, c)
	if !ok {
		return
	}
	year, month, err := monthParam(c, r.Location())
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	sheet, err := h.Svc.UserMonth(r, id, year, month)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "timesheet": sheet})
}
