package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Sannikov1993/PosResto-sub000/internal/attendance"
	"github.com/Sannikov1993/PosResto-sub000/internal/models"
)

// fail maps pipeline errors to their wire shape. Unexpected errors become an
// opaque 500; the machine-readable codes only cover the documented taxonomy.
func fail(c *gin.Context, err error) {
	if e, ok := attendance.AsError(err); ok {
		c.JSON(e.Status, gin.H{"success": false, "error": e.Code, "message": e.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal", "message": "internal error"})
}

func restaurantID(c *gin.Context) uint {
	return c.GetUint("restaurant_id")
}

func loadRestaurant(db *gorm.DB, c *gin.Context) (*models.Restaurant, bool) {
	var r models.Restaurant
	if err := db.First(&r, restaurantID(c)).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid_tenant", "message": "restaurant not found"})
		return nil, false
	}
	return &r, true
}

// monthParam reads ?month=YYYY-MM, defaulting to the current month in loc.
func monthParam(c *gin.Context, loc *time.Location) (int, time.Month, error) {
	raw := c.DefaultQuery("month", time.Now().In(loc).Format("2006-01"))
	t, err := time.Parse("2006-01", raw)
	if err != nil {
		return 0, 0, errors.New("month must be YYYY-MM")
	}
	return t.Year(), t.Month(), nil
}

// combineLocal builds an instant from a date and an HH:MM time-of-day in the
// restaurant's timezone.
func combineLocal(date, hhmm string, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}
	mins, ok := models.MinutesOfDay(hhmm)
	if !ok {
		return time.Time{}, fmt.Errorf("time must be HH:MM")
	}
	return day.Add(time.Duration(mins) * time.Minute), nil
}

// timeMonthPrefix is the SQL LIKE prefix matching every date in a month.
func timeMonthPrefix(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d-%%", year, int(month))
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid_request", "message": msg})
}
