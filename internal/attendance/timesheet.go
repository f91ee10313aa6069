package attendance

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/Sannikov1993/PosResto-sub000/internal/models"
)

// FormatHours renders a decimal hour total as H:MM for display (8.5 -> 8:30).
func FormatHours(h float64) string {
	total := int(math.Round(h * 60))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// UserTotals is one payroll row of the monthly timesheet.
type UserTotals struct {
	UserID             uint    `json:"user_id"`
	FullName           string  `json:"full_name"`
	WorkedHours        float64 `json:"worked_hours"`
	WorkedDisplay      string  `json:"worked_display"`
	PlannedHours       float64 `json:"planned_hours"`
	PlannedDisplay     string  `json:"planned_display"`
	UnderworkedHours   float64 `json:"underworked_hours"`
	UnderworkedDisplay string  `json:"underworked_display"`
	HasActiveSession   bool    `json:"has_active_session"`
}

// CalendarDay is one row of the per-user month calendar.
type CalendarDay struct {
	Date         string                  `json:"date"`
	Weekday      string                  `json:"weekday"`
	Weekend      bool                    `json:"weekend"`
	Sessions     []models.WorkSession    `json:"sessions"`
	Schedule     *models.StaffSchedule   `json:"schedule,omitempty"`
	Override     *models.WorkDayOverride `json:"override,omitempty"`
	PlannedHours float64                 `json:"planned_hours"`
	WorkedHours  float64                 `json:"worked_hours"`
}

type UserTimesheet struct {
	Totals UserTotals    `json:"totals"`
	Days   []CalendarDay `json:"days"`
}

// MonthlyTimesheet reduces sessions, schedules and day overrides into
// per-user worked/planned/underworked totals. Read-only apart from the lazy
// reap on entry. Owners are payroll-exempt and skipped.
func (s *Service) MonthlyTimesheet(r *models.Restaurant, year int, month time.Month, userIDs []uint) ([]UserTotals, error) {
	s.ReapStale(r.ID)

	q := s.db.Where("restaurant_id = ? AND status = ? AND role <> ?",
		r.ID, models.StatusActive, models.RoleOwner)
	if len(userIDs) > 0 {
		q = q.Where("id IN ?", userIDs)
	}
	var users []models.User
	if err := q.Order("full_name asc").Find(&users).Error; err != nil {
		return nil, err
	}

	totals := make([]UserTotals, 0, len(users))
	for i := range users {
		row, err := s.userTotals(r, &users[i], year, month)
		if err != nil {
			return nil, err
		}
		totals = append(totals, *row)
	}
	return totals, nil
}

// UserMonth builds the single-user variant: totals plus a day-by-day
// calendar with sessions, the day's override and weekend metadata.
func (s *Service) UserMonth(r *models.Restaurant, userID uint, year int, month time.Month) (*UserTimesheet, error) {
	s.ReapStale(r.ID)

	var user models.User
	err := s.db.Where("id = ? AND restaurant_id = ?", userID, r.ID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	totals, err := s.userTotals(r, &user, year, month)
	if err != nil {
		return nil, err
	}

	loc := r.Location()
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)

	sessions, err := s.monthSessions(r.ID, user.ID, start, end)
	if err != nil {
		return nil, err
	}
	schedules, overrides, err := s.monthPlanning(r.ID, user.ID, start)
	if err != nil {
		return nil, err
	}

	byDate := map[string][]models.WorkSession{}
	for _, sess := range sessions {
		d := sess.ClockIn.In(loc).Format("2006-01-02")
		byDate[d] = append(byDate[d], sess)
	}

	days := make([]CalendarDay, 0, 31)
	for cur := start; cur.Before(end); cur = cur.AddDate(0, 0, 1) {
		date := cur.Format("2006-01-02")
		day := CalendarDay{
			Date:     date,
			Weekday:  cur.Weekday().String(),
			Weekend:  cur.Weekday() == time.Saturday || cur.Weekday() == time.Sunday,
			Sessions: byDate[date],
		}
		if sch, ok := schedules[date]; ok {
			day.Schedule = sch
			day.PlannedHours = sch.PlannedHours()
		}
		if ov, ok := overrides[date]; ok {
			day.Override = ov
			day.PlannedHours = ov.Hours
		}
		for _, sess := range day.Sessions {
			day.WorkedHours += s.sessionWorked(&sess)
		}
		day.WorkedHours = math.Round(day.WorkedHours*100) / 100
		days = append(days, day)
	}

	return &UserTimesheet{Totals: *totals, Days: days}, nil
}

func (s *Service) userTotals(r *models.Restaurant, user *models.User, year int, month time.Month) (*UserTotals, error) {
	loc := r.Location()
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)

	sessions, err := s.monthSessions(r.ID, user.ID, start, end)
	if err != nil {
		return nil, err
	}

	worked := 0.0
	hasActive := false
	for i := range sessions {
		sess := sessions[i]
		if sess.Status == models.SessionActive {
			hasActive = true
		}
		worked += s.sessionWorked(&sess)
	}
	worked = math.Round(worked*100) / 100

	schedules, overrides, err := s.monthPlanning(r.ID, user.ID, start)
	if err != nil {
		return nil, err
	}
	planned := 0.0
	for date, sch := range schedules {
		if _, overridden := overrides[date]; overridden {
			continue
		}
		planned += sch.PlannedHours()
	}
	for _, ov := range overrides {
		planned += ov.Hours
	}
	planned = math.Round(planned*100) / 100

	underworked := planned - worked
	if underworked < 0 {
		underworked = 0
	}
	underworked = math.Round(underworked*100) / 100

	return &UserTotals{
		UserID:             user.ID,
		FullName:           user.FullName,
		WorkedHours:        worked,
		WorkedDisplay:      FormatHours(worked),
		PlannedHours:       planned,
		PlannedDisplay:     FormatHours(planned),
		UnderworkedHours:   underworked,
		UnderworkedDisplay: FormatHours(underworked),
		HasActiveSession:   hasActive,
	}, nil
}

// sessionWorked values one session for the aggregate: closed sessions carry
// their stored hours (auto-closed store zero), an active session contributes
// its elapsed-so-far time.
func (s *Service) sessionWorked(sess *models.WorkSession) float64 {
	if sess.Status != models.SessionActive {
		return sess.HoursWorked
	}
	return SessionHours(sess.ClockIn, s.Now(), sess.BreakMinutes)
}

func (s *Service) monthSessions(restaurantID, userID uint, start, end time.Time) ([]models.WorkSession, error) {
	var sessions []models.WorkSession
	err := s.db.Where("restaurant_id = ? AND user_id = ? AND clock_in >= ? AND clock_in < ?",
		restaurantID, userID, start, end).
		Order("clock_in asc").Find(&sessions).Error
	return sessions, err
}

func (s *Service) monthPlanning(restaurantID, userID uint, start time.Time) (map[string]*models.StaffSchedule, map[string]*models.WorkDayOverride, error) {
	prefix := start.Format("2006-01") + "-%"

	var schedules []models.StaffSchedule
	err := s.db.Where("restaurant_id = ? AND user_id = ? AND published = ? AND date LIKE ?",
		restaurantID, userID, true, prefix).Find(&schedules).Error
	if err != nil {
		return nil, nil, err
	}
	var overrides []models.WorkDayOverride
	err = s.db.Where("restaurant_id = ? AND user_id = ? AND date LIKE ?",
		restaurantID, userID, prefix).Find(&overrides).Error
	if err != nil {
		return nil, nil, err
	}

	schedByDate := make(map[string]*models.StaffSchedule, len(schedules))
	for i := range schedules {
		schedByDate[schedules[i].Date] = &schedules[i]
	}
	ovByDate := make(map[string]*models.WorkDayOverride, len(overrides))
	for i := range overrides {
		ovByDate[overrides[i].Date] = &overrides[i]
	}
	return schedByDate, ovByDate, nil
}
