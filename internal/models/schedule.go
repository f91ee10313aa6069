package models

import (
	"fmt"
	"time"
)

// StaffSchedule is a published shift for a user on a local calendar date.
// Consumed read-only by the policy evaluator and the timesheet aggregator.
type StaffSchedule struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	RestaurantID uint   `gorm:"index;not null" json:"restaurant_id"`
	UserID       uint   `gorm:"index;not null" json:"user_id"`
	Date         string `gorm:"type:varchar(10);index;not null" json:"date"` // YYYY-MM-DD
	StartTime    string `gorm:"type:varchar(5);not null" json:"start_time"`  // HH:MM
	EndTime      string `gorm:"type:varchar(5);not null" json:"end_time"`    // HH:MM
	Published    bool   `gorm:"not null;default:false" json:"published"`

	CreatedAt time.Time `json:"created_at"`
}

// PlannedHours derives the shift length, wrapping overnight shifts.
func (s *StaffSchedule) PlannedHours() float64 {
	start, ok1 := MinutesOfDay(s.StartTime)
	end, ok2 := MinutesOfDay(s.EndTime)
	if !ok1 || !ok2 {
		return 0
	}
	if end < start {
		end += 24 * 60
	}
	return float64(end-start) / 60
}

type OverrideKind string

const (
	OverrideShift     OverrideKind = "shift"
	OverrideDayOff    OverrideKind = "day_off"
	OverrideVacation  OverrideKind = "vacation"
	OverrideSickLeave OverrideKind = "sick_leave"
	OverrideAbsence   OverrideKind = "absence"
)

// WorkDayOverride reclassifies a whole day for one user, replacing any
// schedule-derived planned hours for that date.
type WorkDayOverride struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	RestaurantID uint         `gorm:"index;not null" json:"restaurant_id"`
	UserID       uint         `gorm:"not null;uniqueIndex:idx_override_user_date" json:"user_id"`
	Date         string       `gorm:"type:varchar(10);not null;uniqueIndex:idx_override_user_date" json:"date"`
	Kind         OverrideKind `gorm:"type:varchar(20);not null" json:"kind"`
	Hours        float64      `gorm:"not null;default:0" json:"hours"`
	StartTime    *string      `gorm:"type:varchar(5)" json:"start_time,omitempty"`
	EndTime      *string      `gorm:"type:varchar(5)" json:"end_time,omitempty"`
	Notes        string       `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MinutesOfDay parses "HH:MM" into minutes since midnight.
func MinutesOfDay(hhmm string) (int, bool) {
	var h, m int
	if _, err := fmt.Sscanf(hhmm, "%d:%d", &h, &m); err != nil {
		return 0, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}
