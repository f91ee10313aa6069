package models

import (
	"time"

	"gorm.io/datatypes"
)

type EventType string
type EventSource string
type VerifyMethod string
type SessionStatus string

const (
	EventClockIn  EventType = "clock_in"
	EventClockOut EventType = "clock_out"

	SourceDevice EventSource = "device"
	SourceQR     EventSource = "qr_code"
	SourceManual EventSource = "manual"

	VerifyFace        VerifyMethod = "face"
	VerifyFingerprint VerifyMethod = "fingerprint"
	VerifyCard        VerifyMethod = "card"
	VerifyQR          VerifyMethod = "qr"
	VerifyManual      VerifyMethod = "manual"
	VerifyUnknown     VerifyMethod = "unknown"

	SessionActive     SessionStatus = "active"
	SessionCompleted  SessionStatus = "completed"
	SessionCorrected  SessionStatus = "corrected"
	SessionAutoClosed SessionStatus = "auto_closed"
)

// AttendanceEvent is an immutable clock fact. Vendor-sourced events are
// append-only; only manual entries may be deleted.
type AttendanceEvent struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	RestaurantID uint         `gorm:"index;not null" json:"restaurant_id"`
	UserID       uint         `gorm:"index;not null" json:"user_id"`
	DeviceID     *uint        `gorm:"index" json:"device_id,omitempty"`
	Type         EventType    `gorm:"type:varchar(20);not null" json:"type"`
	Source       EventSource  `gorm:"type:varchar(20);not null" json:"source"`
	Method       VerifyMethod `gorm:"type:varchar(20);not null" json:"method"`

	// Instant of the clock signal, restaurant-local wall clock.
	EventAt time.Time `gorm:"index;not null" json:"event_at"`

	Latitude      *float64       `json:"latitude,omitempty"`
	Longitude     *float64       `json:"longitude,omitempty"`
	Confidence    *int           `json:"confidence,omitempty"`
	VendorEventID *string        `gorm:"type:varchar(64);index" json:"vendor_event_id,omitempty"`
	RawPayload    datatypes.JSON `json:"raw_payload,omitempty"`
	Notes         string         `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
}

// WorkSession is the open-or-closed attendance span driving payroll hours.
// At most one active session may exist per (restaurant, user).
type WorkSession struct {
	ID           uint `gorm:"primaryKey" json:"id"`
	RestaurantID uint `gorm:"index:idx_sessions_tenant_user;not null" json:"restaurant_id"`
	UserID       uint `gorm:"index:idx_sessions_tenant_user;not null" json:"user_id"`

	ClockIn  time.Time  `gorm:"index;not null" json:"clock_in"`
	ClockOut *time.Time `json:"clock_out,omitempty"`

	Status           SessionStatus `gorm:"type:varchar(20);index;not null;default:'active'" json:"status"`
	HoursWorked      float64       `gorm:"not null;default:0" json:"hours_worked"`
	BreakMinutes     int           `gorm:"not null;default:0" json:"break_minutes"`
	IsManual         bool          `gorm:"not null;default:false" json:"is_manual"`
	CorrectionReason string        `json:"correction_reason,omitempty"`
	Notes            string        `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *WorkSession) Open() bool {
	return s.Status == SessionActive
}

// Overnight reports whether the span wraps past midnight, judged on
// time-of-day like the hour arithmetic is.
func (s *WorkSession) Overnight() bool {
	if s.ClockOut == nil {
		return false
	}
	in := s.ClockIn.Hour()*60 + s.ClockIn.Minute()
	out := s.ClockOut.Hour()*60 + s.ClockOut.Minute()
	return out < in
}
