package models

import "time"

type AttendanceMode string

const (
	AttendanceDisabled   AttendanceMode = "disabled"
	AttendanceDeviceOnly AttendanceMode = "device_only"
	AttendanceQROnly     AttendanceMode = "qr_only"
	AttendanceDeviceOrQR AttendanceMode = "device_or_qr"
)

// Tolerance defaults applied when a restaurant has no explicit configuration.
const (
	DefaultEarlyToleranceMin = 30
	DefaultLateToleranceMin  = 120
)

type Restaurant struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Timezone string `gorm:"type:varchar(64);not null;default:'UTC'" json:"timezone"`

	AttendanceMode    AttendanceMode `gorm:"type:varchar(20);not null;default:'device_or_qr'" json:"attendance_mode"`
	EarlyToleranceMin int            `gorm:"not null;default:30" json:"early_tolerance_min"`
	LateToleranceMin  int            `gorm:"not null;default:120" json:"late_tolerance_min"`

	// Base32 TOTP secret backing the rotating QR clock code.
	QRSecret string `gorm:"type:varchar(64)" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

// Location resolves the restaurant's IANA timezone, falling back to UTC so a
// bad configuration value never breaks the clock pipeline.
func (r *Restaurant) Location() *time.Location {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil || loc == nil {
		return time.UTC
	}
	return loc
}

// EarlyTolerance returns the configured early-arrival window in minutes.
func (r *Restaurant) EarlyTolerance() int {
	if r.EarlyToleranceMin <= 0 {
		return DefaultEarlyToleranceMin
	}
	return r.EarlyToleranceMin
}

func (r *Restaurant) LateTolerance() int {
	if r.LateToleranceMin <= 0 {
		return DefaultLateToleranceMin
	}
	return r.LateToleranceMin
}

// AllowsDevice reports whether terminal-originated clock events are accepted.
func (m AttendanceMode) AllowsDevice() bool {
	return m == AttendanceDeviceOnly || m == AttendanceDeviceOrQR
}

func (m AttendanceMode) AllowsQR() bool {
	return m == AttendanceQROnly || m == AttendanceDeviceOrQR
}
