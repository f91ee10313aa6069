package attendance

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Sannikov1993/PosResto-sub000/internal/models"
)

// Channel is the clocking transport a signal arrived on.
type Channel string

const (
	ChannelDevice Channel = "device"
	ChannelQR     Channel = "qr"
)

// checkMode verifies the restaurant accepts this channel at all. Disabled
// mode short-circuits every other policy check.
func checkMode(r *models.Restaurant, ch Channel) error {
	switch r.AttendanceMode {
	case models.AttendanceDisabled:
		return nil
	case models.AttendanceDeviceOnly, models.AttendanceQROnly, models.AttendanceDeviceOrQR:
	default:
		return nil // unconfigured restaurants behave like device_or_qr
	}
	if ch == ChannelDevice && !r.AttendanceMode.AllowsDevice() {
		return ErrModeNotAllowed
	}
	if ch == ChannelQR && !r.AttendanceMode.AllowsQR() {
		return ErrModeNotAllowed
	}
	return nil
}

// checkArrivalWindow gates the clock-in that opens a session: the user needs
// a published shift on the restaurant-local date of the event, and the event
// must fall inside [shift start - early tolerance, shift start + late
// tolerance]. Clock-outs are never window-checked; the session they close was
// already vetted on the way in.
func (s *Service) checkArrivalWindow(r *models.Restaurant, userID uint, at time.Time) error {
	if r.AttendanceMode == models.AttendanceDisabled {
		return nil
	}

	loc := r.Location()
	local := at.In(loc)
	date := local.Format("2006-01-02")

	var shift models.StaffSchedule
	err := s.db.Where("restaurant_id = ? AND user_id = ? AND date = ? AND published = ?",
		r.ID, userID, date, true).First(&shift).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNoSchedule
		}
		return err
	}

	startMin, ok := models.MinutesOfDay(shift.StartTime)
	if !ok {
		return ErrNoSchedule
	}
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	shiftStart := dayStart.Add(time.Duration(startMin) * time.Minute)

	earliest := shiftStart.Add(-time.Duration(r.EarlyTolerance()) * time.Minute)
	latest := shiftStart.Add(time.Duration(r.LateTolerance()) * time.Minute)

	if local.Before(earliest) {
		return ErrTooEarly
	}
	if local.After(latest) {
		return ErrTooLate
	}
	return nil
}
