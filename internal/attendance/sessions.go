package attendance

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Sannikov1993/PosResto-sub000/internal/models"
)

// SessionHours computes worked hours for a span. When the clock-out
// time-of-day is numerically earlier than the clock-in the shift wrapped
// midnight, so a day is added before subtracting. Never negative.
func SessionHours(clockIn, clockOut time.Time, breakMinutes int) float64 {
	out := clockOut
	if out.Before(clockIn) {
		out = out.Add(24 * time.Hour)
	}
	h := out.Sub(clockIn).Hours() - float64(breakMinutes)/60
	if h < 0 {
		return 0
	}
	return math.Round(h*100) / 100
}

// ClockRequest is one normalized clock signal entering the state machine.
type ClockRequest struct {
	Restaurant *models.Restaurant
	User       *models.User
	Device     *models.Device // nil for the QR channel
	Channel    Channel
	Source     models.EventSource
	Method     models.VerifyMethod
	At         time.Time
	Latitude   *float64
	Longitude  *float64
	Confidence *int

	// VendorEventID deduplicates at-least-once deliveries; empty disables dedup.
	VendorEventID string
	Raw           datatypes.JSON

	// Hint is the device's claimed direction, recorded for audit only.
	Hint string
}

type ClockResult struct {
	Duplicate bool
	Type      models.EventType
	Event     *models.AttendanceEvent
	Session   *models.WorkSession
}

// RecordClock runs the automatic inference rule: no active session opens one,
// an active non-manual session is closed, an active manual session is left
// alone and a second session opens beside it. The device's own event-type
// claim is never trusted. Dedup, the decision and the writes all happen
// under the per-user lock.
func (s *Service) RecordClock(req ClockRequest) (*ClockResult, error) {
	if err := checkMode(req.Restaurant, req.Channel); err != nil {
		return nil, err
	}

	unlock := s.lockUser(req.Restaurant.ID, req.User.ID)
	defer unlock()

	if req.Device != nil && req.VendorEventID != "" {
		dup, err := s.isDuplicate(req.User.ID, req.Device.ID, req.VendorEventID)
		if err != nil {
			return nil, err
		}
		if dup {
			return &ClockResult{Duplicate: true}, nil
		}
	}

	var active models.WorkSession
	err := s.db.Where("restaurant_id = ? AND user_id = ? AND status = ?",
		req.Restaurant.ID, req.User.ID, models.SessionActive).
		Order("clock_in desc").First(&active).Error
	hasActive := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	closing := hasActive && !active.IsManual
	if !closing {
		// Only the session-opening clock-in is window-checked.
		if err := s.checkArrivalWindow(req.Restaurant, req.User.ID, req.At); err != nil {
			return nil, err
		}
	}

	result := &ClockResult{}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if closing {
			at := req.At
			active.ClockOut = &at
			active.HoursWorked = SessionHours(active.ClockIn, at, active.BreakMinutes)
			active.Status = models.SessionCompleted
			if err := tx.Save(&active).Error; err != nil {
				return err
			}
			result.Type = models.EventClockOut
			result.Session = &active
		} else {
			sess := models.WorkSession{
				RestaurantID: req.Restaurant.ID,
				UserID:       req.User.ID,
				ClockIn:      req.At,
				Status:       models.SessionActive,
			}
			if err := tx.Create(&sess).Error; err != nil {
				return err
			}
			result.Type = models.EventClockIn
			result.Session = &sess
		}

		event := models.AttendanceEvent{
			RestaurantID: req.Restaurant.ID,
			UserID:       req.User.ID,
			Type:         result.Type,
			Source:       req.Source,
			Method:       req.Method,
			EventAt:      req.At,
			Latitude:     req.Latitude,
			Longitude:    req.Longitude,
			Confidence:   req.Confidence,
			RawPayload:   req.Raw,
		}
		if req.Device != nil {
			event.DeviceID = &req.Device.ID
		}
		if req.VendorEventID != "" {
			id := req.VendorEventID
			event.VendorEventID = &id
		}
		if req.Hint != "" && string(result.Type) != req.Hint {
			event.Notes = fmt.Sprintf("device hinted %s, inferred %s", req.Hint, result.Type)
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}
		result.Event = &event
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// isDuplicate reports whether this (user, device) pair already produced an
// event with the same vendor event id. Absent ids never deduplicate.
func (s *Service) isDuplicate(userID, deviceID uint, vendorEventID string) (bool, error) {
	if vendorEventID == "" {
		return false, nil
	}
	var n int64
	err := s.db.Model(&models.AttendanceEvent{}).
		Where("user_id = ? AND device_id = ? AND vendor_event_id = ?", userID, deviceID, vendorEventID).
		Count(&n).Error
	return n > 0, err
}

// OpenManualSession starts an administrator-entered session. Manual sessions
// are shielded from automatic closure by device signals.
func (s *Service) OpenManualSession(restaurantID, userID uint, clockIn time.Time, notes string) (*models.WorkSession, error) {
	unlock := s.lockUser(restaurantID, userID)
	defer unlock()

	var n int64
	err := s.db.Model(&models.WorkSession{}).
		Where("restaurant_id = ? AND user_id = ? AND status = ?", restaurantID, userID, models.SessionActive).
		Count(&n).Error
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrAlreadyActive
	}

	sess := models.WorkSession{
		RestaurantID: restaurantID,
		UserID:       userID,
		ClockIn:      clockIn,
		Status:       models.SessionActive,
		IsManual:     true,
		Notes:        notes,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&sess).Error; err != nil {
			return err
		}
		return tx.Create(&models.AttendanceEvent{
			RestaurantID: restaurantID,
			UserID:       userID,
			Type:         models.EventClockIn,
			Source:       models.SourceManual,
			Method:       models.VerifyManual,
			EventAt:      clockIn,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// CloseManualSession closes any open session by administrator action and
// marks it corrected + manual.
func (s *Service) CloseManualSession(restaurantID, sessionID uint, clockOut time.Time) (*models.WorkSession, error) {
	var sess models.WorkSession
	err := s.db.Where("restaurant_id = ? AND id = ?", restaurantID, sessionID).First(&sess).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	unlock := s.lockUser(restaurantID, sess.UserID)
	defer unlock()

	if err := s.db.First(&sess, sess.ID).Error; err != nil {
		return nil, err
	}
	if sess.Status != models.SessionActive {
		return nil, ErrAlreadyClosed
	}

	sess.ClockOut = &clockOut
	sess.HoursWorked = SessionHours(sess.ClockIn, clockOut, sess.BreakMinutes)
	sess.Status = models.SessionCorrected
	sess.IsManual = true
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&sess).Error; err != nil {
			return err
		}
		return tx.Create(&models.AttendanceEvent{
			RestaurantID: restaurantID,
			UserID:       sess.UserID,
			Type:         models.EventClockOut,
			Source:       models.SourceManual,
			Method:       models.VerifyManual,
			EventAt:      clockOut,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// CorrectSession rewrites a session's span. A non-empty reason is required.
func (s *Service) CorrectSession(restaurantID, sessionID uint, clockIn, clockOut time.Time, breakMinutes int, reason string) (*models.WorkSession, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, ErrReasonRequired
	}

	var sess models.WorkSession
	err := s.db.Where("restaurant_id = ? AND id = ?", restaurantID, sessionID).First(&sess).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	unlock := s.lockUser(restaurantID, sess.UserID)
	defer unlock()

	sess.ClockIn = clockIn
	sess.ClockOut = &clockOut
	if breakMinutes >= 0 {
		sess.BreakMinutes = breakMinutes
	}
	sess.HoursWorked = SessionHours(clockIn, clockOut, sess.BreakMinutes)
	sess.Status = models.SessionCorrected
	sess.CorrectionReason = reason
	if err := s.db.Save(&sess).Error; err != nil {
		return nil, err
	}
	return &sess, nil
}

// CreateManualRange records a whole span in one call; without a clock-out it
// opens a manual session instead.
func (s *Service) CreateManualRange(restaurantID, userID uint, clockIn time.Time, clockOut *time.Time, breakMinutes int, notes string) (*models.WorkSession, error) {
	if clockOut == nil {
		return s.OpenManualSession(restaurantID, userID, clockIn, notes)
	}

	unlock := s.lockUser(restaurantID, userID)
	defer unlock()

	sess := models.WorkSession{
		RestaurantID: restaurantID,
		UserID:       userID,
		ClockIn:      clockIn,
		ClockOut:     clockOut,
		Status:       models.SessionCompleted,
		HoursWorked:  SessionHours(clockIn, *clockOut, breakMinutes),
		BreakMinutes: breakMinutes,
		IsManual:     true,
		Notes:        notes,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&sess).Error; err != nil {
			return err
		}
		for _, ev := range []models.AttendanceEvent{
			{RestaurantID: restaurantID, UserID: userID, Type: models.EventClockIn,
				Source: models.SourceManual, Method: models.VerifyManual, EventAt: clockIn},
			{RestaurantID: restaurantID, UserID: userID, Type: models.EventClockOut,
				Source: models.SourceManual, Method: models.VerifyManual, EventAt: *clockOut},
		} {
			if err := tx.Create(&ev).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *Service) DeleteSession(restaurantID, sessionID uint) error {
	res := s.db.Where("restaurant_id = ? AND id = ?", restaurantID, sessionID).
		Delete(&models.WorkSession{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteEvent removes a manual entry. Vendor-sourced events are append-only.
func (s *Service) DeleteEvent(restaurantID, eventID uint) error {
	var ev models.AttendanceEvent
	err := s.db.Where("restaurant_id = ? AND id = ?", restaurantID, eventID).First(&ev).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	if ev.Source != models.SourceManual {
		return ErrEventProtected
	}
	return s.db.Delete(&ev).Error
}
