package attendance

import (
	"encoding/json"
	"errors"
	"log"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Sannikov1993/PosResto-sub000/internal/models"
	"github.com/Sannikov1993/PosResto-sub000/internal/utils"
	"github.com/Sannikov1993/PosResto-sub000/internal/vendors"
)

// WebhookOutcome is the success shape of one ingested vendor delivery.
type WebhookOutcome struct {
	Duplicate  bool
	Enrollment bool
	EnrollKind string
	Type       models.EventType
	Message    string
	DeviceID   uint
	UserID     uint
}

// IngestWebhook runs the full inbound pipeline for one vendor delivery:
// auth gate -> normalizer -> serial routing -> dedup -> link resolution ->
// policy -> session state machine. Enrollment sub-events branch off to the
// link resolver and never create an attendance event.
func (s *Service) IngestWebhook(vendor, apiKey string, body map[string]any) (*WebhookOutcome, error) {
	if !vendors.Known(vendor) {
		return nil, ErrUnknownType
	}

	gateDevice, err := s.AuthenticateDevice(apiKey)
	if err != nil {
		return nil, err
	}

	var restaurant models.Restaurant
	if err := s.db.First(&restaurant, gateDevice.RestaurantID).Error; err != nil {
		return nil, err
	}
	loc := restaurant.Location()

	log.Printf("webhook %s: device %s payload %v", vendor, gateDevice.SerialNumber, utils.SanitizePayload(body))

	sig, err := vendors.Parse(vendor, body, s.Now().In(loc), loc)
	if err != nil {
		switch {
		case errors.Is(err, vendors.ErrUnknownVendor):
			return nil, ErrUnknownType
		case errors.Is(err, vendors.ErrMissingSerial):
			return nil, ErrMissingSerial
		case errors.Is(err, vendors.ErrMissingUserID):
			return nil, ErrMissingUserID
		}
		return nil, err
	}

	device, err := s.ResolveDeviceBySerial(gateDevice.RestaurantID, sig.DeviceSerial)
	if err != nil {
		return nil, err
	}
	if err := s.TouchDevice(device); err != nil {
		return nil, err
	}

	user, err := s.ResolveDeviceUser(device, sig.ExternalUserID)
	if err != nil {
		return nil, err
	}

	if sig.Kind == vendors.KindEnrollment {
		if err := s.ApplyEnrollment(device, sig.ExternalUserID, sig.EnrollKind, sig.EnrollSuccess, sig.TemplateCount); err != nil {
			return nil, err
		}
		return &WebhookOutcome{
			Enrollment: true,
			EnrollKind: sig.EnrollKind,
			Message:    "enrollment status updated",
			DeviceID:   device.ID,
			UserID:     user.ID,
		}, nil
	}

	raw, _ := json.Marshal(body)
	res, err := s.RecordClock(ClockRequest{
		Restaurant:    &restaurant,
		User:          user,
		Device:        device,
		Channel:       ChannelDevice,
		Source:        models.SourceDevice,
		Method:        sig.Method,
		At:            sig.Timestamp,
		Confidence:    sig.Confidence,
		VendorEventID: sig.VendorEventID,
		Raw:           datatypes.JSON(raw),
		Hint:          string(sig.Hint),
	})
	if err != nil {
		return nil, err
	}

	out := &WebhookOutcome{
		Duplicate: res.Duplicate,
		Type:      res.Type,
		DeviceID:  device.ID,
		UserID:    user.ID,
	}
	switch {
	case res.Duplicate:
		out.Message = "event already processed"
	case res.Type == models.EventClockIn:
		out.Message = "arrival recorded"
	default:
		out.Message = "departure recorded"
	}
	return out, nil
}

// QRClock runs the QR channel: the staff member is already authenticated,
// the rotating code proves physical presence at the restaurant's display.
func (s *Service) QRClock(restaurantID, userID uint, code string, lat, lng *float64) (*ClockResult, error) {
	var restaurant models.Restaurant
	if err := s.db.First(&restaurant, restaurantID).Error; err != nil {
		return nil, err
	}
	var user models.User
	if err := s.db.Where("id = ? AND restaurant_id = ?", userID, restaurantID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if restaurant.QRSecret == "" || !utils.VerifyQRCode(code, restaurant.QRSecret) {
		return nil, ErrInvalidQRCode
	}

	return s.RecordClock(ClockRequest{
		Restaurant: &restaurant,
		User:       &user,
		Channel:    ChannelQR,
		Source:     models.SourceQR,
		Method:     models.VerifyQR,
		At:         s.Now().In(restaurant.Location()),
		Latitude:   lat,
		Longitude:  lng,
	})
}
