package attendance

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Sannikov1993/PosResto-sub000/internal/models"
)

// ExtractAPIKey accepts the device credential from a dedicated header or an
// Authorization value, with or without a Bearer prefix. Terminal firmwares
// are not consistent about which one they send.
func ExtractAPIKey(apiKeyHeader, authorization string) string {
	if k := strings.TrimSpace(apiKeyHeader); k != "" {
		return k
	}
	auth := strings.TrimSpace(authorization)
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[len("bearer "):])
	}
	return auth
}

// AuthenticateDevice resolves the device presenting this credential.
func (s *Service) AuthenticateDevice(apiKey string) (*models.Device, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	var d models.Device
	if err := s.db.Where("api_key = ?", apiKey).First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidAPIKey
		}
		return nil, err
	}
	return &d, nil
}

// ResolveDeviceBySerial finds the terminal a payload names, scoped to the
// authenticated device's restaurant so one tenant's gateway can never route
// into another.
func (s *Service) ResolveDeviceBySerial(restaurantID uint, serial string) (*models.Device, error) {
	if strings.TrimSpace(serial) == "" {
		return nil, ErrMissingSerial
	}
	var d models.Device
	err := s.db.Where("restaurant_id = ? AND serial_number = ?", restaurantID, serial).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeviceNotFound
		}
		return nil, err
	}
	return &d, nil
}

// TouchDevice marks a device alive after an accepted event.
func (s *Service) TouchDevice(d *models.Device) error {
	now := s.Now()
	d.Status = models.DeviceActive
	d.LastHeartbeatAt = &now
	return s.db.Model(d).Updates(map[string]any{
		"status":            models.DeviceActive,
		"last_heartbeat_at": now,
	}).Error
}

// Heartbeat updates only the heartbeat timestamp. No device credential is
// required, the serial alone identifies the terminal.
func (s *Service) Heartbeat(serial string) (*models.Device, time.Time, error) {
	now := s.Now()
	if strings.TrimSpace(serial) == "" {
		return nil, now, ErrMissingSerial
	}
	var d models.Device
	if err := s.db.Where("serial_number = ?", serial).First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, now, ErrDeviceNotFound
		}
		return nil, now, err
	}
	if err := s.db.Model(&d).Update("last_heartbeat_at", now).Error; err != nil {
		return nil, now, err
	}
	d.LastHeartbeatAt = &now
	return &d, now, nil
}
