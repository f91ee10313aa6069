package attendance

import (
	"errors"
	"strconv"

	"gorm.io/gorm"

	"github.com/Sannikov1993/PosResto-sub000/internal/models"
)

// ResolveDeviceUser maps a device-local user identifier to the platform user
// behind it. The user must belong to the device's restaurant.
func (s *Service) ResolveDeviceUser(device *models.Device, externalID string) (*models.User, error) {
	var link models.DeviceUserLink
	err := s.db.Where("device_id = ? AND device_user_id = ?", device.ID, externalID).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var user models.User
	err = s.db.Where("id = ? AND restaurant_id = ?", link.UserID, device.RestaurantID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ApplyEnrollment records the outcome of an on-device face or fingerprint
// enrollment callback on the link row.
func (s *Service) ApplyEnrollment(device *models.Device, externalID, kind string, succeeded bool, templateCount int) error {
	var link models.DeviceUserLink
	err := s.db.Where("device_id = ? AND device_user_id = ?", device.ID, externalID).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	now := s.Now()
	switch kind {
	case "fingerprint":
		if succeeded {
			link.FingerStatus = models.EnrollEnrolled
			link.FingerEnrolledAt = &now
		} else {
			link.FingerStatus = models.EnrollFailed
		}
	default: // face
		if succeeded {
			link.FaceStatus = models.EnrollEnrolled
			link.FaceEnrolledAt = &now
			if templateCount > 0 {
				link.FaceTemplateCount = templateCount
			}
		} else {
			link.FaceStatus = models.EnrollFailed
		}
	}
	return s.db.Save(&link).Error
}

// NextDeviceUserID allocates a device-local id for a user being added to a
// terminal without one: max existing numeric id + 1, or 1 on a fresh device.
func (s *Service) NextDeviceUserID(deviceID uint) (string, error) {
	var ids []string
	err := s.db.Model(&models.DeviceUserLink{}).
		Where("device_id = ?", deviceID).
		Pluck("device_user_id", &ids).Error
	if err != nil {
		return "", err
	}
	max := 0
	for _, id := range ids {
		if n, err := strconv.Atoi(id); err == nil && n > max {
			max = n
		}
	}
	return strconv.Itoa(max + 1), nil
}

// LinkUser attaches a platform user to a device. An empty deviceUserID asks
// for auto-allocation.
func (s *Service) LinkUser(device *models.Device, userID uint, deviceUserID string) (*models.DeviceUserLink, error) {
	var user models.User
	err := s.db.Where("id = ? AND restaurant_id = ?", userID, device.RestaurantID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if deviceUserID == "" {
		deviceUserID, err = s.NextDeviceUserID(device.ID)
		if err != nil {
			return nil, err
		}
	}

	link := models.DeviceUserLink{
		DeviceID:     device.ID,
		UserID:       userID,
		DeviceUserID: deviceUserID,
		FaceStatus:   models.EnrollNone,
		FingerStatus: models.EnrollNone,
	}
	if err := s.db.Create(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}
