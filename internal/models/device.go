package models

import (
	"time"

	"gorm.io/datatypes"
)

type DeviceVendor string
type DeviceStatus string
type EnrollStatus string

const (
	VendorAnviz     DeviceVendor = "anviz"
	VendorZKTeco    DeviceVendor = "zkteco"
	VendorHikvision DeviceVendor = "hikvision"
	VendorGeneric   DeviceVendor = "generic"

	DeviceActive   DeviceStatus = "active"
	DeviceInactive DeviceStatus = "inactive"
	DeviceOffline  DeviceStatus = "offline"

	EnrollNone     EnrollStatus = "none"
	EnrollPending  EnrollStatus = "pending"
	EnrollEnrolled EnrollStatus = "enrolled"
	EnrollFailed   EnrollStatus = "failed"
)

// OnlineWindow is how recent a heartbeat must be for a device to count as online.
const OnlineWindow = 5 * time.Minute

// Device is one physical clock terminal. The serial number routes inbound
// webhooks, so it is unique across the whole table, not just per restaurant.
type Device struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	RestaurantID uint         `gorm:"index;not null" json:"restaurant_id"`
	Vendor       DeviceVendor `gorm:"type:varchar(20);not null" json:"vendor"`
	Name         string       `gorm:"type:varchar(100);not null" json:"name"`
	SerialNumber string       `gorm:"type:varchar(64);uniqueIndex;not null" json:"serial_number"`
	Host         string       `gorm:"type:varchar(100)" json:"host"`
	Port         int          `json:"port"`

	// Opaque per-device credential presented on every webhook call.
	APIKey string `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`

	Status          DeviceStatus      `gorm:"type:varchar(20);not null;default:'inactive'" json:"status"`
	LastHeartbeatAt *time.Time        `json:"last_heartbeat_at"`
	LastSyncAt      *time.Time        `json:"last_sync_at"`
	Settings        datatypes.JSONMap `json:"settings"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *Device) Online(now time.Time) bool {
	return d.LastHeartbeatAt != nil && now.Sub(*d.LastHeartbeatAt) <= OnlineWindow
}

// DeviceUserLink associates a platform user with the identifier a terminal
// uses internally for the same person.
type DeviceUserLink struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	DeviceID     uint   `gorm:"not null;uniqueIndex:idx_link_device_ext;uniqueIndex:idx_link_device_user" json:"device_id"`
	UserID       uint   `gorm:"not null;uniqueIndex:idx_link_device_user;index" json:"user_id"`
	DeviceUserID string `gorm:"type:varchar(32);not null;uniqueIndex:idx_link_device_ext" json:"device_user_id"`

	Synced   bool       `gorm:"not null;default:false" json:"synced"`
	SyncedAt *time.Time `json:"synced_at"`

	FaceStatus        EnrollStatus `gorm:"type:varchar(20);not null;default:'none'" json:"face_status"`
	FaceEnrolledAt    *time.Time   `json:"face_enrolled_at"`
	FingerStatus      EnrollStatus `gorm:"type:varchar(20);not null;default:'none'" json:"finger_status"`
	FingerEnrolledAt  *time.Time   `json:"finger_enrolled_at"`
	FaceTemplateCount int          `gorm:"not null;default:0" json:"face_template_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
