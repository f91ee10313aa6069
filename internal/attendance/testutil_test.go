package attendance

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Sannikov1993/PosResto-sub000/internal/models"
	"github.com/Sannikov1993/PosResto-sub000/internal/storage"
)

// frozen "now" used by most fixtures: a Wednesday, 12:00 UTC.
var testNow = time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

func testService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// One in-memory database, one connection.
	sqlDB.SetMaxOpenConns(1)

	if err := storage.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	svc := NewService(db)
	svc.Now = func() time.Time { return testNow }
	return svc, db
}

func seedRestaurant(t *testing.T, db *gorm.DB, mode models.AttendanceMode) *models.Restaurant {
	t.Helper()
	r := &models.Restaurant{
		Name:           "Bistro Nord",
		Timezone:       "UTC",
		AttendanceMode: mode,
	}
	if err := db.Create(r).Error; err != nil {
		t.Fatalf("seed restaurant: %v", err)
	}
	return r
}

func seedUser(t *testing.T, db *gorm.DB, restaurantID uint, role models.UserRole, email string) *models.User {
	t.Helper()
	u := &models.User{
		RestaurantID: restaurantID,
		Role:         role,
		Status:       models.StatusActive,
		FullName:     "Test " + email,
		Email:        email,
		PasswordHash: "x",
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func seedDevice(t *testing.T, db *gorm.DB, restaurantID uint, serial string) *models.Device {
	t.Helper()
	d := &models.Device{
		RestaurantID: restaurantID,
		Vendor:       models.VendorGeneric,
		Name:         "Kitchen door " + serial,
		SerialNumber: serial,
		APIKey:       "key-" + serial,
		Status:       models.DeviceInactive,
	}
	if err := db.Create(d).Error; err != nil {
		t.Fatalf("seed device: %v", err)
	}
	return d
}

func seedLink(t *testing.T, db *gorm.DB, deviceID, userID uint, deviceUserID string) *models.DeviceUserLink {
	t.Helper()
	l := &models.DeviceUserLink{
		DeviceID:     deviceID,
		UserID:       userID,
		DeviceUserID: deviceUserID,
		FaceStatus:   models.EnrollNone,
		FingerStatus: models.EnrollNone,
	}
	if err := db.Create(l).Error; err != nil {
		t.Fatalf("seed link: %v", err)
	}
	return l
}

func seedShift(t *testing.T, db *gorm.DB, restaurantID, userID uint, date, start, end string) {
	t.Helper()
	s := &models.StaffSchedule{
		RestaurantID: restaurantID,
		UserID:       userID,
		Date:         date,
		StartTime:    start,
		EndTime:      end,
		Published:    true,
	}
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("seed shift: %v", err)
	}
}

func deviceClock(r *models.Restaurant, u *models.User, d *models.Device, at time.Time, vendorEventID string) ClockRequest {
	return ClockRequest{
		Restaurant:    r,
		User:          u,
		Device:        d,
		Channel:       ChannelDevice,
		Source:        models.SourceDevice,
		Method:        models.VerifyFace,
		At:            at,
		VendorEventID: vendorEventID,
	}
}
