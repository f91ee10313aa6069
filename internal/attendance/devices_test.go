package attendance

import (
	"testing"
	"time"

	"github.com/Sannikov1993/PosResto-sub000/internal/models"
)

func TestExtractAPIKey(t *testing.T) {
	cases := []struct {
		header, auth, want string
	}{
		{"abc", "", "abc"},
		{" abc ", "", "abc"},
		{"", "Bearer abc", "abc"},
		{"", "bearer abc", "abc"},
		{"", "abc", "abc"},
		{"header-wins", "Bearer other", "header-wins"},
		{"", "", ""},
	}
	for _, tc := range cases {
		if got := ExtractAPIKey(tc.header, tc.auth); got != tc.want {
			t.Errorf("ExtractAPIKey(%q, %q) = %q, want %q", tc.header, tc.auth, got, tc.want)
		}
	}
}

func TestAuthenticateDevice(t *testing.T) {
	svc, db := testService(t)
	r := seedRestaurant(t, db, models.AttendanceDisabled)
	d := seedDevice(t, db, r.ID, "T-1")

	got, err := svc.AuthenticateDevice(d.APIKey)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != d.ID {
		t.Fatalf("device = %d, want %d", got.ID, d.ID)
	}

	if _, err := svc.AuthenticateDevice(""); err != ErrMissingAPIKey {
		t.Fatalf("empty key: err = %v, want ErrMissingAPIKey", err)
	}
	if _, err := svc.AuthenticateDevice("nope"); err != ErrInvalidAPIKey {
		t.Fatalf("bad key: err = %v, want ErrInvalidAPIKey", err)
	}
}

func TestResolveDeviceUser(t *testing.T) {
	svc, db := testService(t)
	r := seedRestaurant(t, db, models.AttendanceDisabled)
	u := seedUser(t, db, r.ID, models.RoleStaff, "ana@example.com")
	d := seedDevice(t, db, r.ID, "T-1")
	seedLink(t, db, d.ID, u.ID, "42")

	got, err := svc.ResolveDeviceUser(d, "42")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != u.ID {
		t.Fatalf("user = %d, want %d", got.ID, u.ID)
	}

	if _, err := svc.ResolveDeviceUser(d, "777"); err != ErrUserNotFound {
		t.Fatalf("unlinked id: err = %v, want ErrUserNotFound", err)
	}
}

func TestApplyEnrollment(t *testing.T) {
	svc, db := testService(t)
	r := seedRestaurant(t, db, models.AttendanceDisabled)
	u := seedUser(t, db, r.ID, models.RoleStaff, "ana@example.com")
	d := seedDevice(t, db, r.ID, "T-1")
	seedLink(t, db, d.ID, u.ID, "42")

	if err := svc.ApplyEnrollment(d, "42", "face", true, 3); err != nil {
		t.Fatal(err)
	}
	var link models.DeviceUserLink
	db.Where("device_id = ?", d.ID).First(&link)
	if link.FaceStatus != models.EnrollEnrolled || link.FaceTemplateCount != 3 {
		t.Fatalf("link = %+v", link)
	}
	if link.FaceEnrolledAt == nil || !link.FaceEnrolledAt.Equal(testNow) {
		t.Fatalf("face enrolled at = %v", link.FaceEnrolledAt)
	}

	if err := svc.ApplyEnrollment(d, "42", "fingerprint", false, 0); err != nil {
		t.Fatal(err)
	}
	db.Where("device_id = ?", d.ID).First(&link)
	if link.FingerStatus != models.EnrollFailed {
		t.Fatalf("finger status = %q, want failed", link.FingerStatus)
	}
	// The failed fingerprint attempt leaves the face state alone.
	if link.FaceStatus != models.EnrollEnrolled {
		t.Fatalf("face status = %q, want still enrolled", link.FaceStatus)
	}

	if err := svc.ApplyEnrollment(d, "777", "face", true, 0); err != ErrUserNotFound {
		t.Fatalf("unlinked id: err = %v, want ErrUserNotFound", err)
	}
}

func TestNextDeviceUserID(t *testing.T) {
	svc, db := testService(t)
	r := seedRestaurant(t, db, models.AttendanceDisabled)
	d := seedDevice(t, db, r.ID, "T-1")

	id, err := svc.NextDeviceUserID(d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if id != "1" {
		t.Fatalf("fresh device id = %q, want 1", id)
	}

	u1 := seedUser(t, db, r.ID, models.RoleStaff, "a@example.com")
	u2 := seedUser(t, db, r.ID, models.RoleStaff, "b@example.com")
	seedLink(t, db, d.ID, u1.ID, "7")
	// Non-numeric ids are skipped by the allocator.
	seedLink(t, db, d.ID, u2.ID, "badge-A")

	id, err = svc.NextDeviceUserID(d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if id != "8" {
		t.Fatalf("next id = %q, want 8", id)
	}
}

func TestLinkUserAutoAllocates(t *testing.T) {
	svc, db := testService(t)
	r := seedRestaurant(t, db, models.AttendanceDisabled)
	u := seedUser(t, db, r.ID, models.RoleStaff, "ana@example.com")
	d := seedDevice(t, db, r.ID, "T-1")

	link, err := svc.LinkUser(d, u.ID, "")
	if err != nil {
		t.Fatal(err)
	}
	if link.DeviceUserID != "1" {
		t.Fatalf("device user id = %q, want 1", link.DeviceUserID)
	}

	// A user from another restaurant cannot be linked.
	other := seedRestaurant(t, db, models.AttendanceDisabled)
	stranger := seedUser(t, db, other.ID, models.RoleStaff, "x@example.com")
	if _, err := svc.LinkUser(d, stranger.ID, ""); err != ErrUserNotFound {
		t.Fatalf("cross-tenant link: err = %v, want ErrUserNotFound", err)
	}
}

func TestHeartbeatUpdatesTimestampOnly(t *testing.T) {
	svc, db := testService(t)
	r := seedRestaurant(t, db, models.AttendanceDisabled)
	d := seedDevice(t, db, r.ID, "T-1")

	got, serverTime, err := svc.Heartbeat(d.SerialNumber)
	if err != nil {
		t.Fatal(err)
	}
	if !serverTime.Equal(testNow) {
		t.Fatalf("server time = %v, want %v", serverTime, testNow)
	}
	if got.LastHeartbeatAt == nil || !got.LastHeartbeatAt.Equal(testNow) {
		t.Fatalf("heartbeat = %v", got.LastHeartbeatAt)
	}

	var cur models.Device
	db.First(&cur, d.ID)
	if cur.Status != models.DeviceInactive {
		t.Fatalf("status = %q, heartbeat must not activate the device", cur.Status)
	}
	if !cur.Online(testNow) {
		t.Fatal("device should read online right after a heartbeat")
	}
	if cur.Online(testNow.Add(models.OnlineWindow + time.Second)) {
		t.Fatal("device should drop offline after the window")
	}

	if _, _, err := svc.Heartbeat("GHOST"); err != ErrDeviceNotFound {
		t.Fatalf("unknown serial: err = %v, want ErrDeviceNotFound", err)
	}
	if _, _, err := svc.Heartbeat(""); err != ErrMissingSerial {
		t.Fatalf("empty serial: err = %v, want ErrMissingSerial", err)
	}
}
