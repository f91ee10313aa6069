package attendance

import (
	"strings"
	"testing"
	"time"

	"github.com/Sannikov1993/PosResto-sub000/internal/models"
)

func TestReapStale(t *testing.T) {
	svc, db := testService(t)
	r := seedRestaurant(t, db, models.AttendanceDisabled)
	stale := seedUser(t, db, r.ID, models.RoleStaff, "ana@example.com")
	fresh := seedUser(t, db, r.ID, models.RoleStaff, "ben@example.com")

	if _, err := svc.OpenManualSession(r.ID, stale.ID, testNow.Add(-20*time.Hour), ""); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.OpenManualSession(r.ID, fresh.ID, testNow.Add(-5*time.Hour), ""); err != nil {
		t.Fatal(err)
	}

	if got := svc.ReapStale(r.ID); got != 1 {
		t.Fatalf("reaped = %d, want 1", got)
	}

	var reaped models.WorkSession
	if err := db.Where("user_id = ?", stale.ID).First(&reaped).Error; err != nil {
		t.Fatal(err)
	}
	if reaped.Status != models.SessionAutoClosed {
		t.Fatalf("status = %q, want auto_closed", reaped.Status)
	}
	if reaped.HoursWorked != 0 {
		t.Fatalf("hours = %v, want 0 (no credit for a missing clock-out)", reaped.HoursWorked)
	}
	if reaped.ClockOut == nil || !reaped.ClockOut.Equal(testNow) {
		t.Fatalf("clock_out = %v, want %v", reaped.ClockOut, testNow)
	}
	if !strings.Contains(reaped.Notes, "auto-closed") {
		t.Fatalf("notes = %q, want auto-close marker", reaped.Notes)
	}

	var untouched models.WorkSession
	if err := db.Where("user_id = ?", fresh.ID).First(&untouched).Error; err != nil {
		t.Fatal(err)
	}
	if untouched.Status != models.SessionActive {
		t.Fatalf("fresh session status = %q, want still active", untouched.Status)
	}
}

func TestReapStaleIdempotent(t *testing.T) {
	svc, db := testService(t)
	r := seedRestaurant(t, db, models.AttendanceDisabled)
	u := seedUser(t, db, r.ID, models.RoleStaff, "ana@example.com")

	if _, err := svc.OpenManualSession(r.ID, u.ID, testNow.Add(-30*time.Hour), ""); err != nil {
		t.Fatal(err)
	}
	if got := svc.ReapStale(r.ID); got != 1 {
		t.Fatalf("first pass reaped = %d, want 1", got)
	}
	if got := svc.ReapStale(r.ID); got != 0 {
		t.Fatalf("second pass reaped = %d, want 0", got)
	}
}

func TestReapStaleScopedToTenant(t *testing.T) {
	svc, db := testService(t)
	ra := seedRestaurant(t, db, models.AttendanceDisabled)
	rb := seedRestaurant(t, db, models.AttendanceDisabled)
	ua := seedUser(t, db, ra.ID, models.RoleStaff, "ana@example.com")
	ub := seedUser(t, db, rb.ID, models.RoleStaff, "ben@example.com")

	if _, err := svc.OpenManualSession(ra.ID, ua.ID, testNow.Add(-24*time.Hour), ""); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.OpenManualSession(rb.ID, ub.ID, testNow.Add(-24*time.Hour), ""); err != nil {
		t.Fatal(err)
	}

	if got := svc.ReapStale(ra.ID); got != 1 {
		t.Fatalf("tenant pass reaped = %d, want 1", got)
	}
	var other models.WorkSession
	if err := db.Where("user_id = ?", ub.ID).First(&other).Error; err != nil {
		t.Fatal(err)
	}
	if other.Status != models.SessionActive {
		t.Fatalf("other tenant touched: status = %q", other.Status)
	}

	// The periodic job passes 0 and sweeps the rest.
	if got := svc.ReapStale(0); got != 1 {
		t.Fatalf("global pass reaped = %d, want 1", got)
	}
}

func TestReapBoundary(t *testing.T) {
	svc, db := testService(t)
	r := seedRestaurant(t, db, models.AttendanceDisabled)
	u := seedUser(t, db, r.ID, models.RoleStaff, "ana@example.com")

	// Exactly at the threshold is not yet stale; the scan is strictly older.
	if _, err := svc.OpenManualSession(r.ID, u.ID, testNow.Add(-MaxOpenSession), ""); err != nil {
		t.Fatal(err)
	}
	if got := svc.ReapStale(r.ID); got != 0 {
		t.Fatalf("boundary session reaped = %d, want 0", got)
	}
}
