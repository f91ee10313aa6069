package attendance

import (
	"testing"
	"time"

	"github.com/Sannikov1993/PosResto-sub000/internal/models"
)

// Shift 10:00-18:00, early tolerance 30, late tolerance 120: the opening
// clock-in is accepted only inside [09:30, 12:00].
func TestArrivalWindow(t *testing.T) {
	svc, db := testService(t)
	r := seedRestaurant(t, db, models.AttendanceDeviceOrQR)
	u := seedUser(t, db, r.ID, models.RoleStaff, "ana@example.com")
	seedShift(t, db, r.ID, u.ID, "2024-05-15", "10:00", "18:00")

	at := func(h, m int) time.Time {
		return time.Date(2024, 5, 15, h, m, 0, 0, time.UTC)
	}

	cases := []struct {
		name string
		at   time.Time
		want error
	}{
		{"on the dot", at(10, 0), nil},
		{"inside early tolerance", at(9, 35), nil},
		{"window lower bound", at(9, 30), nil},
		{"window upper bound", at(12, 0), nil},
		{"too early", at(8, 0), ErrTooEarly},
		{"one minute early", at(9, 29), ErrTooEarly},
		{"too late", at(14, 0), ErrTooLate},
	}
	for _, tc := range cases {
		if got := svc.checkArrivalWindow(r, u.ID, tc.at); got != tc.want {
			t.Errorf("%s: err = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestArrivalWindowRequiresPublishedShift(t *testing.T) {
	svc, db := testService(t)
	r := seedRestaurant(t, db, models.AttendanceDeviceOrQR)
	u := seedUser(t, db, r.ID, models.RoleStaff, "ana@example.com")

	if err := svc.checkArrivalWindow(r, u.ID, testNow); err != ErrNoSchedule {
		t.Fatalf("no shift: err = %v, want ErrNoSchedule", err)
	}

	// A draft shift does not count.
	db.Create(&models.StaffSchedule{
		RestaurantID: r.ID, UserID: u.ID,
		Date: "2024-05-15", StartTime: "10:00", EndTime: "18:00",
	})
	if err := svc.checkArrivalWindow(r, u.ID, testNow); err != ErrNoSchedule {
		t.Fatalf("draft shift: err = %v, want ErrNoSchedule", err)
	}
}

func TestArrivalWindowUsesRestaurantZone(t *testing.T) {
	svc, db := testService(t)
	r := seedRestaurant(t, db, models.AttendanceDeviceOrQR)
	r.Timezone = "Asia/Dubai" // UTC+4
	db.Save(r)
	u := seedUser(t, db, r.ID, models.RoleStaff, "ana@example.com")

	// 2024-05-15 22:30 UTC is already 2024-05-16 02:30 in Dubai.
	seedShift(t, db, r.ID, u.ID, "2024-05-16", "02:00", "10:00")
	at := time.Date(2024, 5, 15, 22, 30, 0, 0, time.UTC)
	if err := svc.checkArrivalWindow(r, u.ID, at); err != nil {
		t.Fatalf("local-date lookup: %v", err)
	}
}

func TestDisabledModeSkipsAllPolicy(t *testing.T) {
	svc, db := testService(t)
	r := seedRestaurant(t, db, models.AttendanceDisabled)
	u := seedUser(t, db, r.ID, models.RoleStaff, "ana@example.com")
	d := seedDevice(t, db, r.ID, "T-1")

	// No shift seeded and no mode gate: the clock still lands.
	res, err := svc.RecordClock(deviceClock(r, u, d, testNow, "e-1"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Type != models.EventClockIn {
		t.Fatalf("type = %q", res.Type)
	}
}

func TestModeGate(t *testing.T) {
	cases := []struct {
		mode models.AttendanceMode
		ch   Channel
		want error
	}{
		{models.AttendanceDeviceOnly, ChannelDevice, nil},
		{models.AttendanceDeviceOnly, ChannelQR, ErrModeNotAllowed},
		{models.AttendanceQROnly, ChannelQR, nil},
		{models.AttendanceQROnly, ChannelDevice, ErrModeNotAllowed},
		{models.AttendanceDeviceOrQR, ChannelDevice, nil},
		{models.AttendanceDeviceOrQR, ChannelQR, nil},
		{models.AttendanceDisabled, ChannelDevice, nil},
		{models.AttendanceMode(""), ChannelQR, nil},
	}
	for _, tc := range cases {
		r := &models.Restaurant{AttendanceMode: tc.mode}
		if got := checkMode(r, tc.ch); got != tc.want {
			t.Errorf("mode %q channel %q: err = %v, want %v", tc.mode, tc.ch, got, tc.want)
		}
	}
}

func TestClockOutSkipsWindowCheck(t *testing.T) {
	svc, db := testService(t)
	r := seedRestaurant(t, db, models.AttendanceDeviceOrQR)
	u := seedUser(t, db, r.ID, models.RoleStaff, "ana@example.com")
	d := seedDevice(t, db, r.ID, "T-1")
	seedShift(t, db, r.ID, u.ID, "2024-05-15", "10:00", "18:00")

	in := time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)
	if _, err := svc.RecordClock(deviceClock(r, u, d, in, "e-1")); err != nil {
		t.Fatal(err)
	}

	// 19:00 is far outside the arrival window but closes the session fine.
	out := time.Date(2024, 5, 15, 19, 0, 0, 0, time.UTC)
	res, err := svc.RecordClock(deviceClock(r, u, d, out, "e-2"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Type != models.EventClockOut {
		t.Fatalf("type = %q, want clock_out", res.Type)
	}
	if res.Session.HoursWorked != 9.0 {
		t.Fatalf("hours = %v, want 9.0", res.Session.HoursWorked)
	}
}

func TestDefaultTolerances(t *testing.T) {
	r := &models.Restaurant{}
	if r.EarlyTolerance() != models.DefaultEarlyToleranceMin {
		t.Fatalf("early = %d", r.EarlyTolerance())
	}
	if r.LateTolerance() != models.DefaultLateToleranceMin {
		t.Fatalf("late = %d", r.LateTolerance())
	}
	r.EarlyToleranceMin = 10
	r.LateToleranceMin = 15
	if r.EarlyTolerance() != 10 || r.LateTolerance() != 15 {
		t.Fatalf("tolerances = %d/%d", r.EarlyTolerance(), r.LateTolerance())
	}
}
