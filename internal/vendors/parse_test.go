package vendors

import (
	"testing"
	"time"

	"github.com/Sannikov1993/PosResto-sub000/internal/models"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// The four vendor shapes carrying the same semantic content must normalize
// to the same canonical signal.
func TestParseMultiVendorEquivalence(t *testing.T) {
	want := time.Date(2024, 5, 1, 9, 2, 11, 0, time.UTC)

	cases := map[string]map[string]any{
		"anviz": {
			"device_sn": "T-100",
			"user_id":   float64(42),
			"checktime": "2024-05-01 09:02:11",
			"checktype": float64(1),
		},
		"zkteco": {
			"sn":    "T-100",
			"pin":   "42",
			"time":  "2024-05-01T09:02:11",
			"punch": float64(0),
		},
		"hikvision": {
			"dateTime": "2024-05-01T09:02:11Z",
			"AccessControllerEvent": map[string]any{
				"serialNo":         "T-100",
				"employeeNoString": "42",
				"attendanceStatus": "checkIn",
			},
		},
		"generic": {
			"serial_number": "T-100",
			"user_id":       "42",
			"timestamp":     "2024-05-01 09:02:11",
			"event":         "checkin",
		},
	}

	for vendor, body := range cases {
		sig, err := Parse(vendor, body, testNow, time.UTC)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", vendor, err)
		}
		if sig.DeviceSerial != "T-100" {
			t.Errorf("%s: serial = %q, want T-100", vendor, sig.DeviceSerial)
		}
		if sig.ExternalUserID != "42" {
			t.Errorf("%s: user id = %q, want 42", vendor, sig.ExternalUserID)
		}
		if !sig.Timestamp.Equal(want) {
			t.Errorf("%s: timestamp = %v, want %v", vendor, sig.Timestamp, want)
		}
		if sig.Hint != HintClockIn {
			t.Errorf("%s: hint = %q, want clock_in", vendor, sig.Hint)
		}
		if sig.Kind != KindClock {
			t.Errorf("%s: kind = %q, want clock", vendor, sig.Kind)
		}
	}
}

func TestParseUnknownVendor(t *testing.T) {
	if _, err := Parse("acme", map[string]any{}, testNow, time.UTC); err != ErrUnknownVendor {
		t.Fatalf("err = %v, want ErrUnknownVendor", err)
	}
}

func TestParseMissingFields(t *testing.T) {
	if _, err := Parse("generic", map[string]any{"user_id": "1"}, testNow, time.UTC); err != ErrMissingSerial {
		t.Fatalf("missing serial: err = %v", err)
	}
	if _, err := Parse("generic", map[string]any{"serial_number": "T-1"}, testNow, time.UTC); err != ErrMissingUserID {
		t.Fatalf("missing user: err = %v", err)
	}
}

// Serial extraction walks alternates in order; first non-empty wins.
func TestSerialAlternates(t *testing.T) {
	sig, err := Parse("generic", map[string]any{
		"serial_number": "",
		"sn":            "ALT-9",
		"user_id":       "7",
	}, testNow, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if sig.DeviceSerial != "ALT-9" {
		t.Fatalf("serial = %q, want ALT-9", sig.DeviceSerial)
	}
}

func TestEpochTimestamp(t *testing.T) {
	loc, _ := time.LoadLocation("Asia/Dubai")
	sig, err := Parse("generic", map[string]any{
		"serial_number": "T-1",
		"user_id":       "7",
		"timestamp":     float64(1714554131),
	}, testNow, loc)
	if err != nil {
		t.Fatal(err)
	}
	if got := sig.Timestamp.Unix(); got != 1714554131 {
		t.Fatalf("epoch = %d, want 1714554131", got)
	}
	if sig.Timestamp.Location() != loc {
		t.Fatalf("location = %v, want %v", sig.Timestamp.Location(), loc)
	}
}

func TestMissingTimestampDefaultsToNow(t *testing.T) {
	sig, err := Parse("generic", map[string]any{"serial_number": "T-1", "user_id": "7"}, testNow, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if !sig.Timestamp.Equal(testNow) {
		t.Fatalf("timestamp = %v, want now (%v)", sig.Timestamp, testNow)
	}
}

func TestNaiveTimestampUsesRestaurantZone(t *testing.T) {
	loc, _ := time.LoadLocation("Asia/Dubai")
	sig, err := Parse("anviz", map[string]any{
		"device_sn": "T-1",
		"user_id":   "7",
		"checktime": "2024-05-01 09:00:00",
	}, testNow, loc)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, 5, 1, 9, 0, 0, 0, loc)
	if !sig.Timestamp.Equal(want) {
		t.Fatalf("timestamp = %v, want %v", sig.Timestamp, want)
	}
}

func TestGenericHintSynonyms(t *testing.T) {
	cases := map[string]Hint{
		"in":        HintClockIn,
		"clock_in":  HintClockIn,
		"checkin":   HintClockIn,
		"0":         HintClockIn,
		"out":       HintClockOut,
		"clock_out": HintClockOut,
		"checkout":  HintClockOut,
		"pause":     HintUnknown,
		"":          HintUnknown,
	}
	for raw, want := range cases {
		sig, err := Parse("generic", map[string]any{
			"serial_number": "T-1", "user_id": "7", "event": raw,
		}, testNow, time.UTC)
		if err != nil {
			t.Fatalf("%q: %v", raw, err)
		}
		if sig.Hint != want {
			t.Errorf("event %q: hint = %q, want %q", raw, sig.Hint, want)
		}
	}
}

func TestAnvizVerifyModeBitmask(t *testing.T) {
	cases := map[float64]models.VerifyMethod{
		1: models.VerifyFingerprint,
		2: models.VerifyCard,
		8: models.VerifyFace,
		9: models.VerifyFace, // face wins over fingerprint
		0: models.VerifyUnknown,
	}
	for mode, want := range cases {
		sig, err := Parse("anviz", map[string]any{
			"device_sn": "T-1", "user_id": "7", "verify_mode": mode,
		}, testNow, time.UTC)
		if err != nil {
			t.Fatal(err)
		}
		if sig.Method != want {
			t.Errorf("verify_mode %v: method = %q, want %q", mode, sig.Method, want)
		}
	}
}

func TestZktecoEnrollmentOutcome(t *testing.T) {
	sig, err := Parse("zkteco", map[string]any{
		"sn":             "T-1",
		"pin":            "7",
		"event":          "enroll",
		"enroll_type":    "face",
		"result":         "ok",
		"template_count": float64(3),
	}, testNow, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if sig.Kind != KindEnrollment {
		t.Fatalf("kind = %q, want enrollment", sig.Kind)
	}
	if sig.EnrollKind != "face" || !sig.EnrollSuccess || sig.TemplateCount != 3 {
		t.Fatalf("enrollment = %q success=%v count=%d", sig.EnrollKind, sig.EnrollSuccess, sig.TemplateCount)
	}
}

func TestNumericUserIDNormalizedToString(t *testing.T) {
	sig, err := Parse("anviz", map[string]any{
		"device_sn": "T-1", "user_id": float64(7021),
	}, testNow, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if sig.ExternalUserID != "7021" {
		t.Fatalf("user id = %q, want \"7021\"", sig.ExternalUserID)
	}
}

func TestVendorEventIDCarried(t *testing.T) {
	sig, err := Parse("zkteco", map[string]any{
		"sn": "T-1", "pin": "7", "event_id": "778", "punch": float64(1),
	}, testNow, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if sig.VendorEventID != "778" {
		t.Fatalf("vendor event id = %q, want 778", sig.VendorEventID)
	}
	if sig.Hint != HintClockOut {
		t.Fatalf("hint = %q, want clock_out", sig.Hint)
	}
}
