package vendors

import (
	"time"

	"github.com/Sannikov1993/PosResto-sub000/internal/models"
)

// zktecoPayload handles ZKTeco ADMS-style push records.
//
//	{"sn":"ZK-100","pin":"42","time":"2024-05-01T09:02:11","punch":0,
//	 "verify":15,"event_id":"778"}
//
// Enrollment callbacks arrive on the same endpoint with "event":"enroll".
type zktecoPayload struct{}

func (zktecoPayload) normalize(body map[string]any, now time.Time, loc *time.Location) (*Signal, error) {
	serial := firstString(body, "sn", "serial_number", "device_sn")
	if serial == "" {
		return nil, ErrMissingSerial
	}
	userID := firstString(body, "pin", "user_id")
	if userID == "" {
		return nil, ErrMissingUserID
	}

	sig := &Signal{
		DeviceSerial:   serial,
		ExternalUserID: userID,
		Timestamp:      parseTimestamp(pick(body, "time", "timestamp"), now, loc),
		Method:         zktecoMethod(body),
		Confidence:     confidenceField(body, "score"),
		VendorEventID:  firstString(body, "event_id", "uid"),
	}

	if firstString(body, "event") == "enroll" {
		sig.Kind = KindEnrollment
		sig.EnrollKind = enrollKind(firstString(body, "enroll_type"))
		sig.EnrollSuccess = firstString(body, "result", "status") != "failed"
		if n, ok := intField(body, "template_count", "fid"); ok {
			sig.TemplateCount = n
		}
		return sig, nil
	}

	// punch/status is binary: 0 in, 1 out.
	if n, ok := intField(body, "punch", "status"); ok {
		if n == 0 {
			sig.Hint = HintClockIn
		} else {
			sig.Hint = HintClockOut
		}
	}
	return sig, nil
}

func zktecoMethod(body map[string]any) models.VerifyMethod {
	n, ok := intField(body, "verify", "verify_type")
	if !ok {
		return models.VerifyUnknown
	}
	switch n {
	case 1:
		return models.VerifyFingerprint
	case 2, 4:
		return models.VerifyCard
	case 15:
		return models.VerifyFace
	default:
		return models.VerifyUnknown
	}
}

func pick(body map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := body[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func enrollKind(s string) string {
	if s == "fingerprint" || s == "finger" || s == "fp" {
		return "fingerprint"
	}
	return "face"
}
