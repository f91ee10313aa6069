package vendors

import (
	"strings"
	"time"

	"github.com/Sannikov1993/PosResto-sub000/internal/models"
)

// genericPayload is the house shape for terminals without a native
// integration: flat JSON, free-text event synonyms.
//
//	{"serial_number":"GEN-1","user_id":"42","timestamp":1714554131,
//	 "event":"checkin","method":"card","event_id":"e-91"}
type genericPayload struct{}

func (genericPayload) normalize(body map[string]any, now time.Time, loc *time.Location) (*Signal, error) {
	serial := firstString(body, "serial_number", "sn", "serial", "device_sn")
	if serial == "" {
		return nil, ErrMissingSerial
	}
	userID := firstString(body, "user_id", "employee_id", "pin")
	if userID == "" {
		return nil, ErrMissingUserID
	}

	sig := &Signal{
		DeviceSerial:   serial,
		ExternalUserID: userID,
		Timestamp:      parseTimestamp(pick(body, "timestamp", "time", "datetime"), now, loc),
		Hint:           genericHint(firstString(body, "event", "type", "direction")),
		Method:         genericMethod(firstString(body, "method", "verification", "verify_method")),
		Confidence:     confidenceField(body, "confidence", "score"),
		VendorEventID:  firstString(body, "event_id", "record_id"),
	}

	if firstString(body, "event") == "enrollment" || body["enrollment"] != nil {
		enroll, _ := body["enrollment"].(map[string]any)
		if enroll == nil {
			enroll = body
		}
		sig.Kind = KindEnrollment
		sig.EnrollKind = enrollKind(firstString(enroll, "kind", "enroll_type"))
		sig.EnrollSuccess = firstString(enroll, "result", "status") != "failed"
		if n, ok := intField(enroll, "template_count"); ok {
			sig.TemplateCount = n
		}
	}
	return sig, nil
}

func genericHint(s string) Hint {
	switch strings.ToLower(s) {
	case "in", "clock_in", "checkin", "check_in", "0":
		return HintClockIn
	case "out", "clock_out", "checkout", "check_out", "1":
		return HintClockOut
	default:
		return HintUnknown
	}
}

func genericMethod(s string) models.VerifyMethod {
	switch strings.ToLower(s) {
	case "face":
		return models.VerifyFace
	case "fingerprint", "finger", "fp":
		return models.VerifyFingerprint
	case "card", "rfid":
		return models.VerifyCard
	case "qr":
		return models.VerifyQR
	default:
		return models.VerifyUnknown
	}
}
