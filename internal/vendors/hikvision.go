package vendors

import (
	"time"

	"github.com/Sannikov1993/PosResto-sub000/internal/models"
)

// hikvisionPayload handles ISAPI access-controller event notifications. The
// interesting fields live in a nested AccessControllerEvent object:
//
//	{"dateTime":"2024-05-01T09:02:11+04:00","AccessControllerEvent":{
//	  "serialNo":"HIK-3","employeeNoString":"42","attendanceStatus":"checkIn",
//	  "currentVerifyMode":"face","similarity":97,"eventId":"ac-19"}}
type hikvisionPayload struct{}

func (hikvisionPayload) normalize(body map[string]any, now time.Time, loc *time.Location) (*Signal, error) {
	serial := firstString(body,
		"AccessControllerEvent.serialNo", "serial_number", "sn", "deviceSerial")
	if serial == "" {
		return nil, ErrMissingSerial
	}
	userID := firstString(body,
		"AccessControllerEvent.employeeNoString", "AccessControllerEvent.employeeNo", "employee_id")
	if userID == "" {
		return nil, ErrMissingUserID
	}

	ac, _ := body["AccessControllerEvent"].(map[string]any)
	if ac == nil {
		ac = map[string]any{}
	}

	sig := &Signal{
		DeviceSerial:   serial,
		ExternalUserID: userID,
		Timestamp:      parseTimestamp(pick(body, "dateTime", "timestamp"), now, loc),
		Hint:           hikvisionHint(firstString(ac, "attendanceStatus")),
		Method:         hikvisionMethod(firstString(ac, "currentVerifyMode")),
		Confidence:     confidenceField(ac, "similarity"),
		VendorEventID:  firstString(ac, "eventId", "serialNoString"),
	}

	if firstString(ac, "majorEventType") == "enrollment" {
		sig.Kind = KindEnrollment
		sig.EnrollKind = enrollKind(firstString(ac, "enrollType"))
		sig.EnrollSuccess = firstString(ac, "statusValue") != "failed"
		if n, ok := intField(ac, "templateCount"); ok {
			sig.TemplateCount = n
		}
	}
	return sig, nil
}

func hikvisionHint(status string) Hint {
	switch status {
	case "checkIn", "breakIn":
		return HintClockIn
	case "checkOut", "breakOut":
		return HintClockOut
	default:
		return HintUnknown
	}
}

func hikvisionMethod(mode string) models.VerifyMethod {
	switch mode {
	case "face", "faceOrFpOrCardOrPw":
		return models.VerifyFace
	case "fp", "fingerPrint":
		return models.VerifyFingerprint
	case "card", "cardOrFace":
		return models.VerifyCard
	default:
		return models.VerifyUnknown
	}
}
