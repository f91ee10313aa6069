package vendors

import (
	"time"

	"github.com/Sannikov1993/PosResto-sub000/internal/models"
)

// anvizPayload handles Anviz CrossChex push records.
//
//	{"device_sn":"AVZ-9","user_id":7021,"checktime":"2024-05-01 09:02:11",
//	 "checktype":1,"verify_mode":8,"record_id":"55901"}
type anvizPayload struct{}

func (anvizPayload) normalize(body map[string]any, now time.Time, loc *time.Location) (*Signal, error) {
	serial := firstString(body, "device_sn", "sn", "serial")
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
		Timestamp:      parseTimestamp(body["checktime"], now, loc),
		Hint:           anvizHint(body),
		Method:         anvizMethod(body),
		Confidence:     confidenceField(body, "confidence", "score"),
		VendorEventID:  firstString(body, "record_id", "event_id"),
	}
	return sig, nil
}

// Anviz check types: 1 clock-in, 2 clock-out; everything else (door open,
// overtime markers) is left to the state machine.
func anvizHint(body map[string]any) Hint {
	n, ok := intField(body, "checktype", "check_type")
	if !ok {
		return HintUnknown
	}
	switch n {
	case 1:
		return HintClockIn
	case 2:
		return HintClockOut
	default:
		return HintUnknown
	}
}

// verify_mode is a bitmask: 1 fingerprint, 2 card, 8 face. Mixed-mode
// verifications report the strongest factor.
func anvizMethod(body map[string]any) models.VerifyMethod {
	n, ok := intField(body, "verify_mode", "backup_code")
	if !ok {
		return models.VerifyUnknown
	}
	switch {
	case n&8 != 0:
		return models.VerifyFace
	case n&1 != 0:
		return models.VerifyFingerprint
	case n&2 != 0:
		return models.VerifyCard
	default:
		return models.VerifyUnknown
	}
}
