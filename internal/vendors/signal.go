package vendors

import (
	"errors"
	"time"

	"github.com/Sannikov1993/PosResto-sub000/internal/models"
)

var (
	ErrUnknownVendor = errors.New("unknown vendor type")
	ErrMissingSerial = errors.New("payload carries no device serial")
	ErrMissingUserID = errors.New("payload carries no user identifier")
)

// Hint is the device's own claim about the event direction. It is advisory
// only; the session state machine decides the real event type.
type Hint string

const (
	HintClockIn  Hint = "clock_in"
	HintClockOut Hint = "clock_out"
	HintUnknown  Hint = "unknown"
)

// Kind separates ordinary clock signals from enrollment callbacks, which are
// routed to the device-user link resolver instead of the session pipeline.
type Kind string

const (
	KindClock      Kind = "clock"
	KindEnrollment Kind = "enrollment"
)

// Signal is the canonical form every vendor payload normalizes into.
type Signal struct {
	Kind           Kind
	DeviceSerial   string
	ExternalUserID string
	Timestamp      time.Time
	Hint           Hint
	Method         models.VerifyMethod
	Confidence     *int
	VendorEventID  string
	Raw            map[string]any

	// Enrollment sub-event fields, set when Kind == KindEnrollment.
	EnrollKind    string // "face" or "fingerprint"
	EnrollSuccess bool
	TemplateCount int
}
