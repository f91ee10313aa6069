package attendance

import (
	"errors"
	"net/http"
)

// Error is a machine-readable failure of the clock pipeline. Code travels in
// the JSON body, Status on the wire; the device or administrator is the
// retry authority, nothing is retried server-side.
type Error struct {
	Code    string
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Code }

var (
	ErrMissingAPIKey = &Error{"missing_api_key", http.StatusUnauthorized, "device api key is required"}
	ErrInvalidAPIKey = &Error{"invalid_api_key", http.StatusUnauthorized, "device api key is not recognized"}

	ErrUnknownType    = &Error{"unknown_type", http.StatusBadRequest, "unknown device vendor type"}
	ErrMissingSerial  = &Error{"missing_serial", http.StatusBadRequest, "payload carries no device serial number"}
	ErrMissingUserID  = &Error{"missing_user_id", http.StatusBadRequest, "payload carries no user identifier"}
	ErrDeviceNotFound = &Error{"device_not_found", http.StatusNotFound, "no device matches this serial number"}
	ErrUserNotFound   = &Error{"user_not_found", http.StatusBadRequest, "device user is not linked to any staff member"}
	ErrInvalidPayload = &Error{"invalid_payload", http.StatusBadRequest, "request body is not valid json"}

	ErrModeNotAllowed = &Error{"mode_not_allowed", http.StatusBadRequest, "attendance mode does not accept this channel"}
	ErrNoSchedule     = &Error{"no_schedule", http.StatusBadRequest, "no published shift for today"}
	ErrTooEarly       = &Error{"too_early", http.StatusBadRequest, "clock-in before the allowed arrival window"}
	ErrTooLate        = &Error{"too_late", http.StatusBadRequest, "clock-in after the allowed arrival window"}

	ErrInvalidQRCode = &Error{"invalid_qr_code", http.StatusBadRequest, "qr code is not valid or has expired"}

	ErrAlreadyActive   = &Error{"already_active", http.StatusConflict, "an active work session already exists"}
	ErrAlreadyClosed   = &Error{"already_closed", http.StatusConflict, "work session is already closed"}
	ErrSessionNotFound = &Error{"session_not_found", http.StatusNotFound, "work session not found"}
	ErrEventNotFound   = &Error{"event_not_found", http.StatusNotFound, "attendance event not found"}
	ErrEventProtected  = &Error{"event_protected", http.StatusBadRequest, "only manually entered events can be deleted"}
	ErrReasonRequired  = &Error{"reason_required", http.StatusBadRequest, "a correction reason is required"}
)

// AsError unwraps a pipeline error; ok is false for unexpected failures,
// which callers should surface as a 500.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
