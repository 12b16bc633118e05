package booking

import (
	"errors"
	"fmt"
)

// Error codes surfaced to callers of the booking service.
const (
	CodeInvalidFormat     = "invalidFormat"
	CodeNotFound          = "notFound"
	CodeSlotUnavailable   = "slotUnavailable"
	CodeInconsistentState = "inconsistentState"
)

// Error is a booking-domain error carrying a machine-readable code so the
// HTTP layer can distinguish failure causes.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewInvalidFormatError(msg string) error {
	return &Error{Code: CodeInvalidFormat, Message: msg}
}

func NewNotFoundError(msg string) error {
	return &Error{Code: CodeNotFound, Message: msg}
}

func NewSlotUnavailableError(msg string) error {
	return &Error{Code: CodeSlotUnavailable, Message: msg}
}

func NewInconsistentStateError(msg string) error {
	return &Error{Code: CodeInconsistentState, Message: msg}
}

// ErrorCode extracts the domain code from err, or "" for foreign errors.
func ErrorCode(err error) string {
	var be *Error
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}
