package wage

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidClock is returned when a clock string is not H:mm or HH:mm,
	// or the hour/minute is out of range.
	ErrInvalidClock = errors.New("invalid clock time")

	// ErrInvalidDate is returned when a date string is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ClockError describes a rejected clock string.
type ClockError struct {
	Input  string
	Reason string
}

func (e *ClockError) Error() string {
	return fmt.Sprintf("invalid clock time %q: %s", e.Input, e.Reason)
}

func (e *ClockError) Unwrap() error { return ErrInvalidClock }

// DateError describes a rejected date string.
type DateError struct {
	Input string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("invalid date %q: want YYYY-MM-DD", e.Input)
}

func (e *DateError) Unwrap() error { return ErrInvalidDate }

// IsValidationError reports whether err came from rejecting caller input.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidClock) || errors.Is(err, ErrInvalidDate)
}
