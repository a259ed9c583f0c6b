package schedule

import (
	"errors"
	"fmt"
)

var (
	// ErrIncompleteCandidate is returned when a reviewed candidate is missing
	// its date or either clock time.
	ErrIncompleteCandidate = errors.New("candidate shift is incomplete")

	// ErrNoExtraction is returned when model output holds no JSON object.
	ErrNoExtraction = errors.New("no schedule object found in text")

	// ErrInvalidWorkplace is returned when a workplace fails validation.
	ErrInvalidWorkplace = errors.New("invalid workplace")

	// ErrInvalidMonth is returned when a month is not YYYY-MM.
	ErrInvalidMonth = errors.New("invalid month")
)

// FieldError names the field that failed validation.
type FieldError struct {
	Field  string
	Reason string
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Err, e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return e.Err }

// IsClientError reports whether err was caused by invalid input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrIncompleteCandidate) ||
		errors.Is(err, ErrNoExtraction) ||
		errors.Is(err, ErrInvalidWorkplace) ||
		errors.Is(err, ErrInvalidMonth)
}
