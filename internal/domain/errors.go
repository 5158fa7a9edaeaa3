package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrExamNotFound indicates the referenced exam id does not exist.
	ErrExamNotFound = errors.New("exam not found")
	// ErrResultNotFound indicates the referenced result id does not exist.
	ErrResultNotFound = errors.New("result not found")
	// ErrAttemptNotFound indicates the referenced attempt has not been started.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrAttemptSubmitted is returned when mutating an attempt that already reached its terminal state.
	ErrAttemptSubmitted = errors.New("attempt already submitted")
)

// ValidationError reports a malformed exam or result payload. It is surfaced
// to callers as a rejected request, distinct from not-found conditions.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Invalid builds a ValidationError for a field.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is one of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrExamNotFound) ||
		errors.Is(err, ErrResultNotFound) ||
		errors.Is(err, ErrAttemptNotFound)
}
