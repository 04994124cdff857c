package readiness

import (
	"errors"
	"fmt"
)

var (
	// ErrExhausted is matched by every *ExhaustedError.
	ErrExhausted = errors.New("readiness: retry budget exhausted")
	// ErrBodyMismatch is matched by every *MismatchError.
	ErrBodyMismatch = errors.New("readiness: response body mismatch")
)

// ExhaustedError ends a run that never succeeded. Fatal is set when the run
// stopped early on a non-retryable error instead of consuming the budget.
type ExhaustedError struct {
	Attempts    int
	MaxAttempts int
	Fatal       bool
	LastErr     error
}

func (e *ExhaustedError) Error() string {
	if e.Fatal {
		return fmt.Sprintf("readiness: gave up after attempt %d/%d on non-retryable error: %v", e.Attempts, e.MaxAttempts, e.LastErr)
	}
	return fmt.Sprintf("readiness: target not ready after %d attempts: %v", e.Attempts, e.LastErr)
}

func (e *ExhaustedError) Unwrap() error {
	return e.LastErr
}

func (e *ExhaustedError) Is(target error) bool {
	return target == ErrExhausted
}

// MismatchError reports a body that differs from the expected literal.
type MismatchError struct {
	Want string
	Got  string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("readiness: expected body %q, got %q", e.Want, e.Got)
}

func (e *MismatchError) Is(target error) bool {
	return target == ErrBodyMismatch
}

// ExpectBody compares an observed body with the expected literal. A mismatch
// is final and never retried.
func ExpectBody(got, want string) error {
	if got != want {
		return &MismatchError{Want: want, Got: got}
	}
	return nil
}
