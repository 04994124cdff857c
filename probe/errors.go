package probe

import (
	"fmt"
	"net/http"
)

// TransportError reports that the target could not be reached or the
// exchange broke off before a full response was read. Readiness polling
// treats it as retryable: the usual cause is a server that is not listening yet.
type TransportError struct {
	Target string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error for %s: %v", e.Target, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError reports a response whose status code failed the expectation.
type StatusError struct {
	Target     string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s from %s", e.StatusCode, http.StatusText(e.StatusCode), e.Target)
}
