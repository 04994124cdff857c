package readiness

import (
	"context"
	"errors"

	"github.com/drblury/readyweaver/probe"
)

// DefaultClassifier retries transport failures and, when retryOnStatus is set,
// unexpected HTTP statuses. Context cancellation is never retried.
func DefaultClassifier(retryOnStatus bool) Classifier {
	return func(err error) bool {
		if err == nil {
			return false
		}
		if errors.Is(err, context.Canceled) {
			return false
		}

		var transportErr *probe.TransportError
		if errors.As(err, &transportErr) {
			return true
		}

		var statusErr *probe.StatusError
		if errors.As(err, &statusErr) {
			return retryOnStatus
		}
		return false
	}
}
