package readiness

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	// DefaultMaxAttempts is the retry budget used by DefaultPolicy.
	DefaultMaxAttempts = 10
	// DefaultInitialInterval is the first wait of DefaultPolicy's exponential backoff.
	DefaultInitialInterval = 100 * time.Millisecond
)

// BackoffFunc returns the wait that follows the failed attempt with the given
// 1-based index. Implementations must be non-negative and non-decreasing.
type BackoffFunc func(attempt int) time.Duration

// Policy bounds a polling run.
type Policy struct {
	// MaxAttempts is the retry budget. It must be at least 1.
	MaxAttempts int
	// Backoff computes the wait between attempts.
	Backoff BackoffFunc
	// MaxInterval caps every wait when positive.
	MaxInterval time.Duration
}

// DefaultPolicy allows ten attempts with exponential backoff starting at 100ms.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		Backoff:     ExponentialBackoff(DefaultInitialInterval),
	}
}

// NewPolicy builds and validates a Policy.
func NewPolicy(maxAttempts int, backoff BackoffFunc) (Policy, error) {
	p := Policy{MaxAttempts: maxAttempts, Backoff: backoff}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// WithMaxInterval returns a copy of p whose waits never exceed limit.
func (p Policy) WithMaxInterval(limit time.Duration) Policy {
	p.MaxInterval = limit
	return p
}

// Validate reports whether the policy can drive a run.
func (p Policy) Validate() error {
	if p.MaxAttempts < 1 {
		return fmt.Errorf("readiness policy: max attempts must be at least 1, got %d", p.MaxAttempts)
	}
	if p.Backoff == nil {
		return errors.New("readiness policy: backoff is nil")
	}
	if p.MaxInterval < 0 {
		return fmt.Errorf("readiness policy: max interval must not be negative, got %s", p.MaxInterval)
	}
	return nil
}

// Delay returns the wait that follows the given failed attempt, with the cap applied.
func (p Policy) Delay(attempt int) time.Duration {
	d := p.Backoff(attempt)
	if d < 0 {
		d = 0
	}
	if p.MaxInterval > 0 && d > p.MaxInterval {
		d = p.MaxInterval
	}
	return d
}

// Schedule lists every wait a run that never succeeds would sleep through.
func (p Policy) Schedule() []time.Duration {
	if p.MaxAttempts <= 1 || p.Backoff == nil {
		return nil
	}
	waits := make([]time.Duration, 0, p.MaxAttempts-1)
	for attempt := 1; attempt < p.MaxAttempts; attempt++ {
		waits = append(waits, p.Delay(attempt))
	}
	return waits
}

// retryBackoff adapts the policy to go-retry. The retry budget is
// MaxAttempts-1 because the first attempt is not a retry. The cap is applied
// by Delay: retry.WithCappedDuration would turn a zero wait into the cap.
func (p Policy) retryBackoff() retry.Backoff {
	attempt := 0
	b := retry.BackoffFunc(func() (time.Duration, bool) {
		attempt++
		return p.Delay(attempt), false
	})
	return retry.WithMaxRetries(uint64(p.MaxAttempts-1), b)
}

// ExponentialBackoff doubles the wait after every failed attempt, starting at
// base. The result saturates instead of overflowing.
func ExponentialBackoff(base time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		if base <= 0 {
			return 0
		}
		if attempt < 1 {
			attempt = 1
		}
		shift := attempt - 1
		if shift >= 62 || base > time.Duration(math.MaxInt64>>shift) {
			return time.Duration(math.MaxInt64)
		}
		return base << shift
	}
}

// ConstantBackoff always waits d.
func ConstantBackoff(d time.Duration) BackoffFunc {
	return func(int) time.Duration {
		return d
	}
}
