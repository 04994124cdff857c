package readiness

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExponentialBackoff(t *testing.T) {
	backoff := ExponentialBackoff(100 * time.Millisecond)

	assert.Equal(t, 100*time.Millisecond, backoff(1))
	assert.Equal(t, 200*time.Millisecond, backoff(2))
	assert.Equal(t, 400*time.Millisecond, backoff(3))
	assert.Equal(t, 800*time.Millisecond, backoff(4))
	assert.Equal(t, 100*time.Millisecond, backoff(0), "attempt indexes below 1 clamp to the base")

	t.Run("non decreasing and saturating", func(t *testing.T) {
		prev := time.Duration(0)
		for attempt := 1; attempt <= 100; attempt++ {
			d := backoff(attempt)
			require.GreaterOrEqual(t, d, prev, "attempt %d", attempt)
			prev = d
		}
		assert.Equal(t, time.Duration(math.MaxInt64), backoff(100))
	})

	t.Run("non positive base never waits", func(t *testing.T) {
		assert.Zero(t, ExponentialBackoff(0)(3))
		assert.Zero(t, ExponentialBackoff(-time.Second)(3))
	})
}

func TestConstantBackoff(t *testing.T) {
	backoff := ConstantBackoff(50 * time.Millisecond)
	for attempt := 1; attempt < 5; attempt++ {
		assert.Equal(t, 50*time.Millisecond, backoff(attempt))
	}
}

func TestPolicyValidate(t *testing.T) {
	cases := []struct {
		name    string
		policy  Policy
		wantErr string
	}{
		{name: "default", policy: DefaultPolicy()},
		{name: "single attempt", policy: Policy{MaxAttempts: 1, Backoff: ConstantBackoff(0)}},
		{name: "zero attempts", policy: Policy{MaxAttempts: 0, Backoff: ConstantBackoff(0)}, wantErr: "at least 1"},
		{name: "nil backoff", policy: Policy{MaxAttempts: 3}, wantErr: "backoff is nil"},
		{name: "negative cap", policy: Policy{MaxAttempts: 3, Backoff: ConstantBackoff(0), MaxInterval: -1}, wantErr: "must not be negative"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.policy.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestNewPolicy(t *testing.T) {
	p, err := NewPolicy(5, ExponentialBackoff(time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, 5, p.MaxAttempts)

	_, err = NewPolicy(0, ExponentialBackoff(time.Millisecond))
	require.Error(t, err)
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, 10, p.MaxAttempts)
	assert.Equal(t, 100*time.Millisecond, p.Delay(1))
	assert.Equal(t, 200*time.Millisecond, p.Delay(2))
}

func TestPolicySchedule(t *testing.T) {
	p := Policy{MaxAttempts: 5, Backoff: ExponentialBackoff(100 * time.Millisecond)}
	assert.Equal(t, []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
	}, p.Schedule())

	capped := p.WithMaxInterval(300 * time.Millisecond)
	assert.Equal(t, []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		300 * time.Millisecond,
		300 * time.Millisecond,
	}, capped.Schedule())
	assert.Zero(t, p.MaxInterval, "WithMaxInterval must not modify the receiver")

	assert.Nil(t, Policy{MaxAttempts: 1, Backoff: ConstantBackoff(time.Second)}.Schedule())
}

func TestPolicyRetryBackoff(t *testing.T) {
	p := Policy{MaxAttempts: 4, Backoff: ExponentialBackoff(10 * time.Millisecond), MaxInterval: 25 * time.Millisecond}
	b := p.retryBackoff()

	var waits []time.Duration
	for {
		d, stop := b.Next()
		if stop {
			break
		}
		waits = append(waits, d)
	}

	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 25 * time.Millisecond}, waits)
}

func TestPolicyRetryBackoffZeroWaitUnderCap(t *testing.T) {
	p := Policy{MaxAttempts: 3, Backoff: ConstantBackoff(0), MaxInterval: 300 * time.Millisecond}
	b := p.retryBackoff()

	var waits []time.Duration
	for {
		d, stop := b.Next()
		if stop {
			break
		}
		waits = append(waits, d)
	}

	assert.Equal(t, p.Schedule(), waits)
	assert.Equal(t, []time.Duration{0, 0}, waits)
}
