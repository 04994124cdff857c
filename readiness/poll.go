package readiness

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/drblury/readyweaver/traceid"
)

// AttemptFunc performs a single attempt and returns whatever the target served.
type AttemptFunc func(ctx context.Context) (string, error)

// Result is the outcome of one run. State is either StateSucceeded, with Body
// holding the first successfully received body, or StateExhausted, with Err
// holding an *ExhaustedError.
type Result struct {
	RunID    string
	State    State
	Body     string
	Attempts int
	Elapsed  time.Duration
	Err      error
}

// Succeeded reports whether the target answered within the budget.
func (r Result) Succeeded() bool {
	return r.State == StateSucceeded
}

// Poll runs attempt until it succeeds, fails with a non-retryable error, or
// policy.MaxAttempts attempts have been made. It blocks the calling goroutine
// for the backoff between attempts and returns early when ctx is done.
func Poll(ctx context.Context, policy Policy, attempt AttemptFunc, opts ...Option) Result {
	if ctx == nil {
		ctx = context.Background()
	}
	s := buildSettings(opts...)

	runID := traceid.New()
	logger := s.logger.With("runId", runID)
	if s.target != "" {
		logger = logger.With("target", s.target)
	}
	start := time.Now()

	if err := policy.Validate(); err != nil {
		return Result{RunID: runID, State: StateExhausted, Err: &ExhaustedError{MaxAttempts: policy.MaxAttempts, Fatal: true, LastErr: err}}
	}
	if attempt == nil {
		err := errors.New("readiness: attempt function is nil")
		return Result{RunID: runID, State: StateExhausted, Err: &ExhaustedError{MaxAttempts: policy.MaxAttempts, Fatal: true, LastErr: err}}
	}

	machine := newRunMachine(logger, runID)
	advance := func(t trigger) {
		if err := machine.fire(t); err != nil {
			logger.Error("readiness state machine rejected trigger", "trigger", t, "error", err)
		}
	}

	var (
		attempts int
		body     string
		lastErr  error
		fatal    bool
	)

	advance(triggerStart)
	err := retry.Do(ctx, policy.retryBackoff(), func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		attempts++
		if attempts > 1 {
			advance(triggerRetry)
		}

		got, err := s.run(ctx, attempt)
		if err == nil {
			body = got
			return nil
		}

		lastErr = err
		retryable := s.classifier(err)
		logger.Debug("readiness attempt failed",
			"attempt", attempts,
			"maxAttempts", policy.MaxAttempts,
			"retryable", retryable,
			"error", err,
		)
		for _, hook := range s.hooks {
			hook(attempts, err)
		}

		if !retryable {
			fatal = true
			return err
		}
		return retry.RetryableError(err)
	})

	result := Result{RunID: runID, Attempts: attempts, Elapsed: time.Since(start)}

	if err == nil {
		advance(triggerSucceed)
		result.State = machine.state()
		result.Body = body
		logger.Info("readiness target answered", "attempts", attempts, "elapsed", result.Elapsed)
		return result
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		fatal = attempts < policy.MaxAttempts
		switch {
		case lastErr == nil:
			lastErr = ctxErr
		case !errors.Is(lastErr, ctxErr):
			lastErr = errors.Join(ctxErr, lastErr)
		}
	}

	advance(triggerExhaust)
	result.State = machine.state()
	result.Err = &ExhaustedError{
		Attempts:    attempts,
		MaxAttempts: policy.MaxAttempts,
		Fatal:       fatal,
		LastErr:     lastErr,
	}
	logger.Warn("readiness target not ready",
		"attempts", attempts,
		"elapsed", result.Elapsed,
		"fatal", fatal,
		"error", lastErr,
	)
	return result
}

func (s *settings) run(ctx context.Context, attempt AttemptFunc) (string, error) {
	if s.attemptTimeout <= 0 {
		return attempt(ctx)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, s.attemptTimeout)
	defer cancel()
	return attempt(attemptCtx)
}

// LogValue implements slog.LogValuer.
func (r Result) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("runId", r.RunID),
		slog.String("state", string(r.State)),
		slog.Int("attempts", r.Attempts),
		slog.Duration("elapsed", r.Elapsed),
	}
	if r.Err != nil {
		attrs = append(attrs, slog.String("error", r.Err.Error()))
	}
	return slog.GroupValue(attrs...)
}
