package readiness

import (
	"log/slog"
	"time"

	"github.com/drblury/readyweaver/probe"
)

// Classifier reports whether a failed attempt should be retried.
type Classifier func(err error) bool

// AttemptHook observes every failed attempt before the run decides whether to retry.
type AttemptHook func(attempt int, err error)

// Option follows the functional options pattern used by Poll and New.
type Option func(*settings)

type settings struct {
	logger         *slog.Logger
	target         string
	classifier     Classifier
	retryOnStatus  bool
	attemptTimeout time.Duration
	hooks          []AttemptHook
	client         probe.HTTPDoer
	httpOptions    []probe.HTTPProbeOption
}

func buildSettings(opts ...Option) *settings {
	s := &settings{logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.classifier == nil {
		s.classifier = DefaultClassifier(s.retryOnStatus)
	}
	return s
}

// WithLogger injects the slog logger used for attempt and transition records.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClassifier replaces the default retry classification.
func WithClassifier(classifier Classifier) Option {
	return func(s *settings) {
		s.classifier = classifier
	}
}

// WithRetryOnStatus makes unexpected HTTP statuses retryable. By default they
// end the run. Ignored when WithClassifier is also supplied.
func WithRetryOnStatus(enabled bool) Option {
	return func(s *settings) {
		s.retryOnStatus = enabled
	}
}

// WithAttemptTimeout bounds every individual attempt.
func WithAttemptTimeout(timeout time.Duration) Option {
	return func(s *settings) {
		if timeout > 0 {
			s.attemptTimeout = timeout
		}
	}
}

// WithAttemptHook registers a hook that runs after every failed attempt.
func WithAttemptHook(hook AttemptHook) Option {
	return func(s *settings) {
		if hook != nil {
			s.hooks = append(s.hooks, hook)
		}
	}
}

// WithHTTPClient overrides the client used by Probe.
func WithHTTPClient(client probe.HTTPDoer) Option {
	return func(s *settings) {
		s.client = client
	}
}

// WithHTTPOptions forwards request mutators, status expectations, and
// response validators to every attempt made by Probe.
func WithHTTPOptions(opts ...probe.HTTPProbeOption) Option {
	return func(s *settings) {
		s.httpOptions = append(s.httpOptions, opts...)
	}
}
