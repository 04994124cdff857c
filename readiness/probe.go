package readiness

import (
	"context"

	"github.com/drblury/readyweaver/probe"
)

// Probe polls an HTTP endpoint with GET until it answers.
type Probe struct {
	request probe.Request
	policy  Policy
	opts    []Option
}

// New builds a Probe for req. The request and policy are copied and never
// change afterwards.
func New(req probe.Request, policy Policy, opts ...Option) *Probe {
	cloned := make([]Option, len(opts))
	copy(cloned, opts)
	return &Probe{request: req, policy: policy, opts: cloned}
}

// Request returns the endpoint being polled.
func (p *Probe) Request() probe.Request {
	return p.request
}

// Policy returns the retry policy of the probe.
func (p *Probe) Policy() Policy {
	return p.policy
}

// Run polls the endpoint and returns the outcome.
func (p *Probe) Run(ctx context.Context) Result {
	s := buildSettings(p.opts...)
	attempt := func(ctx context.Context) (string, error) {
		return probe.Fetch(ctx, p.request, s.client, s.httpOptions...)
	}

	opts := append([]Option{withTarget(p.request.URL)}, p.opts...)
	return Poll(ctx, p.policy, attempt, opts...)
}

// Wait is Run for callers that only need the body or the error.
func (p *Probe) Wait(ctx context.Context) (string, error) {
	result := p.Run(ctx)
	return result.Body, result.Err
}

func withTarget(target string) Option {
	return func(s *settings) {
		s.target = target
	}
}
