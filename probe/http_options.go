package probe

import (
	"io"
	"net/http"
	"slices"
)

const (
	// DefaultMaxBodyBytes bounds the body Fetch keeps for comparison.
	DefaultMaxBodyBytes = 1 << 20

	userAgent = "readyweaver-probe"
)

// HTTPStatusExpectation reports whether a status code counts as ready.
type HTTPStatusExpectation func(status int) bool

// HTTPRequestMutator adjusts the outbound request, for example to add headers.
type HTTPRequestMutator func(req *http.Request) error

// HTTPResponseValidator inspects a response whose status was accepted and can
// still reject it.
type HTTPResponseValidator func(resp *http.Response) error

// HTTPProbeOption configures NewHTTPProbe and Fetch.
type HTTPProbeOption func(*httpConfig)

type httpConfig struct {
	client       HTTPDoer
	expect       HTTPStatusExpectation
	mutators     []HTTPRequestMutator
	validators   []HTTPResponseValidator
	maxBodyBytes int64
	drain        bool
}

func newHTTPConfig(client HTTPDoer, opts ...HTTPProbeOption) *httpConfig {
	cfg := &httpConfig{
		client:       client,
		expect:       defaultHTTPStatusExpectation,
		maxBodyBytes: DefaultMaxBodyBytes,
		drain:        true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.client == nil {
		cfg.client = http.DefaultClient
	}
	if cfg.expect == nil {
		cfg.expect = defaultHTTPStatusExpectation
	}
	return cfg
}

// prepare sets the probe user agent and runs the mutators in order.
func (c *httpConfig) prepare(req *http.Request) error {
	req.Header.Set("User-Agent", userAgent)
	for _, mutate := range c.mutators {
		if mutate == nil {
			continue
		}
		if err := mutate(req); err != nil {
			return err
		}
	}
	return nil
}

// check turns an unexpected status into a *StatusError carrying the start of
// the body, then runs the validators.
func (c *httpConfig) check(target string, resp *http.Response) error {
	if !c.expect(resp.StatusCode) {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxStatusBodyBytes))
		return &StatusError{Target: target, StatusCode: resp.StatusCode, Body: string(snippet)}
	}
	for _, validate := range c.validators {
		if validate == nil {
			continue
		}
		if err := validate(resp); err != nil {
			return err
		}
	}
	return nil
}

// WithHTTPStatusExpectation replaces the default 2xx check.
func WithHTTPStatusExpectation(expect HTTPStatusExpectation) HTTPProbeOption {
	return func(cfg *httpConfig) {
		cfg.expect = expect
	}
}

// WithHTTPAllowedStatuses accepts exactly the listed status codes. With no
// codes the default 2xx check applies.
func WithHTTPAllowedStatuses(statuses ...int) HTTPProbeOption {
	allowed := slices.Clone(statuses)
	return func(cfg *httpConfig) {
		if len(allowed) == 0 {
			cfg.expect = defaultHTTPStatusExpectation
			return
		}
		cfg.expect = func(status int) bool {
			return slices.Contains(allowed, status)
		}
	}
}

// WithHTTPRequestMutator registers a mutator that runs before the request is sent.
func WithHTTPRequestMutator(mutator HTTPRequestMutator) HTTPProbeOption {
	return func(cfg *httpConfig) {
		cfg.mutators = append(cfg.mutators, mutator)
	}
}

// WithHTTPHeader sets a request header on every attempt.
func WithHTTPHeader(key, value string) HTTPProbeOption {
	return WithHTTPRequestMutator(func(req *http.Request) error {
		req.Header.Set(key, value)
		return nil
	})
}

// WithHTTPResponseValidator registers a validator that runs after the status check.
func WithHTTPResponseValidator(validator HTTPResponseValidator) HTTPProbeOption {
	return func(cfg *httpConfig) {
		cfg.validators = append(cfg.validators, validator)
	}
}

// WithHTTPMaxBodyBytes bounds the body Fetch reads. A larger body fails the
// attempt without retry. Non-positive values keep DefaultMaxBodyBytes.
func WithHTTPMaxBodyBytes(limit int64) HTTPProbeOption {
	return func(cfg *httpConfig) {
		if limit > 0 {
			cfg.maxBodyBytes = limit
		}
	}
}

// WithHTTPDrainResponseBody toggles draining the body in NewHTTPProbe so the
// connection can be reused. Fetch always reads the body.
func WithHTTPDrainResponseBody(enabled bool) HTTPProbeOption {
	return func(cfg *httpConfig) {
		cfg.drain = enabled
	}
}
