package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Func represents a health check that returns an error when the resource is unavailable.
type Func func(ctx context.Context) error

// PingFunc represents a health check that returns an error when the resource is unavailable.
type PingFunc func(ctx context.Context) error

// HTTPDoer represents the subset of *http.Client required by the HTTP helpers.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewPingProbe wraps a PingFunc with standardised error handling suitable for health endpoints.
func NewPingProbe(name string, fn PingFunc) Func {
	return func(ctx context.Context) error {
		if fn == nil {
			return nilComponentError(name, "ping function")
		}
		ctx = contextOrBackground(ctx)

		if err := fn(ctx); err != nil {
			return fmt.Errorf("%s probe failed: %w", name, err)
		}
		return nil
	}
}

// MongoPinger captures the subset of the MongoDB client used for readiness checks.
type MongoPinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

// NewMongoPingProbe creates a Func that pings MongoDB using the provided client.
// If readPref is nil it defaults to readpref.Primary.
func NewMongoPingProbe(client MongoPinger, readPref *readpref.ReadPref) Func {
	return func(ctx context.Context) error {
		if client == nil {
			return errors.New("mongo probe: client is nil")
		}

		ctx = contextOrBackground(ctx)

		rp := readPref
		if rp == nil {
			rp = readpref.Primary()
		}

		if err := client.Ping(ctx, rp); err != nil {
			return fmt.Errorf("mongo probe failed: %w", err)
		}
		return nil
	}
}

// AsAttempt adapts a Func so it can be polled by the readiness package. Every
// failure is reported as a TransportError against target, which makes it
// retryable under the default classification.
func AsAttempt(target string, fn Func) func(ctx context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		if fn == nil {
			return "", nilComponentError(target, "probe function")
		}
		if err := fn(contextOrBackground(ctx)); err != nil {
			return "", &TransportError{Target: target, Err: err}
		}
		return "", nil
	}
}

// NewHTTPProbe creates a Func that performs an HTTP request against the supplied endpoint.
// The probe succeeds when the response status code is within the 2xx range.
func NewHTTPProbe(name, method, target string, client HTTPDoer, opts ...HTTPProbeOption) Func {
	return func(ctx context.Context) error {
		cfg := newHTTPConfig(client, opts...)
		_, err := exchange(contextOrBackground(ctx), name, method, target, cfg, false)
		return err
	}
}

// Fetch performs a single GET for req and returns the response body.
//
// A dial, read, or timeout failure yields a *TransportError; a status outside
// the configured expectation (2xx by default) yields a *StatusError. Both are
// wrapped, so callers should use errors.As. A body larger than the configured
// limit (DefaultMaxBodyBytes) is an error of neither kind.
func Fetch(ctx context.Context, req Request, client HTTPDoer, opts ...HTTPProbeOption) (string, error) {
	cfg := newHTTPConfig(client, opts...)
	return exchange(contextOrBackground(ctx), "http", http.MethodGet, req.URL, cfg, true)
}

func exchange(ctx context.Context, name, method, target string, cfg *httpConfig, keepBody bool) (string, error) {
	trimmedTarget := strings.TrimSpace(target)
	if trimmedTarget == "" {
		return "", fmt.Errorf("%s probe: target URL is required", name)
	}

	verb := strings.ToUpper(strings.TrimSpace(method))
	if verb == "" {
		verb = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, verb, trimmedTarget, nil)
	if err != nil {
		return "", fmt.Errorf("%s probe: failed to build request: %w", name, err)
	}

	if err := cfg.prepare(req); err != nil {
		return "", fmt.Errorf("%s probe: request mutation failed: %w", name, err)
	}

	resp, err := cfg.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s probe: %w", name, &TransportError{Target: trimmedTarget, Err: err})
	}
	defer resp.Body.Close()

	if err := cfg.check(trimmedTarget, resp); err != nil {
		return "", fmt.Errorf("%s probe: %w", name, err)
	}

	if keepBody {
		body, err := io.ReadAll(io.LimitReader(resp.Body, cfg.maxBodyBytes+1))
		if err != nil {
			return "", fmt.Errorf("%s probe: %w", name, &TransportError{Target: trimmedTarget, Err: err})
		}
		if int64(len(body)) > cfg.maxBodyBytes {
			return "", fmt.Errorf("%s probe: response body of %s exceeds %d bytes", name, trimmedTarget, cfg.maxBodyBytes)
		}
		return string(body), nil
	}

	if cfg.drain {
		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			return "", fmt.Errorf("%s probe: failed to drain response body: %w", name, err)
		}
	}
	return "", nil
}
