package info

import (
	"errors"
	"time"

	"github.com/drblury/readyweaver/probe"
	"github.com/drblury/readyweaver/responder"
)

// InfoProvider returns the payload that will be exposed by the version endpoint.
type InfoProvider func() any

// OpenAPIProvider returns the raw OpenAPI document served at /openapi.json.
type OpenAPIProvider func() ([]byte, error)

// InfoOption follows the functional options pattern used by NewInfoHandler.
type InfoOption func(*InfoHandler)

const defaultProbeTimeout = 2 * time.Second

// Check is a named liveness or readiness check. The name is reported back in
// the probe payload so operators can see which dependency failed.
type Check struct {
	Name  string
	Probe probe.Func
}

// InfoHandler serves the operational endpoints of the function host.
type InfoHandler struct {
	*responder.Responder
	infoProvider    InfoProvider
	openapiProvider OpenAPIProvider
	probeTimeout    time.Duration
	livenessChecks  []Check
	readinessChecks []Check
}

// NewInfoHandler constructs an InfoHandler with an empty version payload, no
// OpenAPI document, and no checks.
func NewInfoHandler(opts ...InfoOption) *InfoHandler {
	ih := &InfoHandler{
		Responder: responder.NewResponder(),
		infoProvider: func() any {
			return map[string]string{}
		},
		openapiProvider: func() ([]byte, error) {
			return nil, errors.New("openapi provider not configured")
		},
		probeTimeout: defaultProbeTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(ih)
		}
	}
	return ih
}

// WithInfoResponder replaces the responder used to craft JSON responses.
func WithInfoResponder(responder *responder.Responder) InfoOption {
	return func(ih *InfoHandler) {
		if responder != nil {
			ih.Responder = responder
		}
	}
}

// WithInfoProvider swaps the default version payload.
func WithInfoProvider(provider InfoProvider) InfoOption {
	return func(ih *InfoHandler) {
		if provider != nil {
			ih.infoProvider = provider
		}
	}
}

// WithOpenAPIProvider sets the source of the OpenAPI document.
func WithOpenAPIProvider(provider OpenAPIProvider) InfoOption {
	return func(ih *InfoHandler) {
		if provider != nil {
			ih.openapiProvider = provider
		}
	}
}

// WithProbeTimeout adjusts the maximum duration allowed for one round of checks.
func WithProbeTimeout(timeout time.Duration) InfoOption {
	return func(ih *InfoHandler) {
		if timeout > 0 {
			ih.probeTimeout = timeout
		}
	}
}

// WithLivenessChecks replaces the liveness checks.
func WithLivenessChecks(checks ...Check) InfoOption {
	return func(ih *InfoHandler) {
		ih.livenessChecks = filterChecks(checks)
	}
}

// WithReadinessChecks replaces the readiness checks.
func WithReadinessChecks(checks ...Check) InfoOption {
	return func(ih *InfoHandler) {
		ih.readinessChecks = filterChecks(checks)
	}
}
