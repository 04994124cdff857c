package router

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
)

// DefaultTimeout bounds a single function invocation.
const DefaultTimeout = 30 * time.Second

// Middleware wraps an http.Handler to produce a new http.Handler.
type Middleware func(http.Handler) http.Handler

// Option configures New.
type Option func(*chain)

// chain collects the middlewares New installs around the function mux.
type chain struct {
	logger  *slog.Logger
	doc     *openapi3.T
	extra   []Middleware
	timeout time.Duration
	quiet   []string
	hidden  []string

	validate    bool
	logRequests bool
}

func newChain(opts ...Option) *chain {
	c := &chain{
		logger:      slog.Default(),
		timeout:     DefaultTimeout,
		hidden:      []string{"Authorization", "Cookie"},
		validate:    true,
		logRequests: true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// middlewares returns the chain outermost first: extra, request log,
// OpenAPI validation, timeout.
func (c *chain) middlewares() []Middleware {
	out := slices.Clone(c.extra)
	if c.logRequests {
		out = append(out, loggingMiddleware(c.logger, c.quiet, c.hidden))
	}
	if c.validate && c.doc != nil {
		out = append(out, oapiMiddleware(c.doc, c.logger))
	}
	if c.timeout > 0 {
		out = append(out, timeoutMiddleware(c.timeout))
	}
	return out
}

// WithLogger sets the logger for request logs and validation problems.
func WithLogger(logger *slog.Logger) Option {
	return func(c *chain) {
		c.logger = logger
	}
}

// WithDocument enables request validation against doc.
func WithDocument(doc *openapi3.T) Option {
	return func(c *chain) {
		c.doc = doc
	}
}

// WithTimeout bounds every request. Zero disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *chain) {
		c.timeout = d
	}
}

// WithQuietRoutes lists paths that are served but never logged, typically
// health and readiness probes.
func WithQuietRoutes(paths ...string) Option {
	return func(c *chain) {
		c.quiet = append(c.quiet, paths...)
	}
}

// WithHiddenHeaders replaces the headers redacted in request logs.
func WithHiddenHeaders(names ...string) Option {
	return func(c *chain) {
		c.hidden = slices.Clone(names)
	}
}

// WithMiddlewares adds middlewares outside the default chain.
func WithMiddlewares(middlewares ...Middleware) Option {
	return func(c *chain) {
		c.extra = append(c.extra, middlewares...)
	}
}

// WithoutOpenAPIValidation keeps the document but skips request validation.
func WithoutOpenAPIValidation() Option {
	return func(c *chain) {
		c.validate = false
	}
}

// WithoutRequestLog disables the request logging middleware.
func WithoutRequestLog() Option {
	return func(c *chain) {
		c.logRequests = false
	}
}
