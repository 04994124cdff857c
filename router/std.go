package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	oapiMW "github.com/oapi-codegen/nethttp-middleware"

	"github.com/drblury/readyweaver/responder"
)

// New wraps handler with the configured middleware chain. Middlewares run in
// the order: custom, logging, OpenAPI validation, timeout.
func New(handler http.Handler, opts ...Option) http.Handler {
	if handler == nil {
		panic("router: handler cannot be nil")
	}

	return applyMiddlewares(handler, newChain(opts...).middlewares())
}

func applyMiddlewares(handler http.Handler, middlewares []Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		if middlewares[i] != nil {
			handler = middlewares[i](handler)
		}
	}
	return handler
}

func oapiMiddleware(doc *openapi3.T, logger *slog.Logger) Middleware {
	// The host is reachable under whatever address it was started on, so
	// server entries must not take part in route matching.
	unbound := *doc
	unbound.Servers = nil
	problems := responder.NewResponder(responder.WithLogger(logger))

	validatorOptions := &oapiMW.Options{
		Options: openapi3filter.Options{
			AuthenticationFunc: func(context.Context, *openapi3filter.AuthenticationInput) error {
				return nil
			},
		},
		ErrorHandler: func(w http.ResponseWriter, message string, statusCode int) {
			problems.WriteProblem(w, nil, statusCode, errors.New(message), "request rejected by openapi validation")
		},
		SilenceServersWarning: true,
	}

	return oapiMW.OapiRequestValidatorWithOptions(&unbound, validatorOptions)
}

// timeoutMiddleware answers 503 when a function takes longer than timeout.
func timeoutMiddleware(timeout time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, "function timed out")
	}
}

// recorder captures what the function wrote for the request log.
type recorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *recorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *recorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(p)
	r.bytes += n
	return n, err
}

// loggingMiddleware logs every request outside quiet at debug level with the
// hidden headers redacted.
func loggingMiddleware(logger *slog.Logger, quiet, hidden []string) Middleware {
	quiet = slices.Clone(quiet)
	hidden = slices.Clone(hidden)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(quiet, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := &recorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			headers := r.Header.Clone()
			redactHeaders(headers, hidden)
			logger.DebugContext(r.Context(), "request served",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"bytes", rec.bytes,
				"duration", time.Since(start),
				"headers", headers,
			)
		})
	}
}

// redactHeaders replaces each hidden header with its total value length.
func redactHeaders(headers http.Header, hidden []string) {
	for _, name := range hidden {
		key := http.CanonicalHeaderKey(name)
		values, ok := headers[key]
		if !ok {
			continue
		}
		size := 0
		for _, v := range values {
			size += len(v)
		}
		headers[key] = []string{fmt.Sprintf("[REDACTED - %d bytes]", size)}
	}
}
