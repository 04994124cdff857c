// Package responder renders JSON payloads and RFC 9457 problem documents for
// the function host, logging every error with a correlating trace ID.
package responder

import (
	"log/slog"
	"net/http"
)

const (
	jsonContentType    = "application/json"
	problemContentType = "application/problem+json"
	statusDocBaseURL   = "https://httpstatuses.io"
	traceIDHeader      = "X-Trace-Id"
)

// Option configures a Responder.
type Option func(*Responder)

// ProblemType describes how one status code is rendered and logged. Empty
// fields are derived from the status: the status text as title, a
// httpstatuses.io link as type, and a level of Error for 5xx and Warn below.
type ProblemType struct {
	Type  string
	Title string
	Level slog.Leveler
}

// Responder writes JSON and problem responses for HTTP handlers.
type Responder struct {
	log      *slog.Logger
	problems map[int]ProblemType
}

// NewResponder returns a Responder using slog.Default and the built-in
// problem types for unknown functions and unready hosts.
func NewResponder(opts ...Option) *Responder {
	r := &Responder{
		log: slog.Default(),
		problems: map[int]ProblemType{
			http.StatusNotFound:           {Title: "Function not found"},
			http.StatusServiceUnavailable: {Title: "Function host not ready"},
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// WithLogger injects a custom slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Responder) {
		if logger != nil {
			r.log = logger
		}
	}
}

// WithProblemType overrides the rendering of one status code.
func WithProblemType(status int, pt ProblemType) Option {
	return func(r *Responder) {
		r.problems[status] = pt
	}
}

// Logger returns the slog logger used by the responder.
func (r *Responder) Logger() *slog.Logger {
	if r == nil || r.log == nil {
		return slog.Default()
	}
	return r.log
}
