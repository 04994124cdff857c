package responder

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/drblury/readyweaver/traceid"
)

// ProblemDetails is an RFC 9457 problem document.
type ProblemDetails struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	Detail    string `json:"detail,omitempty"`
	Instance  string `json:"instance,omitempty"`
	TraceID   string `json:"traceId"`
	Timestamp string `json:"timestamp"`
}

// problemType fills the empty fields of the registered type for status.
func (r *Responder) problemType(status int) ProblemType {
	pt := r.problems[status]
	if pt.Title == "" {
		pt.Title = http.StatusText(status)
	}
	if pt.Type == "" {
		pt.Type = fmt.Sprintf("%s/%d", statusDocBaseURL, status)
	}
	if pt.Level == nil {
		pt.Level = slog.LevelWarn
		if status >= http.StatusInternalServerError {
			pt.Level = slog.LevelError
		}
	}
	return pt
}

func (r *Responder) newProblem(req *http.Request, status int, err error) (ProblemDetails, slog.Level) {
	pt := r.problemType(status)
	p := ProblemDetails{
		Type:      pt.Type,
		Title:     pt.Title,
		Status:    status,
		Detail:    err.Error(),
		TraceID:   traceid.New(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if req != nil && req.URL != nil {
		p.Instance = req.URL.RequestURI()
	}
	return p, pt.Level.Level()
}

func (r *Responder) logProblem(req *http.Request, p ProblemDetails, level slog.Level, msgs []string) {
	ctx := context.Background()
	attrs := []any{"status", p.Status, "traceId", p.TraceID, "error", p.Detail}
	if req != nil {
		ctx = req.Context()
		attrs = append(attrs, "method", req.Method, "path", p.Instance)
	}
	if len(msgs) > 0 {
		attrs = append(attrs, "logMessages", msgs)
	}
	r.Logger().Log(ctx, level, p.Title, attrs...)
}
