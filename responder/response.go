package responder

import (
	"net/http"

	"github.com/drblury/readyweaver/jsonutil"
)

// WriteProblem renders err as a problem document with the given status and
// logs it. The trace ID is returned in the X-Trace-Id header as well. A nil
// err writes nothing.
func (r *Responder) WriteProblem(w http.ResponseWriter, req *http.Request, status int, err error, logMsg ...string) {
	if err == nil {
		return
	}

	p, level := r.newProblem(req, status, err)
	r.logProblem(req, p, level, logMsg)
	if w == nil {
		return
	}
	w.Header().Set(traceIDHeader, p.TraceID)
	r.write(w, status, p, problemContentType)
}

// WriteInternalError reports err with HTTP 500.
func (r *Responder) WriteInternalError(w http.ResponseWriter, req *http.Request, err error, logMsg ...string) {
	r.WriteProblem(w, req, http.StatusInternalServerError, err, logMsg...)
}

// WriteNotFound reports an unknown function or route with HTTP 404.
func (r *Responder) WriteNotFound(w http.ResponseWriter, req *http.Request, err error, logMsg ...string) {
	r.WriteProblem(w, req, http.StatusNotFound, err, logMsg...)
}

// WriteJSON encodes v with the given status.
func (r *Responder) WriteJSON(w http.ResponseWriter, status int, v any) {
	r.write(w, status, v, jsonContentType)
}

func (r *Responder) write(w http.ResponseWriter, status int, payload any, contentType string) {
	if w == nil {
		return
	}

	body, err := jsonutil.Marshal(payload)
	if err != nil {
		r.Logger().Error("failed to encode response", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	body = append(body, '\n')

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		r.Logger().Error("failed to write response", "error", err)
	}
}
