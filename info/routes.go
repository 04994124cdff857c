package info

import (
	"net/http"
)

// Register mounts the operational endpoints on mux.
func (ih *InfoHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /status", ih.GetStatus)
	mux.HandleFunc("GET /healthz", ih.GetHealthz)
	mux.HandleFunc("GET /readyz", ih.GetReadyz)
	mux.HandleFunc("GET /version", ih.GetVersion)
	mux.HandleFunc("GET /openapi.json", ih.GetOpenAPIJSON)
}

// GetStatus returns a static payload that proves the process is serving.
func (ih *InfoHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ih.respondProbe(w, r, http.StatusOK, "HEALTHY")
}

// GetHealthz runs the liveness checks.
func (ih *InfoHandler) GetHealthz(w http.ResponseWriter, r *http.Request) {
	passed, err := ih.runChecks(r.Context(), ih.livenessChecks)
	if err != nil {
		ih.WriteProblem(w, r, http.StatusServiceUnavailable, err, "liveness probe failed")
		return
	}
	ih.respondProbe(w, r, http.StatusOK, "ok", passed...)
}

// GetReadyz runs the readiness checks.
func (ih *InfoHandler) GetReadyz(w http.ResponseWriter, r *http.Request) {
	passed, err := ih.runChecks(r.Context(), ih.readinessChecks)
	if err != nil {
		ih.WriteProblem(w, r, http.StatusServiceUnavailable, err, "readiness probe failed")
		return
	}
	ih.respondProbe(w, r, http.StatusOK, "ready", passed...)
}

// GetVersion returns the structure provided by the configured InfoProvider.
func (ih *InfoHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	payload := ih.infoProvider()
	if payload == nil {
		payload = map[string]string{}
	}
	ih.WriteJSON(w, http.StatusOK, payload)
}

// GetOpenAPIJSON streams the OpenAPI document describing the mounted functions.
func (ih *InfoHandler) GetOpenAPIJSON(w http.ResponseWriter, r *http.Request) {
	doc, err := ih.openapiProvider()
	if err != nil {
		ih.WriteProblem(w, r, http.StatusInternalServerError, err, "failed to load openapi document")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err = w.Write(doc); err != nil {
		ih.Logger().Error("failed to write openapi document", "error", err)
	}
}
