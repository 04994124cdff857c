package info

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func failing(name string, err error) Check {
	return Check{Name: name, Probe: func(context.Context) error { return err }}
}

// serve mounts handler on a fresh mux and performs one request against it.
func serve(handler *InfoHandler, method, path string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	handler.Register(mux)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(method, path, nil))
	return rr
}

func TestRoutes(t *testing.T) {
	openapiDoc := []byte(`{"openapi":"3.0.3"}`)

	cases := []struct {
		name        string
		handler     *InfoHandler
		method      string
		path        string
		wantCode    int
		wantType    string
		wantBody    string
		wantProblem string
	}{
		{
			name:     "status is static",
			handler:  NewInfoHandler(WithReadinessChecks(failing("functions", errors.New("down")))),
			path:     "/status",
			wantCode: http.StatusOK,
			wantType: "application/json",
			wantBody: `{"status":"HEALTHY"}`,
		},
		{
			name:     "healthz without checks",
			handler:  NewInfoHandler(),
			path:     "/healthz",
			wantCode: http.StatusOK,
			wantBody: `{"status":"ok"}`,
		},
		{
			name:     "healthz lists passed checks",
			handler:  NewInfoHandler(WithLivenessChecks(ok("process"))),
			path:     "/healthz",
			wantCode: http.StatusOK,
			wantBody: `{"status":"ok","checks":["process"]}`,
		},
		{
			name:        "healthz failure",
			handler:     NewInfoHandler(WithLivenessChecks(failing("db", errors.New("db down")))),
			path:        "/healthz",
			wantCode:    http.StatusServiceUnavailable,
			wantType:    "application/problem+json",
			wantProblem: "db down",
		},
		{
			name:     "readyz",
			handler:  NewInfoHandler(WithReadinessChecks(ok("functions"))),
			path:     "/readyz",
			wantCode: http.StatusOK,
			wantBody: `{"status":"ready","checks":["functions"]}`,
		},
		{
			name:        "readyz failure names the check",
			handler:     NewInfoHandler(WithReadinessChecks(failing("functions", errors.New("no functions registered")))),
			path:        "/readyz",
			wantCode:    http.StatusServiceUnavailable,
			wantProblem: "check functions failed: no functions registered",
		},
		{
			name: "version",
			handler: NewInfoHandler(WithInfoProvider(func() any {
				return map[string]string{"version": "1.2.3"}
			})),
			path:     "/version",
			wantCode: http.StatusOK,
			wantBody: `{"version":"1.2.3"}`,
		},
		{
			name:     "version with nil payload",
			handler:  NewInfoHandler(WithInfoProvider(func() any { return nil })),
			path:     "/version",
			wantCode: http.StatusOK,
			wantBody: `{}`,
		},
		{
			name: "openapi document is streamed as is",
			handler: NewInfoHandler(WithOpenAPIProvider(func() ([]byte, error) {
				return openapiDoc, nil
			})),
			path:     "/openapi.json",
			wantCode: http.StatusOK,
			wantType: "application/json",
			wantBody: string(openapiDoc),
		},
		{
			name:        "openapi document not configured",
			handler:     NewInfoHandler(),
			path:        "/openapi.json",
			wantCode:    http.StatusInternalServerError,
			wantProblem: "not configured",
		},
		{
			name:     "probes only answer GET",
			handler:  NewInfoHandler(),
			method:   http.MethodPost,
			path:     "/readyz",
			wantCode: http.StatusMethodNotAllowed,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			method := tc.method
			if method == "" {
				method = http.MethodGet
			}
			rr := serve(tc.handler, method, tc.path)

			if rr.Code != tc.wantCode {
				t.Fatalf("expected status %d, got %d (body %s)", tc.wantCode, rr.Code, rr.Body.String())
			}
			if tc.wantType != "" && rr.Header().Get("Content-Type") != tc.wantType {
				t.Fatalf("expected Content-Type %s, got %s", tc.wantType, rr.Header().Get("Content-Type"))
			}
			if tc.wantBody != "" && strings.TrimSpace(rr.Body.String()) != tc.wantBody {
				t.Fatalf("expected body %s, got %s", tc.wantBody, rr.Body.String())
			}
			if tc.wantProblem != "" {
				problem := decodeProblemDetails(t, rr.Body.Bytes())
				if problem.Status != tc.wantCode {
					t.Fatalf("expected problem status %d, got %d", tc.wantCode, problem.Status)
				}
				if !strings.Contains(problem.Detail, tc.wantProblem) {
					t.Fatalf("expected detail to contain %q, got %q", tc.wantProblem, problem.Detail)
				}
			}
		})
	}
}
