package info_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/drblury/readyweaver/info"
	"github.com/drblury/readyweaver/probe"
)

func ExampleInfoHandler_Register() {
	handler := info.NewInfoHandler(
		info.WithInfoProvider(func() any {
			return map[string]string{"version": "1.2.3"}
		}),
		info.WithReadinessChecks(info.Check{
			Name: "functions",
			Probe: probe.NewPingProbe("functions", func(ctx context.Context) error {
				return nil
			}),
		}),
	)

	mux := http.NewServeMux()
	handler.Register(mux)

	for _, path := range []string{"/readyz", "/version"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		fmt.Println(rec.Code, strings.TrimSpace(rec.Body.String()))
	}

	// Output:
	// 200 {"status":"ready","checks":["functions"]}
	// 200 {"version":"1.2.3"}
}
