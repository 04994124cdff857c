package router_test

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/drblury/readyweaver/router"
)

func Example_validation() {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData([]byte(`
openapi: 3.0.3
info: {title: functions, version: "1"}
paths:
  /helloHttp:
    get:
      responses:
        "200": {description: greeting}
`))
	if err != nil {
		fmt.Println("load:", err)
		return
	}

	functions := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "Hello world!")
	})
	handler := router.New(functions,
		router.WithDocument(doc),
		router.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	for _, path := range []string{"/helloHttp", "/goodbyeHttp"} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		fmt.Println(path, rr.Code)
	}

	// Output:
	// /helloHttp 200
	// /goodbyeHttp 404
}
