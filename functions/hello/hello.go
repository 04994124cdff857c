// Package hello holds the helloHttp function served by the local function host.
package hello

import (
	"io"
	"net/http"
)

// Name is the path segment the function is mounted under.
const Name = "helloHttp"

// Greeting is the body every request receives.
const Greeting = "Hello world!"

// HelloHTTP answers any request with Greeting as plain text.
func HelloHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, Greeting)
}
