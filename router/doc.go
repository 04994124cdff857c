// Package router wraps the function host's handler with OpenAPI request
// validation, a per-request timeout, and request logging. Example_validation
// shows how undeclared routes are rejected.
package router
