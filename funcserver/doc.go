// Package funcserver is a local host for HTTP functions. Each registered
// function is mounted at /<name> next to the status, health, readiness,
// version, and OpenAPI endpoints, and every request is validated against an
// OpenAPI document generated from the registrations.
package funcserver
