// Package info exposes the operational endpoints of the local function host:
// status, liveness, readiness, version, and the OpenAPI document describing
// the mounted functions.
//
// See ExampleInfoHandler_Register for a runnable wiring of the handler and checks.
package info
