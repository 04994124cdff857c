// Package probe performs single readiness attempts against HTTP endpoints,
// MongoDB deployments, or arbitrary ping functions. Retrying lives one level
// up in the readiness package; see ExampleFetch and ExampleNewHTTPProbe.
package probe
