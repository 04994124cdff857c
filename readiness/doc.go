// Package readiness waits for a just-started service to become able to serve
// requests. A Policy bounds the number of attempts and the backoff between
// them; Poll drives any attempt function under that policy and Probe applies
// it to an HTTP GET.
//
// Transport failures (connection refused while the target is still booting)
// are retried. Anything else ends the run immediately unless a classifier
// says otherwise. See ExampleProbe_Wait for the common case.
package readiness
