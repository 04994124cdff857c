// Package readyweaver starts a locally hosted HTTP function, waits for it to
// answer with bounded exponential backoff, checks what it serves, and always
// stops it again. The root package only carries this overview; the work is
// done by the subpackages.
//
// The readiness package runs the retry loop. It polls any attempt function
// under a Policy (attempt budget plus backoff) and reports a Result that is
// either Succeeded, with the first body received, or Exhausted, with the last
// error. Transport failures are retried; unexpected statuses and body
// mismatches are not, unless configured otherwise.
//
// # Packages
//
//   - readiness: Poll, Probe, Policy, ExpectBody, and the run state machine.
//   - probe: single HTTP attempts plus ping and MongoDB checks, with typed
//     transport and status errors.
//   - emulator: spawns the function host and terminates it with SIGTERM, then
//     SIGKILL after a grace period.
//   - funcserver: the local function host, mounting functions next to health,
//     readiness, version, and OpenAPI endpoints.
//   - router, info, responder: the middleware chain, operational endpoints,
//     and RFC 9457 problem documents used by funcserver.
//   - config: the YAML configuration read by cmd/readyprobe.
//   - jsonutil, traceid: sonic JSON helpers and ULID identifiers.
//
// # Quick Start
//
//	err := emulator.Run(ctx, emulator.Command{Name: "hellofn", Args: []string{"--port", "8080"}},
//	    func(*emulator.Process) error {
//	        req, err := probe.NewRequest("http://localhost:8080", "/helloHttp")
//	        if err != nil {
//	            return err
//	        }
//	        body, err := readiness.New(req, readiness.DefaultPolicy()).Wait(ctx)
//	        if err != nil {
//	            return err
//	        }
//	        return readiness.ExpectBody(body, "Hello world!")
//	    })
//
// The process is stopped when the callback returns, whatever it returned.
package readyweaver
