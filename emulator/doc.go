// Package emulator starts a local server process, streams its output into
// structured logs, and guarantees it is terminated again. Use Run or StartT
// to tie the process lifetime to a scope.
package emulator
