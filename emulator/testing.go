package emulator

import (
	"context"
	"testing"
)

// StartT starts c for the duration of a test. The process is stopped by
// tb.Cleanup even when the test fails.
func StartT(tb testing.TB, c Command, opts ...Option) *Process {
	tb.Helper()

	p, err := Start(context.Background(), c, opts...)
	if err != nil {
		tb.Fatalf("start emulator: %v", err)
	}
	tb.Cleanup(func() {
		if err := p.Stop(); err != nil {
			tb.Logf("stop emulator: %v", err)
		}
	})
	return p
}
