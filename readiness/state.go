package readiness

import (
	"context"
	"log/slog"

	"github.com/qmuntal/stateless"
)

// State is a phase of a polling run.
type State string

const (
	StateIdle       State = "idle"
	StateAttempting State = "attempting"
	StateSucceeded  State = "succeeded"
	StateExhausted  State = "exhausted"
)

type trigger string

const (
	triggerStart   trigger = "start"
	triggerRetry   trigger = "retry"
	triggerSucceed trigger = "succeed"
	triggerExhaust trigger = "exhaust"
)

// runMachine tracks one run. Succeeded and Exhausted permit no triggers, so
// firing anything after the run has ended is an error.
type runMachine struct {
	fsm     *stateless.StateMachine
	attempt int
}

func newRunMachine(logger *slog.Logger, runID string) *runMachine {
	m := &runMachine{fsm: stateless.NewStateMachine(StateIdle)}

	m.fsm.Configure(StateIdle).
		Permit(triggerStart, StateAttempting)

	m.fsm.Configure(StateAttempting).
		OnEntry(func(_ context.Context, _ ...any) error {
			m.attempt++
			return nil
		}).
		PermitReentry(triggerRetry).
		Permit(triggerSucceed, StateSucceeded).
		Permit(triggerExhaust, StateExhausted)

	m.fsm.Configure(StateSucceeded)
	m.fsm.Configure(StateExhausted)

	m.fsm.OnTransitioned(func(ctx context.Context, t stateless.Transition) {
		logger.DebugContext(ctx, "readiness transition",
			"runId", runID,
			"from", t.Source,
			"to", t.Destination,
			"trigger", t.Trigger,
			"attempt", m.attempt,
		)
	})

	return m
}

func (m *runMachine) fire(t trigger) error {
	return m.fsm.Fire(t)
}

func (m *runMachine) state() State {
	return m.fsm.MustState().(State)
}
