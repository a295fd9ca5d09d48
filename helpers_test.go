package hookfsm

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

// Test states
const (
	stDefault StateID = "DEFAULT"
	stRunning StateID = "RUNNING"
	stStopped StateID = "STOPPED"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func testDefinition() *Definition {
	return NewDefinition().
		State(stDefault, stRunning, stStopped).
		NamedTransition("run", stDefault, stRunning).
		Transition(stDefault, stStopped).
		Transition(stRunning, stDefault).
		Transition(stRunning, stStopped)
}

func newTestMachine(t *testing.T, opts ...MachineOption) *Machine {
	t.Helper()

	table, err := testDefinition().Compile()
	require.NoError(t, err)

	m, err := New(table, append([]MachineOption{WithLogger(discardLogger)}, opts...)...)
	require.NoError(t, err)
	return m
}

type transitionRecord struct {
	from StateID
	to   StateID
}

type recordingObserver struct {
	completed []transitionRecord
	rejected  []transitionRecord
	cancelled []transitionRecord
	failures  []string
}

func (r *recordingObserver) TransitionCompleted(from, to StateID) {
	r.completed = append(r.completed, transitionRecord{from, to})
}

func (r *recordingObserver) TransitionRejected(from, to StateID) {
	r.rejected = append(r.rejected, transitionRecord{from, to})
}

func (r *recordingObserver) TransitionCancelled(from, to StateID) {
	r.cancelled = append(r.cancelled, transitionRecord{from, to})
}

func (r *recordingObserver) ListenerFailed(kind string, state StateID, err error) {
	r.failures = append(r.failures, kind+" "+string(state))
}
