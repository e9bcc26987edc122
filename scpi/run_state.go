package scpi

import "sync/atomic"

// RunState represents the lifecycle of one sequence execution.
//
// The state machine is Idle -> Running -> {Completed | Stopped | Failed}.
// Running is the only non-terminal state after start; terminal states are
// entered exactly once and are final.
type RunState uint32

const (
	// RunIdle indicates the run has been created but not started.
	RunIdle RunState = iota
	// RunRunning indicates the worker is executing the sequence.
	RunRunning
	// RunCompleted indicates all commands of all loops were executed.
	RunCompleted
	// RunStopped indicates a cooperative stop request was honored.
	RunStopped
	// RunFailed indicates a transport failure aborted the run.
	RunFailed
)

// String returns string representation of the run state.
func (s RunState) String() string {
	switch s {
	case RunIdle:
		return "idle"
	case RunRunning:
		return "running"
	case RunCompleted:
		return "completed"
	case RunStopped:
		return "stopped"
	case RunFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether the state is one of the final states.
func (s RunState) IsTerminal() bool {
	return s == RunCompleted || s == RunStopped || s == RunFailed
}

// IsRunning reports whether the run is still executing.
func (s RunState) IsRunning() bool { return s == RunRunning }

// AtomicRunState manages run state transitions atomically.
//
// Transitions use compare-and-swap so that each terminal state can be entered
// at most once, even when the worker and a controlling goroutine race.
type AtomicRunState struct {
	state atomic.Uint32
}

// Get returns the current run state.
func (st *AtomicRunState) Get() RunState {
	return RunState(st.state.Load())
}

// String returns string representation of the current run state.
func (st *AtomicRunState) String() string {
	return st.Get().String()
}

// IsTerminal reports whether the run has reached a final state.
func (st *AtomicRunState) IsTerminal() bool {
	return st.Get().IsTerminal()
}

// IsRunning reports whether the run is still executing.
func (st *AtomicRunState) IsRunning() bool {
	return st.Get().IsRunning()
}

// ToRunning transitions Idle -> Running. It returns false if the run has
// already been started.
func (st *AtomicRunState) ToRunning() bool {
	return st.state.CompareAndSwap(uint32(RunIdle), uint32(RunRunning))
}

// ToCompleted transitions Running -> Completed. It returns false if the run
// already reached a terminal state.
func (st *AtomicRunState) ToCompleted() bool {
	return st.state.CompareAndSwap(uint32(RunRunning), uint32(RunCompleted))
}

// ToStopped transitions Running -> Stopped. It returns false if the run
// already reached a terminal state.
func (st *AtomicRunState) ToStopped() bool {
	return st.state.CompareAndSwap(uint32(RunRunning), uint32(RunStopped))
}

// ToFailed transitions Running -> Failed. It returns false if the run
// already reached a terminal state.
func (st *AtomicRunState) ToFailed() bool {
	return st.state.CompareAndSwap(uint32(RunRunning), uint32(RunFailed))
}
