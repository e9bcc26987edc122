package scpi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunStateString(t *testing.T) {
	require := require.New(t)

	require.Equal("idle", RunIdle.String())
	require.Equal("running", RunRunning.String())
	require.Equal("completed", RunCompleted.String())
	require.Equal("stopped", RunStopped.String())
	require.Equal("failed", RunFailed.String())
	require.Equal("unknown", RunState(99).String())
}

func TestRunStateTerminal(t *testing.T) {
	require := require.New(t)

	require.False(RunIdle.IsTerminal())
	require.False(RunRunning.IsTerminal())
	require.True(RunCompleted.IsTerminal())
	require.True(RunStopped.IsTerminal())
	require.True(RunFailed.IsTerminal())

	require.True(RunRunning.IsRunning())
	require.False(RunCompleted.IsRunning())
}

func TestAtomicRunStateTransitions(t *testing.T) {
	require := require.New(t)

	t.Run("happy path", func(t *testing.T) {
		var st AtomicRunState
		require.Equal(RunIdle, st.Get())

		require.True(st.ToRunning())
		require.True(st.IsRunning())

		require.True(st.ToCompleted())
		require.True(st.IsTerminal())
		require.Equal(RunCompleted, st.Get())
	})

	t.Run("terminal states are entered exactly once", func(t *testing.T) {
		var st AtomicRunState
		require.True(st.ToRunning())

		require.True(st.ToStopped())
		// any further transition attempt must lose
		require.False(st.ToCompleted())
		require.False(st.ToFailed())
		require.False(st.ToStopped())
		require.Equal(RunStopped, st.Get())
	})

	t.Run("no terminal transition from idle", func(t *testing.T) {
		var st AtomicRunState
		require.False(st.ToCompleted())
		require.False(st.ToStopped())
		require.False(st.ToFailed())
		require.Equal(RunIdle, st.Get())
	})

	t.Run("start only once", func(t *testing.T) {
		var st AtomicRunState
		require.True(st.ToRunning())
		require.False(st.ToRunning())
	})

	t.Run("failed transition", func(t *testing.T) {
		var st AtomicRunState
		require.True(st.ToRunning())
		require.True(st.ToFailed())
		require.Equal(RunFailed, st.Get())
	})
}
