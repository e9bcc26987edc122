package scpisock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Martinxux/SCPI-Command-Sender/scpi"
)

// recordingHandler captures notifications for assertions. onStep, when set,
// fires after a step is recorded and receives the step count so far.
type recordingHandler struct {
	mu       sync.Mutex
	steps    []scpi.StepResult
	progress [][2]int
	terminal []scpi.RunState
	termErr  error
	onStep   func(stepCount int)
}

var _ scpi.Handler = (*recordingHandler)(nil)

func (h *recordingHandler) OnStep(result scpi.StepResult) {
	h.mu.Lock()
	h.steps = append(h.steps, result)
	count := len(h.steps)
	cb := h.onStep
	h.mu.Unlock()

	if cb != nil {
		cb(count)
	}
}

func (h *recordingHandler) OnProgress(executed, total int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.progress = append(h.progress, [2]int{executed, total})
}

func (h *recordingHandler) OnTerminal(state scpi.RunState, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.terminal = append(h.terminal, state)
	h.termErr = err
}

func (h *recordingHandler) stepCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.steps)
}

func (h *recordingHandler) snapshot() ([]scpi.StepResult, [][2]int, []scpi.RunState, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]scpi.StepResult(nil), h.steps...),
		append([][2]int(nil), h.progress...),
		append([]scpi.RunState(nil), h.terminal...),
		h.termErr
}

func startTestRun(t *testing.T, d *fakeDevice, h scpi.Handler, seq scpi.Sequence) *Run {
	t.Helper()

	conn := newTestConn(t, d)
	require.NoError(t, conn.Open(context.Background()))

	run := newRun(seq, conn, h, quietLogger(), conn.cfg.ResponseTimeout(), nil)
	run.start()

	return run
}

func waitRun(t *testing.T, run *Run) {
	t.Helper()

	select {
	case <-run.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("run did not reach a terminal state in time")
	}
}

func TestRunCompletes(t *testing.T) {
	require := require.New(t)

	d := startFakeDevice(t, echoQuery)
	h := &recordingHandler{}

	seq := scpi.Sequence{
		Commands: []scpi.Command{"VOLT 1.5", "MEAS:VOLT?"},
		Repeat:   2,
		Interval: 30 * time.Millisecond,
	}

	start := time.Now()
	run := startTestRun(t, d, h, seq)
	waitRun(t, run)
	elapsed := time.Since(start)

	require.Equal(scpi.RunCompleted, run.State())
	require.NoError(run.Err())

	steps, progress, terminal, termErr := h.snapshot()
	require.Len(steps, 4)
	require.Len(progress, 4)
	require.Equal([2]int{4, 4}, progress[3])
	require.Equal([]scpi.RunState{scpi.RunCompleted}, terminal)
	require.NoError(termErr)

	// commands repeat in order, with 1-based loop numbering
	require.Equal(scpi.Command("VOLT 1.5"), steps[0].Command)
	require.Equal(scpi.Command("MEAS:VOLT?"), steps[1].Command)
	require.Equal(1, steps[0].Loop)
	require.Equal(1, steps[1].Loop)
	require.Equal(2, steps[2].Loop)
	require.Equal(2, steps[3].Loop)

	// set commands acknowledge, queries carry text
	require.Equal(scpi.ResponseAck, steps[0].Response.Kind)
	require.Equal("ok:MEAS:VOLT?", steps[1].Response.Text)

	// three inter-command sleeps, none after the final command
	require.GreaterOrEqual(elapsed, 3*seq.Interval)

	require.True(d.waitLineCount(4, 2*time.Second))
	require.Equal([]string{"VOLT 1.5", "MEAS:VOLT?", "VOLT 1.5", "MEAS:VOLT?"}, d.receivedLines())
}

func TestRunSingleCommandNoSleep(t *testing.T) {
	require := require.New(t)

	d := startFakeDevice(t, echoQuery)
	h := &recordingHandler{}

	seq := scpi.Sequence{
		Commands: []scpi.Command{"*IDN?"},
		Repeat:   1,
		Interval: 5 * time.Second,
	}

	start := time.Now()
	run := startTestRun(t, d, h, seq)
	waitRun(t, run)

	require.Equal(scpi.RunCompleted, run.State())
	require.Less(time.Since(start), time.Second)
	require.Equal(1, h.stepCount())
}

func TestRunStopAfterTwoSteps(t *testing.T) {
	require := require.New(t)

	d := startFakeDevice(t, echoQuery)
	h := &recordingHandler{}

	seq := scpi.Sequence{
		Commands: []scpi.Command{"A 1", "B 2", "C 3", "D 4", "E 5"},
		Repeat:   1,
		Interval: 20 * time.Millisecond,
	}

	var run *Run
	h.onStep = func(stepCount int) {
		if stepCount == 2 {
			run.Stop()
		}
	}

	conn := newTestConn(t, d)
	require.NoError(conn.Open(context.Background()))

	run = newRun(seq, conn, h, quietLogger(), conn.cfg.ResponseTimeout(), nil)
	run.start()
	waitRun(t, run)

	require.Equal(scpi.RunStopped, run.State())
	require.NoError(run.Err())

	steps, _, terminal, _ := h.snapshot()
	require.Len(steps, 2)
	require.Equal([]scpi.RunState{scpi.RunStopped}, terminal)

	// nothing past the second command reached the wire
	require.True(d.waitLineCount(2, 2*time.Second))
	require.Equal([]string{"A 1", "B 2"}, d.receivedLines())

	// stopping an already terminal run changes nothing
	run.Stop()
	require.Equal(scpi.RunStopped, run.State())
}

func TestRunFailsFastOnTimeout(t *testing.T) {
	require := require.New(t)

	// responds to the first query only, then goes silent
	var answered bool
	d := startFakeDevice(t, func(line string) (string, bool) {
		if !answered {
			answered = true
			return "42", true
		}
		return "", false
	})
	h := &recordingHandler{}

	seq := scpi.Sequence{
		Commands: []scpi.Command{"READ?", "READ?", "READ?"},
		Repeat:   1,
	}

	conn := newTestConn(t, d, WithResponseTimeout(200*time.Millisecond))
	require.NoError(conn.Open(context.Background()))

	run := newRun(seq, conn, h, quietLogger(), conn.cfg.ResponseTimeout(), nil)
	run.start()
	waitRun(t, run)

	require.Equal(scpi.RunFailed, run.State())

	var terr *scpi.CommandTimeoutError
	require.ErrorAs(run.Err(), &terr)

	steps, _, terminal, termErr := h.snapshot()
	require.Len(steps, 1, "no step notification for the failed command")
	require.Equal([]scpi.RunState{scpi.RunFailed}, terminal)
	require.ErrorAs(termErr, &terr)

	// the failed command was the last one written
	require.True(d.waitLineCount(2, 2*time.Second))
	require.Equal([]string{"READ?", "READ?"}, d.receivedLines())
}

func TestRunReleaseCallbackBeforeTerminal(t *testing.T) {
	require := require.New(t)

	d := startFakeDevice(t, echoQuery)

	var order []string
	var mu sync.Mutex
	h := &recordingHandler{}

	conn := newTestConn(t, d)
	require.NoError(conn.Open(context.Background()))

	wrapped := &callbackHandler{
		inner: h,
		onTerminal: func() {
			mu.Lock()
			order = append(order, "terminal")
			mu.Unlock()
		},
	}

	seq := scpi.Sequence{Commands: []scpi.Command{"A 1"}, Repeat: 1}
	run := newRun(seq, conn, wrapped, quietLogger(), conn.cfg.ResponseTimeout(), func(*Run) {
		mu.Lock()
		order = append(order, "release")
		mu.Unlock()
	})
	run.start()
	waitRun(t, run)

	mu.Lock()
	defer mu.Unlock()
	require.Equal([]string{"release", "terminal"}, order)
}

// callbackHandler forwards to inner and fires onTerminal alongside the
// terminal notification.
type callbackHandler struct {
	inner      scpi.Handler
	onTerminal func()
}

var _ scpi.Handler = (*callbackHandler)(nil)

func (h *callbackHandler) OnStep(result scpi.StepResult)  { h.inner.OnStep(result) }
func (h *callbackHandler) OnProgress(executed, total int) { h.inner.OnProgress(executed, total) }

func (h *callbackHandler) OnTerminal(state scpi.RunState, err error) {
	h.onTerminal()
	h.inner.OnTerminal(state, err)
}
