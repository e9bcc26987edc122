package scpisock

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Martinxux/SCPI-Command-Sender/logger"
	"github.com/Martinxux/SCPI-Command-Sender/scpi"
)

// Run is one execution of a command sequence on a background worker goroutine.
//
// A Run is created by Session.RunSequence and progresses through the
// scpi.RunState machine: Idle -> Running -> {Completed | Stopped | Failed}.
// Step, progress and terminal notifications are delivered to the session's
// handler from the worker goroutine, in strict command-issue order.
//
// Cancellation is cooperative: Stop sets a flag that the worker polls once
// per command iteration. The worst-case latency to honor a stop request is
// one command exchange plus one interval sleep; the connection is left open
// and reusable.
type Run struct {
	id              string
	seq             scpi.Sequence
	conn            *Connection
	handler         scpi.Handler
	logger          logger.Logger
	responseTimeout time.Duration

	state         scpi.AtomicRunState
	stopRequested atomic.Bool
	done          chan struct{}

	// err is written by the worker before done is closed; read it only
	// through Err after Done is signaled.
	err error

	// onTerminal lets the owning session release its active-run slot before
	// the terminal notification reaches the handler.
	onTerminal func(*Run)
}

func newRun(seq scpi.Sequence, conn *Connection, handler scpi.Handler, l logger.Logger,
	responseTimeout time.Duration, onTerminal func(*Run),
) *Run {
	id := uuid.NewString()

	return &Run{
		id:              id,
		seq:             seq.Snapshot(),
		conn:            conn,
		handler:         handler,
		logger:          l.With("run_id", id),
		responseTimeout: responseTimeout,
		done:            make(chan struct{}),
		onTerminal:      onTerminal,
	}
}

// ID returns the unique identifier of this run.
func (r *Run) ID() string { return r.id }

// State returns the current run state.
func (r *Run) State() scpi.RunState { return r.state.Get() }

// Sequence returns the immutable sequence snapshot this run executes.
func (r *Run) Sequence() scpi.Sequence { return r.seq }

// Done returns a channel that is closed when the run reaches a terminal state
// and all notifications for it have been delivered.
func (r *Run) Done() <-chan struct{} { return r.done }

// Err returns the failure that terminated the run, or nil. It is only
// meaningful after Done is signaled.
func (r *Run) Err() error {
	select {
	case <-r.done:
		return r.err
	default:
		return nil
	}
}

// Stop requests cooperative cancellation. The worker finishes its current
// command and interval sleep, then exits with the Stopped terminal state.
// Stopping a run that already reached a terminal state is a no-op.
func (r *Run) Stop() {
	if r.state.IsTerminal() {
		return
	}

	if r.stopRequested.CompareAndSwap(false, true) {
		r.logger.Info("stop requested")
	}
}

// start transitions the run to Running and spawns the worker goroutine.
func (r *Run) start() {
	if !r.state.ToRunning() {
		return
	}

	go r.loop()
}

// loop is the worker body. It implements the execution algorithm:
// for each loop 1..repeat, for each command in order, poll the stop flag,
// send the command, report the step and progress, then sleep the interval
// unless this was the very last command of the very last loop. A transport
// failure aborts the whole run; instrument state after a failed command is
// unknown, so there is no retry and no skip-and-continue.
func (r *Run) loop() {
	defer close(r.done)

	total := r.seq.TotalSteps()
	executed := 0

	// single reusable timer for the interval sleeps; the sleep itself is not
	// interrupted by Stop, the flag is polled at the top of each iteration
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	lastLoop := r.seq.Repeat
	lastCmd := len(r.seq.Commands) - 1

	for loop := 1; loop <= lastLoop; loop++ {
		for i, cmd := range r.seq.Commands {
			if r.stopRequested.Load() {
				r.finish(scpi.RunStopped, nil)
				return
			}

			resp, err := r.conn.Send(cmd, r.responseTimeout)
			if err != nil {
				r.finish(scpi.RunFailed, err)
				return
			}

			executed++
			r.handler.OnStep(scpi.StepResult{Command: cmd, Response: resp, Loop: loop})
			r.handler.OnProgress(executed, total)

			isLastOverall := loop == lastLoop && i == lastCmd
			if !isLastOverall && r.seq.Interval > 0 {
				if timer == nil {
					timer = time.NewTimer(r.seq.Interval)
				} else {
					timer.Reset(r.seq.Interval)
				}
				<-timer.C
			}
		}
	}

	r.finish(scpi.RunCompleted, nil)
}

// finish moves the run to a terminal state and emits the terminal
// notification. The CAS transition guarantees the notification fires at most
// once per run.
func (r *Run) finish(state scpi.RunState, err error) {
	var entered bool
	switch state {
	case scpi.RunCompleted:
		entered = r.state.ToCompleted()
	case scpi.RunStopped:
		entered = r.state.ToStopped()
	case scpi.RunFailed:
		entered = r.state.ToFailed()
	}

	if !entered {
		return
	}

	r.err = err

	if err != nil {
		r.logger.Error("sequence run failed", "error", err)
	} else {
		r.logger.Info("sequence run finished", "state", state.String())
	}

	if r.onTerminal != nil {
		r.onTerminal(r)
	}

	r.handler.OnTerminal(state, err)
}
