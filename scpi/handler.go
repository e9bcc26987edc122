package scpi

// StepResult is produced once per command attempt during a sequence run.
type StepResult struct {
	// Command is the command line that was sent.
	Command Command
	// Response is the exchange outcome: a response line, the synthetic
	// acknowledgement, or the explicit no-response marker.
	Response Response
	// Loop is the 1-based loop number the command was executed in. It is
	// reported even for single-loop runs; the presentation layer decides
	// whether to suppress the loop annotation in that case.
	Loop int
}

// Handler receives the notifications of a sequence run.
//
// All methods are invoked from the run's worker goroutine, in strict
// command-issue order, with no reordering or coalescing. Implementations that
// hand results to a UI thread must do their own marshaling; long-running
// handlers delay the run.
type Handler interface {
	// OnStep is called after each command exchange.
	OnStep(result StepResult)
	// OnProgress is called after each step with the cumulative number of
	// executed commands and the total for the whole run.
	OnProgress(executed, total int)
	// OnTerminal is called exactly once when the run reaches a terminal state.
	// err is non-nil if and only if the state is RunFailed.
	OnTerminal(state RunState, err error)
}

// NoopHandler discards all notifications.
type NoopHandler struct{}

var _ Handler = (*NoopHandler)(nil)

func (NoopHandler) OnStep(result StepResult)             {}
func (NoopHandler) OnProgress(executed, total int)       {}
func (NoopHandler) OnTerminal(state RunState, err error) {}
