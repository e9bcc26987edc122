package scpi

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEmptyCommand indicates that an empty or whitespace-only command was provided.
	ErrEmptyCommand = errors.New("command is empty")

	// ErrMultilineCommand indicates that a command contains an embedded line break,
	// which would corrupt the newline-delimited framing on the wire.
	ErrMultilineCommand = errors.New("command contains a line break")
)

var (
	// ErrNotConnected indicates that no socket to the remote device is open.
	ErrNotConnected = errors.New("not connected to the remote device")

	// ErrAlreadyConnected indicates that the session already owns a live socket.
	// A session holds at most one connection at a time.
	ErrAlreadyConnected = errors.New("already connected to the remote device")
)

var (
	// ErrRunInProgress indicates that a sequence run has not reached a terminal
	// state yet. The session executes at most one run at a time, and single
	// command sends are rejected while a run owns the connection.
	ErrRunInProgress = errors.New("a sequence run is already in progress")

	// ErrEmptySequence indicates that a sequence with no commands was submitted
	// for execution.
	ErrEmptySequence = errors.New("sequence contains no commands")
)

// ConnectFailureReason distinguishes the causes of a failed connection
// attempt, so callers can show differentiated remediation guidance.
type ConnectFailureReason uint8

const (
	// ConnectTimeout indicates the connection attempt did not complete within
	// the connect timeout.
	ConnectTimeout ConnectFailureReason = iota
	// ConnectRefused indicates the remote host actively refused the connection.
	ConnectRefused
	// ConnectOther covers all remaining I/O failures during connect.
	ConnectOther
)

// String returns string representation of the failure reason.
func (r ConnectFailureReason) String() string {
	switch r {
	case ConnectTimeout:
		return "timeout"
	case ConnectRefused:
		return "refused"
	case ConnectOther:
		return "other"
	default:
		return "unknown"
	}
}

// ConnectError reports a failed connection attempt to host:port.
type ConnectError struct {
	Reason ConnectFailureReason
	Host   string
	Port   int
	Cause  error
}

func (e *ConnectError) Error() string {
	switch e.Reason {
	case ConnectTimeout:
		return fmt.Sprintf("connect to %s:%d timed out, check the remote IP and port", e.Host, e.Port)
	case ConnectRefused:
		return fmt.Sprintf("connection to %s:%d refused, make sure the remote SCPI service is enabled and the firewall allows the port", e.Host, e.Port)
	default:
		return fmt.Sprintf("connect to %s:%d failed: %v", e.Host, e.Port, e.Cause)
	}
}

func (e *ConnectError) Unwrap() error { return e.Cause }

// ValidationError reports malformed caller input that was rejected before any
// network I/O was attempted.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// CommandTimeoutError reports that a query command received no response within
// the response timeout.
type CommandTimeoutError struct {
	Command Command
	Timeout time.Duration
	Cause   error
}

func (e *CommandTimeoutError) Error() string {
	return fmt.Sprintf("command %q timed out after %s", string(e.Command), e.Timeout)
}

func (e *CommandTimeoutError) Unwrap() error { return e.Cause }

// CommandError reports an I/O failure while sending a command or reading its
// response. The connection is left open; the caller decides whether to
// disconnect.
type CommandError struct {
	Command Command
	Cause   error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q failed: %v", string(e.Command), e.Cause)
}

func (e *CommandError) Unwrap() error { return e.Cause }
