// Package scpisock implements SCPI command exchange over a raw TCP socket,
// plus the cancellable sequence-execution engine driving it.
//
// The package provides three collaborating pieces:
//
//   - Connection: owns a single TCP stream to one device and performs one
//     command/response exchange at a time. The wire protocol is a UTF-8 text
//     line terminated by '\n'; query commands (trailing '?') read exactly one
//     response line, set commands never trigger a read.
//   - Run: one execution of a scpi.Sequence on a background worker goroutine,
//     with repeat/interval semantics, cooperative cancellation and strictly
//     ordered step/progress/terminal notifications.
//   - Session: the facade composing both, exposing connect, disconnect,
//     single-command send and sequence execution to a UI, CLI or test harness.
//
// The protocol carries no correlation IDs, so requests cannot overlap: the
// Connection serializes exchanges, a Session runs at most one sequence at a
// time, and single sends are rejected while a run owns the socket.
//
// Responses are read into a fixed-size buffer (1024 bytes by default, see
// WithResponseBufferSize); larger responses are truncated. This is a
// documented limitation of the line protocol, not a defect.
package scpisock
