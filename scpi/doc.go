// Package scpi provides the protocol-level semantics for sending SCPI-style,
// newline-delimited text commands to a remote instrument.
//
// The package defines the vocabulary shared by the transport and the execution
// engine in package scpisock:
//
//   - Command: an opaque single-line command with the trailing-'?' query rule.
//   - Response: the result of one command exchange, with an explicit
//     distinction between a read response line, a synthetic acknowledgement
//     for set commands, and the "no response" case for queries.
//   - Sequence: an immutable snapshot of commands with repeat/interval
//     execution parameters.
//   - RunState / AtomicRunState: the Idle -> Running -> {Completed | Stopped |
//     Failed} state machine of one sequence execution.
//   - Handler: the notification sink receiving step results, progress updates
//     and the terminal state of a run.
//   - Identity: the parsed fields of a standard *IDN? identification reply.
//
// Command Classification:
// A command is a query if and only if its trailing non-whitespace character
// is '?'. Queries expect exactly one response line; set commands expect none
// and are acknowledged synthetically. This is a deliberate protocol
// simplification: no per-device interpretation of command meaning happens
// anywhere in these packages.
package scpi
