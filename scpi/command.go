package scpi

import (
	"strings"
	"unicode"
)

// Command represents a single SCPI command line.
//
// The command text is opaque to this package; the only syntactic rule applied
// is the trailing-'?' query classification.
type Command string

// String returns the raw command text.
func (c Command) String() string { return string(c) }

// IsQuery reports whether the command expects a response line from the device.
//
// A command is a query if and only if its trailing non-whitespace character is
// '?'. Trailing whitespace is ignored, so "TRIG? " is still a query.
func (c Command) IsQuery() bool {
	trimmed := strings.TrimRightFunc(string(c), unicode.IsSpace)
	return strings.HasSuffix(trimmed, "?")
}

// Validate checks that the command is a well-formed single text line.
//
// It returns ErrEmptyCommand for empty or whitespace-only commands, and
// ErrMultilineCommand if the text contains an embedded line break that would
// corrupt the newline-delimited framing on the wire.
func (c Command) Validate() error {
	if strings.TrimSpace(string(c)) == "" {
		return ErrEmptyCommand
	}
	if strings.ContainsAny(string(c), "\r\n") {
		return ErrMultilineCommand
	}

	return nil
}
