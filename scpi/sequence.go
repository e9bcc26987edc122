package scpi

import "time"

// Sequence describes one batch execution: an ordered list of commands, a
// repeat count and an inter-command delay.
type Sequence struct {
	// Commands holds the command lines in execution order.
	Commands []Command
	// Repeat is the number of times the whole command list is executed.
	// Values below 1 are treated as 1.
	Repeat int
	// Interval is the delay inserted after every command except the very last
	// command of the very last loop. Negative values are treated as zero.
	Interval time.Duration
}

// NewSequence creates a Sequence with its own copy of commands, clamping
// repeat to at least 1 and interval to at least 0.
func NewSequence(commands []Command, repeat int, interval time.Duration) Sequence {
	seq := Sequence{
		Commands: make([]Command, len(commands)),
		Repeat:   repeat,
		Interval: interval,
	}
	copy(seq.Commands, commands)

	return seq.clamped()
}

// Snapshot returns an independent, clamped copy of the sequence.
//
// The execution engine snapshots a sequence at the moment a run starts, so
// later edits to the source list cannot affect an in-flight run.
func (s Sequence) Snapshot() Sequence {
	clone := s
	clone.Commands = make([]Command, len(s.Commands))
	copy(clone.Commands, s.Commands)

	return clone.clamped()
}

// TotalSteps returns the number of command attempts a full execution performs.
func (s Sequence) TotalSteps() int {
	repeat := s.Repeat
	if repeat < 1 {
		repeat = 1
	}

	return len(s.Commands) * repeat
}

// IsEmpty reports whether the sequence contains no commands.
func (s Sequence) IsEmpty() bool { return len(s.Commands) == 0 }

func (s Sequence) clamped() Sequence {
	if s.Repeat < 1 {
		s.Repeat = 1
	}
	if s.Interval < 0 {
		s.Interval = 0
	}

	return s
}
