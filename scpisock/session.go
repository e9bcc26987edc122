package scpisock

import (
	"context"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/Martinxux/SCPI-Command-Sender/logger"
	"github.com/Martinxux/SCPI-Command-Sender/scpi"
)

// Session is the lifecycle facade exposed to external collaborators (a UI,
// a CLI, or a test harness).
//
// A session owns at most one live socket and at most one non-terminal
// sequence run at a time. The socket is used either by the active run's
// worker or, when idle, by SendOne from the foreground context; the two paths
// are mutually exclusive so that request/response pairs never interleave on
// the wire.
type Session struct {
	handler scpi.Handler
	opts    []ConnOption

	mu        sync.Mutex
	logger    logger.Logger
	conn      *Connection
	identity  scpi.Identity
	activeRun *Run

	// runs indexes live run handles by ID for Stop; terminal runs are evicted.
	runs *xsync.MapOf[string, *Run]
}

// NewSession creates a session delivering run notifications to handler.
// A nil handler discards all notifications. The options are applied to the
// connection configuration built by each Connect call.
func NewSession(handler scpi.Handler, opts ...ConnOption) *Session {
	if handler == nil {
		handler = scpi.NoopHandler{}
	}

	return &Session{
		handler: handler,
		opts:    opts,
		logger:  logger.GetLogger(),
		runs:    xsync.NewMapOf[string, *Run](),
	}
}

// Connect validates host and port, dials the device, and probes its identity.
//
// The host must be a syntactically valid IPv4 dotted-quad; malformed input is
// rejected with a *scpi.ValidationError before any network I/O. Dial failures
// are reported as *scpi.ConnectError. On success the session immediately
// sends *IDN? as a best-effort identification probe: a probe failure is
// logged as a warning and never fails the connect.
func (s *Session) Connect(ctx context.Context, host string, port int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil && s.conn.IsConnected() {
		return scpi.ErrAlreadyConnected
	}

	cfg, err := NewConnectionConfig(host, port, s.opts...)
	if err != nil {
		s.logger.Error("invalid connection parameters", "host", host, "port", port, "error", err)
		return err
	}
	s.logger = cfg.Logger()

	conn, err := NewConnection(cfg)
	if err != nil {
		return err
	}

	if err := conn.Open(ctx); err != nil {
		return err
	}

	s.conn = conn
	s.identity = scpi.Identity{}

	resp, err := conn.Send(scpi.IdentifyCommand, cfg.ResponseTimeout())
	switch {
	case err != nil:
		s.logger.Warn("identification probe failed", "error", err)
	case resp.HasText() && resp.Text != "":
		s.identity = scpi.ParseIdentity(resp.Text)
		s.logger.Info("device identified", "identity", s.identity.ShortString(), "idn", resp.Text)
	default:
		s.logger.Warn("device returned no identification")
	}

	return nil
}

// Disconnect closes the connection. It always succeeds from the caller's
// perspective and is a no-op when already disconnected.
//
// An active sequence run receives a cooperative stop request first; it
// terminates on its own schedule, failing fast on the closed socket if it
// attempts another send.
func (s *Session) Disconnect() {
	s.mu.Lock()
	conn := s.conn
	run := s.activeRun
	s.conn = nil
	s.identity = scpi.Identity{}
	s.mu.Unlock()

	if run != nil {
		run.Stop()
	}
	if conn != nil {
		conn.Close()
	}
}

// IsConnected reports whether the session owns a live socket.
func (s *Session) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.conn != nil && s.conn.IsConnected()
}

// Identity returns the identification parsed from the *IDN? probe of the
// current connection. The zero value means the device never identified
// itself.
func (s *Session) Identity() scpi.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.identity
}

// SendOne sends a single command with the default response timeout.
//
// It is usable only while connected and only when no sequence run is active:
// a rejected send puts zero bytes on the wire, preserving the
// single-in-flight-request rule.
func (s *Session) SendOne(cmd scpi.Command) (scpi.Response, error) {
	s.mu.Lock()
	conn := s.conn
	run := s.activeRun
	s.mu.Unlock()

	if run != nil && !run.State().IsTerminal() {
		s.logger.Warn("single send rejected, a sequence run is active", "command", cmd.String())
		return scpi.Response{}, scpi.ErrRunInProgress
	}
	if conn == nil {
		return scpi.Response{}, scpi.ErrNotConnected
	}

	return conn.Send(cmd, conn.cfg.ResponseTimeout())
}

// RunSequence snapshots seq and starts executing it on a background worker,
// returning the run handle without blocking.
//
// It is rejected with scpi.ErrNotConnected when disconnected, with
// scpi.ErrEmptySequence for a sequence without commands, and with
// scpi.ErrRunInProgress while a prior run has not reached a terminal state
// (runs are never queued).
func (s *Session) RunSequence(seq scpi.Sequence) (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil || !s.conn.IsConnected() {
		s.logger.Warn("sequence run rejected, not connected")
		return nil, scpi.ErrNotConnected
	}
	if seq.IsEmpty() {
		s.logger.Warn("sequence run rejected, sequence is empty")
		return nil, scpi.ErrEmptySequence
	}
	if s.activeRun != nil && !s.activeRun.State().IsTerminal() {
		s.logger.Warn("sequence run rejected, another run is active", "active_run_id", s.activeRun.ID())
		return nil, scpi.ErrRunInProgress
	}

	run := newRun(seq, s.conn, s.handler, s.logger, s.conn.cfg.ResponseTimeout(), s.releaseRun)
	s.activeRun = run
	s.runs.Store(run.ID(), run)

	run.start()

	s.logger.Info("sequence run started",
		"run_id", run.ID(),
		"commands", len(run.Sequence().Commands),
		"repeat", run.Sequence().Repeat,
		"interval", run.Sequence().Interval,
	)

	return run, nil
}

// Stop requests cancellation of the run with the given ID. It returns false
// if the run is unknown or already terminal.
func (s *Session) Stop(id string) bool {
	run, ok := s.runs.Load(id)
	if !ok || run.State().IsTerminal() {
		return false
	}

	run.Stop()

	return true
}

// ActiveRun returns the current non-terminal run, or nil.
func (s *Session) ActiveRun() *Run {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeRun == nil || s.activeRun.State().IsTerminal() {
		return nil
	}

	return s.activeRun
}

// releaseRun frees the active-run slot once a run reaches a terminal state.
// It runs on the worker goroutine, before the terminal notification.
func (s *Session) releaseRun(r *Run) {
	s.mu.Lock()
	if s.activeRun == r {
		s.activeRun = nil
	}
	s.mu.Unlock()

	s.runs.Delete(r.ID())
}
