package scpisock

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/Martinxux/SCPI-Command-Sender/logger"
	"github.com/Martinxux/SCPI-Command-Sender/scpi"
)

// Connection owns a single TCP stream to one SCPI device and performs one
// command/response exchange at a time.
//
// The protocol carries no correlation IDs, so exchanges never overlap: Send
// serializes callers internally. All methods are safe for concurrent use.
type Connection struct {
	cfg    *ConnectionConfig
	logger logger.Logger
	state  AtomicConnState

	// mu serializes exchanges and guards conn. Holding it across the whole
	// write/read pair is what enforces the single-in-flight-request rule.
	mu      sync.Mutex
	conn    net.Conn
	readBuf []byte
}

// NewConnection creates a Connection for the given configuration. The
// connection starts disconnected; call Open to dial the device.
func NewConnection(cfg *ConnectionConfig) (*Connection, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	return &Connection{
		cfg:     cfg,
		logger:  cfg.Logger(),
		readBuf: make([]byte, cfg.ResponseBufferSize()),
	}, nil
}

// Open dials the configured host and port, applying the connect timeout.
//
// Dial failures are classified into timeout, refused and other causes and
// reported as a *scpi.ConnectError. Opening an already-open connection
// returns scpi.ErrAlreadyConnected.
func (c *Connection) Open(ctx context.Context) error {
	if !c.state.ToConnecting() {
		return scpi.ErrAlreadyConnected
	}

	address := net.JoinHostPort(c.cfg.Host(), strconv.Itoa(c.cfg.Port()))
	dialer := &net.Dialer{KeepAlive: 30 * time.Second}

	dialCtx, cancel := context.WithTimeout(ctx, c.cfg.ConnectTimeout())
	defer cancel()

	conn, err := dialer.DialContext(dialCtx, "tcp", address)
	if err != nil {
		c.state.ToDisconnected()

		connErr := c.classifyConnectError(err)
		c.logger.Error("failed to connect to the device",
			"host", c.cfg.Host(),
			"port", c.cfg.Port(),
			"reason", connErr.Reason,
			"error", err,
		)

		return connErr
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	c.state.ToConnected()

	c.logger.Info("connected to the device",
		"host", c.cfg.Host(),
		"port", c.cfg.Port(),
		"local_addr", conn.LocalAddr().String(),
		"remote_addr", conn.RemoteAddr().String(),
	)

	return nil
}

// IsConnected reports whether the socket is open and usable.
func (c *Connection) IsConnected() bool {
	return c.state.IsConnected()
}

// Close closes the socket if open. It is idempotent: closing an already
// closed connection is a no-op and never an error.
func (c *Connection) Close() {
	if !c.state.ToClosing() {
		return
	}

	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		if err := conn.Close(); err != nil {
			c.logger.Warn("error while closing the connection", "error", err)
		}
	}

	c.state.ToDisconnected()
	c.logger.Info("disconnected from the device", "host", c.cfg.Host(), "port", c.cfg.Port())
}

// Send performs one command exchange with the given per-command timeout.
//
// The command text plus a single '\n' terminator is written in full, or the
// send fails. Query commands then read exactly one response line within the
// timeout; set commands never read and return the synthetic acknowledgement.
//
// Error mapping:
//   - scpi.ErrNotConnected when no socket is open.
//   - *scpi.CommandTimeoutError when the device stays silent past the timeout.
//   - *scpi.CommandError for any other I/O failure; the socket is left open
//     and the caller decides whether to disconnect.
//
// A query answered by an orderly close (zero bytes) is not an error: it
// yields the explicit no-response result.
func (c *Connection) Send(cmd scpi.Command, timeout time.Duration) (scpi.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	conn := c.conn
	if conn == nil || !c.state.IsConnected() {
		return scpi.Response{}, scpi.ErrNotConnected
	}

	if err := cmd.Validate(); err != nil {
		return scpi.Response{}, &scpi.CommandError{Command: cmd, Cause: err}
	}

	isQuery := cmd.IsQuery()
	c.logger.Debug("send command", "command", cmd.String(), "query", isQuery)

	if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return scpi.Response{}, &scpi.CommandError{Command: cmd, Cause: err}
	}

	line := append([]byte(cmd), '\n')
	if _, err := conn.Write(line); err != nil {
		if isTimeoutErr(err) {
			c.logger.Error("command write timed out", "command", cmd.String(), "timeout", timeout)
			return scpi.Response{}, &scpi.CommandTimeoutError{Command: cmd, Timeout: timeout, Cause: err}
		}

		c.logger.Error("failed to write command", "command", cmd.String(), "error", err)

		return scpi.Response{}, &scpi.CommandError{Command: cmd, Cause: err}
	}

	if !isQuery {
		c.logger.Debug("set command acknowledged", "command", cmd.String())
		return scpi.AckResponse(), nil
	}

	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return scpi.Response{}, &scpi.CommandError{Command: cmd, Cause: err}
	}

	n, err := conn.Read(c.readBuf)
	if err != nil && n == 0 {
		if errors.Is(err, io.EOF) {
			// orderly close, the device had nothing to say
			c.logger.Warn("query returned no response", "command", cmd.String())
			return scpi.NoResponse(), nil
		}
		if isTimeoutErr(err) {
			c.logger.Error("command response timed out", "command", cmd.String(), "timeout", timeout)
			return scpi.Response{}, &scpi.CommandTimeoutError{Command: cmd, Timeout: timeout, Cause: err}
		}

		c.logger.Error("failed to read response", "command", cmd.String(), "error", err)

		return scpi.Response{}, &scpi.CommandError{Command: cmd, Cause: err}
	}

	if n == 0 {
		c.logger.Warn("query returned no response", "command", cmd.String())
		return scpi.NoResponse(), nil
	}

	text := strings.TrimSpace(string(c.readBuf[:n]))
	c.logger.Debug("response received", "command", cmd.String(), "response", text)

	return scpi.TextResponse(text), nil
}

// classifyConnectError maps a dial failure to a *scpi.ConnectError with a
// distinct reason, so the caller can show differentiated remediation guidance.
func (c *Connection) classifyConnectError(err error) *scpi.ConnectError {
	reason := scpi.ConnectOther
	switch {
	case isTimeoutErr(err):
		reason = scpi.ConnectTimeout
	case errors.Is(err, syscall.ECONNREFUSED):
		reason = scpi.ConnectRefused
	}

	return &scpi.ConnectError{
		Reason: reason,
		Host:   c.cfg.Host(),
		Port:   c.cfg.Port(),
		Cause:  err,
	}
}

func isTimeoutErr(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}
