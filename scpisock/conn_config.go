package scpisock

import (
	"errors"
	"sync"
	"time"

	"github.com/Martinxux/SCPI-Command-Sender/logger"
	"github.com/Martinxux/SCPI-Command-Sender/scpi"
)

// ErrConfigNil indicates that a nil ConnectionConfig was provided.
var ErrConfigNil = errors.New("connection config is nil")

// ConnectionConfig represents the configuration parameters for a SCPI socket
// connection.
type ConnectionConfig struct {
	mu sync.RWMutex

	// host specifies the IPv4 address of the remote device.
	host string

	// port specifies the TCP port number of the remote SCPI service.
	port int

	// connectTimeout defines the timeout for establishing the TCP connection.
	// Defaults to 10 seconds.
	connectTimeout time.Duration

	// responseTimeout defines the per-command timeout for writing a command
	// and, for queries, reading the response line.
	// Defaults to 5 seconds.
	responseTimeout time.Duration

	// responseBufferSize defines the size of the read buffer for query
	// responses. Responses larger than the buffer are truncated.
	// Defaults to 1024 bytes.
	responseBufferSize int

	// logger provides a logger instance for connection and run events.
	logger logger.Logger
}

// NewConnectionConfig creates a connection configuration with the given host,
// port number, and optional functional options.
//
// It initializes a ConnectionConfig with default values and then applies the
// provided options to customize the configuration.
//
// The host must be a syntactically valid IPv4 dotted-quad address; validation
// happens here, before any network I/O is attempted, and a malformed host is
// rejected with a *scpi.ValidationError.
func NewConnectionConfig(host string, port int, opts ...ConnOption) (*ConnectionConfig, error) {
	cfg := &ConnectionConfig{
		connectTimeout:     10 * time.Second,
		responseTimeout:    5 * time.Second,
		responseBufferSize: 1024,
		logger:             logger.GetLogger(),
	}

	if err := withHost(host).apply(cfg); err != nil {
		return cfg, err
	}

	if err := withPort(port).apply(cfg); err != nil {
		return cfg, err
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

// Host returns the configured remote IPv4 address.
func (cfg *ConnectionConfig) Host() string {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.host
}

// Port returns the configured remote TCP port.
func (cfg *ConnectionConfig) Port() int {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.port
}

// ConnectTimeout returns the timeout for establishing the TCP connection.
func (cfg *ConnectionConfig) ConnectTimeout() time.Duration {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.connectTimeout
}

// ResponseTimeout returns the per-command response timeout.
func (cfg *ConnectionConfig) ResponseTimeout() time.Duration {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.responseTimeout
}

// ResponseBufferSize returns the size of the query response read buffer.
func (cfg *ConnectionConfig) ResponseBufferSize() int {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.responseBufferSize
}

// Logger returns the configured logger instance.
func (cfg *ConnectionConfig) Logger() logger.Logger {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.logger
}

// ConnOption represents a functional option for configuring a ConnectionConfig.
type ConnOption interface {
	apply(*ConnectionConfig) error
}

type connOptFunc struct {
	name      string
	applyFunc func(*ConnectionConfig) error
}

func (c *connOptFunc) apply(cfg *ConnectionConfig) error { return c.applyFunc(cfg) }

func newConnOptFunc(name string, f func(*ConnectionConfig) error) *connOptFunc {
	return &connOptFunc{
		name:      name,
		applyFunc: f,
	}
}

// withHost sets the remote IPv4 address for the connection.
// It returns a ConnOption that validates the dotted-quad syntax and updates
// the configuration. No DNS resolution is performed.
func withHost(host string) ConnOption {
	return newConnOptFunc("withHost", func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConfigNil
		}

		if err := scpi.ValidateHost(host); err != nil {
			return err
		}
		cfg.host = host

		return nil
	})
}

// withPort sets the TCP port number for the connection.
// It returns a ConnOption that validates the port number and updates the
// configuration.
func withPort(port int) ConnOption {
	return newConnOptFunc("withPort", func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConfigNil
		}

		if err := scpi.ValidatePort(port); err != nil {
			return err
		}
		cfg.port = port

		return nil
	})
}

// WithConnectTimeout sets the timeout for establishing the TCP connection.
// It returns a ConnOption that validates the timeout value and updates the
// configuration. An error is returned if the timeout is outside the valid
// range (0.1-120 seconds) or if the configuration is nil.
//
// The default value is 10 seconds.
func WithConnectTimeout(val time.Duration) ConnOption {
	return newConnOptFunc("WithConnectTimeout", func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConfigNil
		}

		if val < 100*time.Millisecond || val > 120*time.Second {
			return errors.New("connect timeout out of range [0.1, 120]")
		}
		cfg.connectTimeout = val

		return nil
	})
}

// WithResponseTimeout sets the per-command timeout used for writing a command
// and, for queries, reading the response line.
// It returns a ConnOption that validates the timeout value and updates the
// configuration. An error is returned if the timeout is outside the valid
// range (0.1-120 seconds) or if the configuration is nil.
//
// The default value is 5 seconds.
func WithResponseTimeout(val time.Duration) ConnOption {
	return newConnOptFunc("WithResponseTimeout", func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConfigNil
		}

		if val < 100*time.Millisecond || val > 120*time.Second {
			return errors.New("response timeout out of range [0.1, 120]")
		}
		cfg.responseTimeout = val

		return nil
	})
}

// WithResponseBufferSize sets the size of the read buffer for query responses.
// Responses larger than the buffer are truncated.
//
// The size must be within the range of 64 to 65536 bytes.
// An error is returned if the size is invalid or if the configuration is nil.
//
// The default value is 1024 bytes.
func WithResponseBufferSize(size int) ConnOption {
	return newConnOptFunc("WithResponseBufferSize", func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConfigNil
		}
		if size < 64 || size > 65536 {
			return errors.New("response buffer size out of range [64, 65536]")
		}

		cfg.responseBufferSize = size

		return nil
	})
}

// WithLogger sets the logger for the connection and its sequence runs.
// It returns a ConnOption that updates the configuration with the provided
// logger. An error is returned if the configuration is nil.
//
// The default logger is the global logger instance.
func WithLogger(l logger.Logger) ConnOption {
	return newConnOptFunc("WithLogger", func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConfigNil
		}

		cfg.logger = l

		return nil
	})
}
