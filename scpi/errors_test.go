package scpi

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConnectError(t *testing.T) {
	require := require.New(t)

	cause := errors.New("dial tcp: connection refused")
	err := &ConnectError{Reason: ConnectRefused, Host: "192.168.1.10", Port: 8805, Cause: cause}
	require.Contains(err.Error(), "192.168.1.10:8805")
	require.Contains(err.Error(), "refused")
	require.ErrorIs(err, cause)

	timeoutErr := &ConnectError{Reason: ConnectTimeout, Host: "10.0.0.1", Port: 5025}
	require.Contains(timeoutErr.Error(), "timed out")

	otherErr := &ConnectError{Reason: ConnectOther, Host: "10.0.0.1", Port: 5025, Cause: errors.New("network is unreachable")}
	require.Contains(otherErr.Error(), "network is unreachable")

	require.Equal("timeout", ConnectTimeout.String())
	require.Equal("refused", ConnectRefused.String())
	require.Equal("other", ConnectOther.String())
}

func TestCommandErrors(t *testing.T) {
	require := require.New(t)

	tErr := &CommandTimeoutError{Command: "MEAS:VOLT?", Timeout: 5 * time.Second}
	require.Contains(tErr.Error(), `"MEAS:VOLT?"`)
	require.Contains(tErr.Error(), "5s")

	cause := errors.New("broken pipe")
	cErr := &CommandError{Command: "OUTP ON", Cause: cause}
	require.Contains(cErr.Error(), `"OUTP ON"`)
	require.ErrorIs(cErr, cause)
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "host", Value: "999.1.1.1", Reason: "address octets must be in range [0, 255]"}
	require.Equal(t, `invalid host "999.1.1.1": address octets must be in range [0, 255]`, err.Error())
}
