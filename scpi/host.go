package scpi

import (
	"strconv"
	"strings"
)

// ValidateHost checks that host is a syntactically valid IPv4 dotted-quad:
// exactly four dot-separated decimal integers in the range 0 to 255.
//
// The check is purely syntactic and never touches the network; in particular
// it does not resolve host names. It returns a *ValidationError on rejection.
func ValidateHost(host string) error {
	invalid := func(reason string) error {
		return &ValidationError{Field: "host", Value: host, Reason: reason}
	}

	parts := strings.Split(host, ".")
	if len(parts) != 4 {
		return invalid("expected an IPv4 dotted-quad address")
	}

	for _, part := range parts {
		if part == "" {
			return invalid("expected an IPv4 dotted-quad address")
		}
		for _, r := range part {
			if r < '0' || r > '9' {
				return invalid("address octets must be decimal integers")
			}
		}
		n, err := strconv.Atoi(part)
		if err != nil || n > 255 {
			return invalid("address octets must be in range [0, 255]")
		}
	}

	return nil
}

// ValidatePort checks that port is within the valid TCP range [1, 65535].
// It returns a *ValidationError on rejection.
func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return &ValidationError{
			Field:  "port",
			Value:  strconv.Itoa(port),
			Reason: "port is out of range [1, 65535]",
		}
	}

	return nil
}
