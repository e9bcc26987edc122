package scpi

import (
	"fmt"
	"strings"
)

// IdentifyCommand is the standard identification query sent as a best-effort
// probe right after connecting. A probe failure is a warning, never a connect
// failure.
const IdentifyCommand Command = "*IDN?"

// Identity holds the fields of a standard *IDN? identification reply:
// "<manufacturer>,<model>,<serial number>,<firmware level>".
//
// Devices frequently omit trailing fields; missing fields are left empty and
// never treated as an error.
type Identity struct {
	Manufacturer string
	Model        string
	SerialNumber string
	Firmware     string
}

// ParseIdentity splits a comma-separated *IDN? reply into its fields.
// Each field is whitespace-trimmed. Extra fields beyond the standard four are
// ignored.
func ParseIdentity(reply string) Identity {
	var id Identity

	parts := strings.Split(reply, ",")
	fields := []*string{&id.Manufacturer, &id.Model, &id.SerialNumber, &id.Firmware}
	for i, part := range parts {
		if i >= len(fields) {
			break
		}
		*fields[i] = strings.TrimSpace(part)
	}

	return id
}

// IsZero reports whether no identification field is set.
func (id Identity) IsZero() bool {
	return id == Identity{}
}

// ShortString renders a compact "<manufacturer> <model> (SN:<serial>)" label,
// omitting the serial number suffix when it is unknown.
func (id Identity) ShortString() string {
	name := strings.TrimSpace(id.Manufacturer + " " + id.Model)
	if id.SerialNumber == "" {
		return name
	}

	return fmt.Sprintf("%s (SN:%s)", name, id.SerialNumber)
}
