// Package version provides protocol version parsing and compatibility checks
// between federate bindings and the RTI.
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Current is the protocol version implemented by this library.
const Current = "1.0"

// ErrIncompatible indicates a peer speaking another major version.
var ErrIncompatible = errors.New("incompatible protocol version")

// ProtocolVersion represents a parsed "major.minor" protocol version.
type ProtocolVersion struct {
	Major uint16
	Minor uint16
}

// Parse parses a "major.minor" version string.
func Parse(s string) (ProtocolVersion, error) {
	major, minor, ok := strings.Cut(s, ".")
	if !ok || strings.Contains(minor, ".") {
		return ProtocolVersion{}, fmt.Errorf("invalid version %q: expected major.minor", s)
	}

	maj, err := strconv.ParseUint(major, 10, 16)
	if err != nil {
		return ProtocolVersion{}, fmt.Errorf("invalid version %q: bad major component", s)
	}

	mnr, err := strconv.ParseUint(minor, 10, 16)
	if err != nil {
		return ProtocolVersion{}, fmt.Errorf("invalid version %q: bad minor component", s)
	}

	return ProtocolVersion{Major: uint16(maj), Minor: uint16(mnr)}, nil
}

// String returns the version as "major.minor".
func (v ProtocolVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compatible returns true if the other version has the same major version.
func (v ProtocolVersion) Compatible(other ProtocolVersion) bool {
	return v.Major == other.Major
}

// Check validates a version announced by a peer against Current. An empty
// version is accepted as Current.
func Check(peer string) error {
	if peer == "" {
		return nil
	}
	theirs, err := Parse(peer)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIncompatible, err)
	}
	ours, _ := Parse(Current)
	if !ours.Compatible(theirs) {
		return fmt.Errorf("%w: peer %s, local %s", ErrIncompatible, theirs, ours)
	}
	return nil
}
