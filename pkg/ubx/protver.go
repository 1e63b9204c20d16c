package ubx

import (
	"fmt"
	"strconv"
	"strings"
)

// ProtVersion is the receiver protocol version reported through the
// PROTVER extension of MON-VER. Message availability differs between
// protocol generations, so callers gate optional features on it.
type ProtVersion struct {
	Major uint16
	Minor uint16
}

// ParseProtVersion parses a "major.minor" protocol version string.
func ParseProtVersion(s string) (ProtVersion, error) {
	major, minor, ok := strings.Cut(s, ".")
	if !ok {
		return ProtVersion{}, fmt.Errorf("invalid protocol version %q: expected major.minor", s)
	}

	maj, err := strconv.ParseUint(major, 10, 16)
	if err != nil {
		return ProtVersion{}, fmt.Errorf("invalid protocol version %q: bad major component", s)
	}
	min, err := strconv.ParseUint(minor, 10, 16)
	if err != nil {
		return ProtVersion{}, fmt.Errorf("invalid protocol version %q: bad minor component", s)
	}

	return ProtVersion{Major: uint16(maj), Minor: uint16(min)}, nil
}

// String returns the version as "major.minor" with the two-digit minor
// receivers report (20.30, 15.00).
func (v ProtVersion) String() string {
	return fmt.Sprintf("%d.%02d", v.Major, v.Minor)
}

// AtLeast reports whether v is other or newer.
func (v ProtVersion) AtLeast(other ProtVersion) bool {
	if v.Major != other.Major {
		return v.Major > other.Major
	}
	return v.Minor >= other.Minor
}

// ProtocolVersion extracts the protocol version from the MON-VER
// extensions. Older firmware writes "PROTVER 14.00", newer firmware
// "PROTVER=20.30"; both forms are accepted. Returns false when no
// extension carries the field.
func (m MonVer) ProtocolVersion() (ProtVersion, bool) {
	for _, ext := range m.Extensions {
		s := cstr(ext[:])
		if !strings.HasPrefix(s, "PROTVER") {
			continue
		}
		rest := strings.TrimLeft(s[len("PROTVER"):], "= ")
		v, err := ParseProtVersion(strings.TrimSpace(rest))
		if err != nil {
			return ProtVersion{}, false
		}
		return v, true
	}
	return ProtVersion{}, false
}
