package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ServerVersion is the major/minor version of the connected server
type ServerVersion struct {
	Major int
	Minor int
}

// ParseServerVersionNum parses the output of SHOW server_version_num.
// From 10 on the number is major*10000+minor, before that it is
// major*10000+minor*100+patch (90624 is 9.6).
func ParseServerVersionNum(s string) (ServerVersion, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return ServerVersion{}, fmt.Errorf("invalid server_version_num %q: %w", s, err)
	}
	if n <= 0 {
		return ServerVersion{}, fmt.Errorf("invalid server_version_num %q", s)
	}

	if n >= 100000 {
		return ServerVersion{Major: n / 10000, Minor: n % 10000}, nil
	}
	return ServerVersion{Major: n / 10000, Minor: (n / 100) % 100}, nil
}

// AtLeast returns true if the server is at major.minor or newer
func (v ServerVersion) AtLeast(major, minor int) bool {
	return v.Major > major || (v.Major == major && v.Minor >= minor)
}

// String returns "major.minor"
func (v ServerVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}
