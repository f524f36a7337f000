// Package ports validates NSG-style port specifications: a single port,
// an inclusive range, or the wildcard "*".
package ports

import (
	"strconv"
	"strings"
)

// Port bounds for TCP/UDP.
const (
	MinPort = 0
	MaxPort = 65535
)

// PortRange is a parsed port specification.
type PortRange struct {
	// Start and End are the inclusive bounds. For a single port both
	// are equal. For the wildcard they span the full port space.
	Start int
	End   int
	// Wildcard is true when the specification was "*".
	Wildcard bool
}

// IsAll reports whether the range covers every port, either via the
// wildcard or an explicit 0-65535 span.
func (r PortRange) IsAll() bool {
	return r.Wildcard || (r.Start == MinPort && r.End == MaxPort)
}

// IsValid reports whether s is a valid port specification. Accepted
// shapes: "*", a single integer in [0,65535], or "start-end" with both
// bounds in range and start <= end. Anything else (extra dashes,
// non-numeric parts, reversed ranges) is invalid.
func IsValid(s string) bool {
	_, ok := Parse(s)
	return ok
}

// Parse parses a port specification. The boolean is false for any
// invalid input.
func Parse(s string) (PortRange, bool) {
	if s == "*" {
		return PortRange{Start: MinPort, End: MaxPort, Wildcard: true}, true
	}

	if strings.Contains(s, "-") {
		parts := strings.Split(s, "-")
		if len(parts) != 2 {
			return PortRange{}, false
		}
		start, ok := parsePort(parts[0])
		if !ok {
			return PortRange{}, false
		}
		end, ok := parsePort(parts[1])
		if !ok {
			return PortRange{}, false
		}
		if start > end {
			return PortRange{}, false
		}
		return PortRange{Start: start, End: end}, true
	}

	port, ok := parsePort(s)
	if !ok {
		return PortRange{}, false
	}
	return PortRange{Start: port, End: port}, true
}

// parsePort parses a single decimal port number within bounds. Only
// plain digit strings are accepted: ParseUint rejects empty input and
// leading signs, and the 16-bit size caps the value at MaxPort.
func parsePort(s string) (int, bool) {
	port, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, false
	}
	return int(port), true
}
