// Package cidr provides IPv4 CIDR arithmetic for address-space validation.
//
// All range math is done on unsigned 32-bit integers in network byte order,
// so prefix lengths 0 (entire IPv4 space) and 32 (single host) behave
// correctly through the same masking formula.
package cidr

import (
	"fmt"
	"regexp"
)

// cidrPattern is a shape prefilter. Octet and prefix ranges are checked
// numerically after the match.
var cidrPattern = regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}/\d{1,2}$`)

// Prefix is a parsed CIDR range.
type Prefix struct {
	// IP is the address part as written, e.g. "10.0.0.0".
	IP string
	// Bits is the prefix length, 0-32.
	Bits int
}

// String reconstructs the CIDR notation.
func (p Prefix) String() string {
	return fmt.Sprintf("%s/%d", p.IP, p.Bits)
}

// IsValid reports whether s is well-formed IPv4 CIDR notation.
// Malformed input returns false, never panics.
func IsValid(s string) bool {
	_, ok := Parse(s)
	return ok
}

// Parse parses IPv4 CIDR notation. The boolean is false for any
// malformed input: wrong segment count, non-numeric parts, octets
// outside 0-255, or prefix length outside 0-32.
func Parse(s string) (Prefix, bool) {
	if !cidrPattern.MatchString(s) {
		return Prefix{}, false
	}

	var a, b, c, d, bits int
	if _, err := fmt.Sscanf(s, "%d.%d.%d.%d/%d", &a, &b, &c, &d, &bits); err != nil {
		return Prefix{}, false
	}

	for _, octet := range []int{a, b, c, d} {
		if octet < 0 || octet > 255 {
			return Prefix{}, false
		}
	}
	if bits < 0 || bits > 32 {
		return Prefix{}, false
	}

	return Prefix{
		IP:   fmt.Sprintf("%d.%d.%d.%d", a, b, c, d),
		Bits: bits,
	}, true
}

// IPToUint32 packs a dotted-quad address into a uint32,
// most-significant octet first.
func IPToUint32(ip string) (uint32, bool) {
	p, ok := Parse(ip + "/32")
	if !ok {
		return 0, false
	}
	return p.addr(), true
}

// addr returns the address part as a uint32. Parse guarantees the
// format, so scan errors cannot occur here.
func (p Prefix) addr() uint32 {
	var a, b, c, d uint32
	_, _ = fmt.Sscanf(p.IP, "%d.%d.%d.%d", &a, &b, &c, &d)
	return a<<24 | b<<16 | c<<8 | d
}

// mask returns the network mask for the prefix length. The prefix 0
// branch is explicit: the whole-space mask is zero, and relying on
// shift-by-32 semantics would obscure the boundary case.
func (p Prefix) mask() uint32 {
	if p.Bits == 0 {
		return 0
	}
	return ^uint32(0) << (32 - p.Bits)
}

// network returns the network address (IP masked to the prefix).
func (p Prefix) network() uint32 {
	return p.addr() & p.mask()
}

// broadcast returns the highest address in the range.
func (p Prefix) broadcast() uint32 {
	return p.network() | ^p.mask()
}

// IsWithin reports whether the child range is entirely contained in the
// parent range. A child with a shorter (more general) prefix is never
// within the parent, even when the addresses coincide.
func IsWithin(child, parent string) bool {
	c, ok := Parse(child)
	if !ok {
		return false
	}
	p, ok := Parse(parent)
	if !ok {
		return false
	}

	if c.Bits < p.Bits {
		return false
	}

	return c.network()&p.mask() == p.network()
}

// Overlap reports whether two ranges share any address. Standard
// interval test on the [network, broadcast] integer ranges.
func Overlap(a, b string) bool {
	pa, ok := Parse(a)
	if !ok {
		return false
	}
	pb, ok := Parse(b)
	if !ok {
		return false
	}

	return pa.network() <= pb.broadcast() && pb.network() <= pa.broadcast()
}
