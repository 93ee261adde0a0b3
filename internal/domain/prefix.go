package domain

import (
	"fmt"
	"net/netip"
)

// Canonicalize masks addr to bits and returns the resulting network in CIDR
// notation. 10.0.5.7/24 and 10.0.5.1/24 both become 10.0.5.0/24.
func Canonicalize(addr netip.Addr, bits int) (NetworkPrefix, error) {
	if !addr.IsValid() {
		return "", fmt.Errorf("%w: missing address", ErrInvalidPrefix)
	}
	prefix, err := addr.Prefix(bits)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPrefix, err)
	}
	return NetworkPrefix(prefix.String()), nil
}

// ParseAssignment builds an assignment from the textual fields reported by a
// runtime. An empty address or a negative length yields an incomplete
// assignment rather than an error.
func ParseAssignment(address string, bits int) (AddressAssignment, error) {
	a := AddressAssignment{Bits: bits}
	if bits < 0 {
		a.Bits = NoPrefixLen
	}
	if address == "" {
		return a, nil
	}
	addr, err := netip.ParseAddr(address)
	if err != nil {
		return AddressAssignment{}, fmt.Errorf("parse address %q: %w", address, err)
	}
	a.Address = addr
	return a, nil
}
