package domain

import (
	"errors"
	"net/netip"
	"testing"
)

func TestCanonicalizeMasksHostBits(t *testing.T) {
	tests := []struct {
		addr string
		bits int
		want NetworkPrefix
	}{
		{"10.0.5.7", 24, "10.0.5.0/24"},
		{"10.0.5.1", 24, "10.0.5.0/24"},
		{"192.168.1.200", 32, "192.168.1.200/32"},
		{"172.17.0.2", 16, "172.17.0.0/16"},
		{"10.1.2.3", 0, "0.0.0.0/0"},
		{"fd00:1:2:3::42", 64, "fd00:1:2:3::/64"},
		{"fe80::42:acff:fe11:2", 64, "fe80::/64"},
	}

	for _, tt := range tests {
		got, err := Canonicalize(netip.MustParseAddr(tt.addr), tt.bits)
		if err != nil {
			t.Fatalf("%s/%d: unexpected error %v", tt.addr, tt.bits, err)
		}
		if got != tt.want {
			t.Fatalf("%s/%d: expected %s, got %s", tt.addr, tt.bits, tt.want, got)
		}
	}
}

func TestCanonicalizeIsIdempotent(t *testing.T) {
	for _, in := range []string{"10.0.5.7/24", "100.64.3.9/10", "2001:db8::dead:beef/48", "10.0.0.1/31"} {
		p := netip.MustParsePrefix(in)
		once, err := Canonicalize(p.Addr(), p.Bits())
		if err != nil {
			t.Fatalf("%s: %v", in, err)
		}

		parsed, err := once.Parse()
		if err != nil {
			t.Fatalf("%s: canonical form does not parse: %v", in, err)
		}
		twice, err := Canonicalize(parsed.Addr(), parsed.Bits())
		if err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if once != twice {
			t.Fatalf("%s: expected %s after second pass, got %s", in, once, twice)
		}
	}
}

func TestCanonicalizeRejectsOutOfRangeBits(t *testing.T) {
	_, err := Canonicalize(netip.MustParseAddr("10.0.0.1"), 33)
	if !errors.Is(err, ErrInvalidPrefix) {
		t.Fatalf("expected ErrInvalidPrefix, got %v", err)
	}

	_, err = Canonicalize(netip.Addr{}, 24)
	if !errors.Is(err, ErrInvalidPrefix) {
		t.Fatalf("expected ErrInvalidPrefix for missing address, got %v", err)
	}
}

func TestParseAssignment(t *testing.T) {
	a, err := ParseAssignment("", 24)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if a.Complete() {
		t.Fatal("assignment without address must be incomplete")
	}

	a, err = ParseAssignment("10.0.0.1", NoPrefixLen)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if a.Complete() {
		t.Fatal("assignment without prefix length must be incomplete")
	}

	a, err = ParseAssignment("10.0.0.1", 8)
	if err != nil || !a.Complete() {
		t.Fatalf("expected complete assignment, got %+v, %v", a, err)
	}

	if _, err = ParseAssignment("not-an-ip", 8); err == nil {
		t.Fatal("expected error for unparsable address")
	}
}
