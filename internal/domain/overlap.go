package domain

import (
	"cmp"
	"net/netip"
	"slices"

	"go4.org/netipx"
)

// FindOverlaps reports every pair of distinct networks in inv where one
// contains the other, outer first. Exact duplicates are left to Detect and
// entries that do not parse as prefixes are ignored.
func FindOverlaps(inv Inventory) []Overlap {
	seen := make(map[netip.Prefix]struct{}, len(inv))
	prefixes := make([]netip.Prefix, 0, len(inv))
	for _, entry := range inv {
		p, err := entry.Parse()
		if err != nil {
			continue
		}
		p = p.Masked()
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		prefixes = append(prefixes, p)
	}

	slices.SortFunc(prefixes, func(a, b netip.Prefix) int {
		if c := a.Addr().Compare(b.Addr()); c != 0 {
			return c
		}
		return cmp.Compare(a.Bits(), b.Bits())
	})

	overlaps := []Overlap{}
	// open holds the prefixes whose range still covers the sweep position;
	// each one contains the next.
	var open []netip.Prefix
	for _, p := range prefixes {
		for len(open) > 0 && netipx.PrefixLastIP(open[len(open)-1]).Less(p.Addr()) {
			open = open[:len(open)-1]
		}
		for _, outer := range open {
			overlaps = append(overlaps, Overlap{
				Outer: NetworkPrefix(outer.String()),
				Inner: NetworkPrefix(p.String()),
			})
		}
		open = append(open, p)
	}
	return overlaps
}
