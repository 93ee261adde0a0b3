package domain

import "net/netip"

// NoPrefixLen marks an address assignment whose prefix length was not reported.
const NoPrefixLen = -1

// LoopbackInterface is never inventoried.
const LoopbackInterface = "lo"

// NetworkPrefix is a network in CIDR notation with all host bits zeroed.
type NetworkPrefix string

func (p NetworkPrefix) String() string {
	return string(p)
}

// Parse returns the prefix as a netip.Prefix.
func (p NetworkPrefix) Parse() (netip.Prefix, error) {
	return netip.ParsePrefix(string(p))
}

type Workload struct {
	ID   string
	Name string
}

// Label returns the name when known, otherwise the ID.
func (w Workload) Label() string {
	if w.Name != "" {
		return w.Name
	}
	return w.ID
}

type AddressAssignment struct {
	Address netip.Addr
	Bits    int
}

// Complete reports whether both the address and the prefix length are present.
func (a AddressAssignment) Complete() bool {
	return a.Address.IsValid() && a.Bits >= 0
}

type InterfaceRecord struct {
	Name      string
	Addresses []AddressAssignment
}

// Inventory holds one prefix per observed assignment, in encounter order.
// Duplicates are kept.
type Inventory []NetworkPrefix

type Collision struct {
	Prefix NetworkPrefix
	Count  int
}

type CollisionReport struct {
	Collisions []Collision
}

func (r CollisionReport) Empty() bool {
	return len(r.Collisions) == 0
}

func (r CollisionReport) Prefixes() []NetworkPrefix {
	out := make([]NetworkPrefix, 0, len(r.Collisions))
	for _, c := range r.Collisions {
		out = append(out, c.Prefix)
	}
	return out
}

// Overlap pairs two distinct prefixes where Outer contains Inner.
type Overlap struct {
	Outer NetworkPrefix
	Inner NetworkPrefix
}

type WorkloadFailure struct {
	Workload Workload
	Err      error
}

type CollectionResult struct {
	RunID     string
	Workloads int
	Inventory Inventory
	Failures  []WorkloadFailure
}

// Analysis is the collision verdict for one snapshot, plus containment pairs
// when they were requested.
type Analysis struct {
	Report   CollisionReport
	Overlaps []Overlap
}
