package domain

import (
	"context"
	"errors"
	"fmt"
)

// Detect reports every prefix that appears at least twice, once each, in
// first-seen order. Only textually identical prefixes collide; see
// FindOverlaps for containment.
func Detect(inv Inventory) CollisionReport {
	counts := make(map[NetworkPrefix]int, len(inv))
	order := make([]NetworkPrefix, 0, len(inv))
	for _, prefix := range inv {
		if counts[prefix] == 0 {
			order = append(order, prefix)
		}
		counts[prefix]++
	}

	report := CollisionReport{Collisions: []Collision{}}
	for _, prefix := range order {
		if n := counts[prefix]; n >= 2 {
			report.Collisions = append(report.Collisions, Collision{Prefix: prefix, Count: n})
		}
	}
	return report
}

// DetectSnapshot loads a persisted inventory and runs Detect on it. Any load
// failure is reported as ErrSnapshotUnavailable.
func DetectSnapshot(ctx context.Context, snapshots SnapshotReader) (CollisionReport, error) {
	inv, err := snapshots.Load(ctx)
	if err != nil {
		return CollisionReport{}, snapshotErr(err)
	}
	return Detect(inv), nil
}

func snapshotErr(err error) error {
	if errors.Is(err, ErrSnapshotUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrSnapshotUnavailable, err)
}
