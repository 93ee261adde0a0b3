package domain

import (
	"context"
	"fmt"
)

type inventoryService struct {
	collector *Collector
	snapshots SnapshotStore
}

func NewInventoryService(collector *Collector, snapshots SnapshotStore) InventoryService {
	return &inventoryService{
		collector: collector,
		snapshots: snapshots,
	}
}

func (s *inventoryService) Collect(ctx context.Context) (CollectionResult, error) {
	result := s.collector.Collect(ctx)
	if err := s.snapshots.Save(ctx, result.Inventory); err != nil {
		return result, fmt.Errorf("persist snapshot: %w", err)
	}
	return result, nil
}

func (s *inventoryService) Inventory(ctx context.Context) (Inventory, error) {
	inv, err := s.snapshots.Load(ctx)
	if err != nil {
		return nil, snapshotErr(err)
	}
	return inv, nil
}

func (s *inventoryService) Analyze(ctx context.Context, withOverlaps bool) (Analysis, error) {
	inv, err := s.Inventory(ctx)
	if err != nil {
		return Analysis{}, err
	}

	analysis := Analysis{Report: Detect(inv)}
	if withOverlaps {
		analysis.Overlaps = FindOverlaps(inv)
	}
	return analysis, nil
}
