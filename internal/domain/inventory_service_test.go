package domain

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func TestInventoryServiceCollectOverwritesSnapshot(t *testing.T) {
	store := &stubSnapshotStore{inv: Inventory{"172.16.0.0/12"}}
	collector, _ := quietCollector(scenarioSource())
	svc := NewInventoryService(collector, store)

	first, err := svc.Collect(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := svc.Collect(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(store.saved) != 2 {
		t.Fatalf("expected 2 saves, got %d", len(store.saved))
	}
	if !slices.Equal(store.inv, first.Inventory) || !slices.Equal(first.Inventory, second.Inventory) {
		t.Fatalf("expected identical snapshots, got %v then %v", first.Inventory, second.Inventory)
	}
}

func TestInventoryServiceCollectReturnsSaveError(t *testing.T) {
	saveErr := errors.New("disk full")
	collector, _ := quietCollector(scenarioSource())
	svc := NewInventoryService(collector, &stubSnapshotStore{saveErr: saveErr})

	result, err := svc.Collect(context.Background())
	if !errors.Is(err, saveErr) {
		t.Fatalf("expected save error, got %v", err)
	}
	if len(result.Inventory) != 2 {
		t.Fatalf("expected the collected inventory to be returned, got %v", result.Inventory)
	}
}

func TestInventoryServiceAnalyze(t *testing.T) {
	store := &stubSnapshotStore{inv: Inventory{"10.0.0.0/24", "10.0.0.128/25", "10.0.0.0/24"}}
	collector, _ := quietCollector(stubSource{})
	svc := NewInventoryService(collector, store)

	analysis, err := svc.Analyze(context.Background(), false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(analysis.Report.Collisions) != 1 || analysis.Overlaps != nil {
		t.Fatalf("unexpected analysis: %+v", analysis)
	}

	analysis, err = svc.Analyze(context.Background(), true)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(analysis.Overlaps) != 1 || analysis.Overlaps[0] != (Overlap{Outer: "10.0.0.0/24", Inner: "10.0.0.128/25"}) {
		t.Fatalf("unexpected overlaps: %v", analysis.Overlaps)
	}
}

func TestInventoryServiceAnalyzeSnapshotUnavailable(t *testing.T) {
	collector, _ := quietCollector(stubSource{})
	svc := NewInventoryService(collector, &stubSnapshotStore{loadErr: errors.New("unexpected end of JSON input")})

	_, err := svc.Analyze(context.Background(), true)
	if !errors.Is(err, ErrSnapshotUnavailable) {
		t.Fatalf("expected ErrSnapshotUnavailable, got %v", err)
	}
}
