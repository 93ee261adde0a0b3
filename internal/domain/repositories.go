package domain

import "context"

type SnapshotReader interface {
	Load(ctx context.Context) (Inventory, error)
}

type SnapshotWriter interface {
	Save(ctx context.Context, inventory Inventory) error
}

// SnapshotStore persists one inventory at a time. Save fully replaces the
// previous snapshot.
type SnapshotStore interface {
	SnapshotReader
	SnapshotWriter
}
