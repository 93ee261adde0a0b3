package db

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Flarenzy/netcollide/internal/domain"
)

//go:embed schema.sql
var schema string

const snapshotTable = "inventory_snapshot"

// SnapshotRepository keeps the latest inventory in Postgres, one row per
// entry ordered by position.
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

func (r *SnapshotRepository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (r *SnapshotRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Save replaces the stored inventory in a single transaction.
func (r *SnapshotRepository) Save(ctx context.Context, inv domain.Inventory) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM inventory_snapshot`); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}

	rows := make([][]any, 0, len(inv))
	for i, prefix := range inv {
		rows = append(rows, []any{int32(i), string(prefix)})
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{snapshotTable}, []string{"position", "prefix"}, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("copy snapshot rows: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO inventory_snapshot_meta (singleton, saved_at) VALUES (TRUE, now())
		ON CONFLICT (singleton) DO UPDATE SET saved_at = EXCLUDED.saved_at`)
	if err != nil {
		return fmt.Errorf("stamp snapshot: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *SnapshotRepository) Load(ctx context.Context) (domain.Inventory, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT TRUE FROM inventory_snapshot_meta`).Scan(&exists)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("%w: no snapshot stored", domain.ErrSnapshotUnavailable)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrSnapshotUnavailable, err)
	}

	rows, err := r.pool.Query(ctx, `SELECT prefix FROM inventory_snapshot ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSnapshotUnavailable, err)
	}
	prefixes, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSnapshotUnavailable, err)
	}

	inv := make(domain.Inventory, 0, len(prefixes))
	for _, p := range prefixes {
		inv = append(inv, domain.NetworkPrefix(p))
	}
	return inv, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
