package database

import (
	"context"
	"fmt"

	"github.com/rickgao/crypto-snapshots/internal/config"
	"github.com/rickgao/crypto-snapshots/internal/model"
)

// Store appends snapshot rows to the snapshot table.
type Store interface {
	// AppendSnapshots writes rows in one transaction and returns the count.
	AppendSnapshots(ctx context.Context, rows []model.SnapshotRow) (int, error)
	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error
	// Close releases the underlying connections.
	Close() error
}

// Open initializes the configured store and runs the table migration.
// Any error here is fatal to the caller.
func Open(ctx context.Context, cfg config.DatabaseConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		s, err := OpenSQLite(ctx, cfg.SQLite, cfg.Table)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return s, nil
	case config.DriverPostgres:
		s, err := OpenPostgres(ctx, cfg.Postgres, cfg.Table)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
