package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/crypto-snapshots/internal/config"
	"github.com/rickgao/crypto-snapshots/internal/model"
)

// PostgresStore is the PostgreSQL snapshot store.
type PostgresStore struct {
	pool   *pgxpool.Pool
	table  string
	insert string
}

// OpenPostgres connects to PostgreSQL and migrates table.
func OpenPostgres(ctx context.Context, cfg config.DBConfig, table string) (*PostgresStore, error) {
	pool, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	s := &PostgresStore{
		pool:   pool,
		table:  table,
		insert: insertSQL(dialectPostgres, table),
	}

	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Connect creates a single connection pool.
func Connect(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	connStr := BuildConnString(cfg)

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// Migrate creates the snapshot table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createTableSQL(dialectPostgres, s.table)); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

// AppendSnapshots inserts rows with a pgx.Batch inside one transaction.
func (s *PostgresStore) AppendSnapshots(ctx context.Context, rows []model.SnapshotRow) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, r := range rows {
			batch.Queue(s.insert, rowArgs(r)...)
		}

		results := tx.SendBatch(ctx, batch)
		for _, r := range rows {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("insert %s: %w", r.CoinID, err)
			}
		}
		return results.Close()
	})
	if err != nil {
		return 0, err
	}

	return len(rows), nil
}

// Ping verifies the connection is healthy.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
