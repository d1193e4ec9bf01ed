// Package database provides the snapshot store and its initializer.
//
// Two backends share one fixed schema:
//   - SQLite (default): a local file, created on open
//   - PostgreSQL: a pgx connection pool
//
// Open always runs CREATE TABLE IF NOT EXISTS before returning, so the table
// exists before the first write. Stores are append-only: rows are inserted,
// never updated or deleted, and no key or index is declared.
package database
