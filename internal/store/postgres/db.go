// Package postgres implements the batch persister (C7) and the progress
// tracker's storage (C8): a pooled Postgres connection plus upsert-batch
// writers for the raw and enriched tables, grounded on the enrichment
// source's repository/postgres package connection setup, generalized from
// its read-query repository to a write-heavy batch upserter.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// PoolConfig configures the process-wide connection pool (spec.md §4.7,
// "one process-wide pool, max 10, idle timeout short").
type PoolConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
}

// DefaultPoolConfig returns the spec's pool sizing for the given DSN.
func DefaultPoolConfig(dsn string) PoolConfig {
	return PoolConfig{
		DSN:             dsn,
		MaxOpenConns:    10,
		MaxIdleConns:    10,
		ConnMaxIdleTime: 30 * time.Second,
	}
}

// DB wraps the pooled connection used by both the raw/enriched batch
// writers and the progress tracker.
type DB struct {
	*sqlx.DB
	logger *slog.Logger
}

// Open connects to Postgres via pgx's database/sql driver and applies the
// pool policy. The connection is pinged once so a misconfigured DSN fails
// fast at startup rather than on the first query.
func Open(cfg PoolConfig, logger *slog.Logger) (*DB, error) {
	db, err := sqlx.Connect("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("postgres connected", "max_open_conns", cfg.MaxOpenConns)

	return &DB{DB: db, logger: logger}, nil
}

// Close closes the pool. Called once at shutdown (spec.md §5,
// "Process-wide singletons").
func (db *DB) Close() error {
	db.logger.Info("closing postgres pool")
	return db.DB.Close()
}

// NewForTest wraps an already-open *sqlx.DB (e.g. against a migrated test
// database), bypassing Open's dial/ping. Grounded on the enrichment
// source's NewDBForTest test helper.
func NewForTest(sqlxDB *sqlx.DB, logger *slog.Logger) *DB {
	if logger == nil {
		logger = slog.Default()
	}
	return &DB{DB: sqlxDB, logger: logger}
}
