// Package storage is the durable ledger store: per-user CRUD for
// wallets, categories, transactions, goals, users, and sessions on
// SQLite. Every call runs under an enforced timeout and surfaces the
// core error taxonomy instead of raw driver errors.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

// DefaultTimeout bounds a single store call when the caller does not
// configure one.
const DefaultTimeout = 5 * time.Second

// Repository is the SQLite-backed ledger store.
type Repository struct {
	db      *sql.DB
	timeout time.Duration
}

// Open opens (creating if needed) the database at dbPath, runs
// migrations, and returns a ready repository.
func Open(dbPath string, timeout time.Duration) (*Repository, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db, timeout: timeout}, nil
}

// Ping reports whether the database is reachable. Used by readiness
// checks.
func (r *Repository) Ping(ctx context.Context) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()
	if err := r.db.PingContext(ctx); err != nil {
		return storeErr("ping", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// opCtx derives the per-call deadline every query runs under.
func (r *Repository) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// withTx runs fn inside a transaction, rolling back on error. Used by
// every mutation that has to stay atomic (wallet balance adjustments,
// bulk category replace).
func (r *Repository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return storeErr("commit transaction", err)
	}
	return nil
}

// storeErr maps driver-level failures onto the core taxonomy. Anything
// transient (timeouts, locked or closed database) reads as
// StoreUnavailable so the transport can answer 503 and let the client
// retry with backoff.
func storeErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return fmt.Errorf("%s: %w: %v", op, core.ErrStoreUnavailable, err)
	case isConstraint(err):
		return fmt.Errorf("%s: %w: %v", op, core.ErrConflict, err)
	default:
		return fmt.Errorf("%s: %w: %v", op, core.ErrStoreUnavailable, err)
	}
}

func isConstraint(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "CHECK constraint failed") ||
		strings.Contains(msg, "FOREIGN KEY constraint failed")
}
