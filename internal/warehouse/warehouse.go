// Package warehouse provides the embedded analytic database the benchmark
// runs against.
//
// It wraps DuckDB behind a small API: schema bootstrap, bulk loads, the
// cross-join inflation step, sampling and catalog introspection. All layout
// experiments (baseline vs tuned tables) execute inside this database.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sync"
	"time"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/xtxerr/colbench/config"
	"github.com/xtxerr/colbench/internal/errors"
)

// Config holds warehouse configuration options.
type Config struct {
	// Path is the database file. Empty means in-memory.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	MaxOpenConns int

	// ConnMaxLifetime is the maximum lifetime of a connection.
	ConnMaxLifetime time.Duration

	// QueryTimeout is the default timeout for statements.
	QueryTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Path:            config.DefaultWarehousePath,
		MaxOpenConns:    config.DefaultMaxOpenConns,
		ConnMaxLifetime: 5 * time.Minute,
		QueryTimeout:    config.DefaultQueryTimeout,
	}
}

// Warehouse provides database operations.
//
// Warehouse is safe for concurrent use.
type Warehouse struct {
	db     *sql.DB
	config Config
	mu     sync.RWMutex
	closed bool
}

// Open opens the warehouse database.
func Open(cfg Config) (*Warehouse, error) {
	db, err := sql.Open("duckdb", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Warehouse{
		db:     db,
		config: cfg,
	}, nil
}

// Close closes the warehouse.
func (w *Warehouse) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	return w.db.Close()
}

// DB returns the underlying database connection.
// Use with caution - prefer using Warehouse methods.
func (w *Warehouse) DB() *sql.DB {
	return w.db
}

// QueryTimeout returns the configured per-statement timeout.
func (w *Warehouse) QueryTimeout() time.Duration {
	return w.config.QueryTimeout
}

// TransactionContext executes a function within a database transaction.
//
// If the function returns an error, the transaction is rolled back.
// If the function returns nil, the transaction is committed.
func (w *Warehouse) TransactionContext(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// identRe matches the lower_snake identifiers this tool works with.
// Table and column names are interpolated into DDL, so anything else
// is rejected up front.
var identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ValidIdent reports whether s is a usable SQL identifier.
func ValidIdent(s string) bool {
	return identRe.MatchString(s)
}

// checkIdent returns an error for identifiers that fail ValidIdent.
func checkIdent(s string) error {
	if !ValidIdent(s) {
		return fmt.Errorf("identifier %q: %w", s, errors.ErrInvalidName)
	}
	return nil
}
