// Package storage persists policies, policy history, telemetry events, and
// uploaded reports to an embedded SQLite database. Each service opens its
// own database file through a single *sql.DB connection; writers serialize through an
// explicit mutex rather than relying on SQLite's own file locking, per
// §5's "serializing lock, one writer at a time" requirement — this
// mirrors the original backend's Arc<Mutex<Connection>> rather than
// trusting the driver's internal locking to document the same guarantee.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("storage: not found")

// DB wraps a single SQLite connection behind an explicit writer mutex.
type DB struct {
	conn   *sql.DB
	mu     sync.Mutex
	logger *slog.Logger
}

// New opens (creating if absent) the SQLite database at path and verifies
// connectivity with a ping.
func New(ctx context.Context, path string, logger *slog.Logger) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	// A single physical connection avoids SQLITE_BUSY from concurrent
	// writers; the explicit mutex below serializes application-level writes
	// before they ever reach the driver.
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("storage: ping %s: %w", path, err)
	}

	return &DB{conn: conn, logger: logger}, nil
}

// Close releases the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// withLock runs fn while holding the writer mutex, serializing all
// mutating operations into one critical section per §5.
func (db *DB) withLock(fn func() error) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	return fn()
}
