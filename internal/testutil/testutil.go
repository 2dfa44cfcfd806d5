// Package testutil provides shared test helpers: an in-memory SQLite
// database pre-loaded with a service's migrations, and a discard logger.
package testutil

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sentrypass/sentrypass/internal/storage"
)

// TestLogger returns a slog.Logger that discards all output.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewTestDB opens an in-memory SQLite database and applies migrationsFS,
// returning it ready for use. The database is closed automatically when
// the test completes.
func NewTestDB(t *testing.T, migrationsFS fs.FS) *storage.DB {
	t.Helper()

	db, err := storage.New(context.Background(), ":memory:", TestLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.RunMigrations(context.Background(), migrationsFS))
	return db
}
