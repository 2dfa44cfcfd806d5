package storage

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// RunMigrations executes all SQL migration files from the provided filesystem in order.
// This is a simple forward-only migration runner for development and testing.
func (db *DB) RunMigrations(ctx context.Context, migrationsFS fs.FS) error {
	entries, err := fs.ReadDir(migrationsFS, ".")
	if err != nil {
		return fmt.Errorf("storage: read migrations dir: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	return db.withLock(func() error {
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
				continue
			}

			content, err := fs.ReadFile(migrationsFS, entry.Name())
			if err != nil {
				return fmt.Errorf("storage: read migration %s: %w", entry.Name(), err)
			}

			db.logger.Info("running migration", "file", entry.Name())
			if _, err := db.conn.ExecContext(ctx, string(content)); err != nil {
				return fmt.Errorf("storage: execute migration %s: %w", entry.Name(), err)
			}
		}
		return nil
	})
}
