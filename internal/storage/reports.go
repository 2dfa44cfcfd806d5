package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sentrypass/sentrypass/internal/model"
)

// ReportStore persists uploaded scan reports to the reports table.
type ReportStore struct {
	db *DB
}

// NewReportStore returns a ReportStore backed by db.
func NewReportStore(db *DB) *ReportStore {
	return &ReportStore{db: db}
}

// StoreReport inserts dto into the reports table, ignoring conflicts on
// report_id — duplicate uploads are idempotent, per §4.7.
func (s *ReportStore) StoreReport(ctx context.Context, dto model.ReportUploadDTO) error {
	payload, err := json.Marshal(dto)
	if err != nil {
		return fmt.Errorf("storage: marshal report: %w", err)
	}

	return s.db.withLock(func() error {
		_, err := s.db.conn.ExecContext(ctx, `
			INSERT OR IGNORE INTO reports (report_id, payload, received_at)
			VALUES (?, ?, ?)
		`, dto.ReportID, payload, time.Now().UTC().Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("storage: insert report: %w", err)
		}
		return nil
	})
}
