package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sentrypass/sentrypass/internal/model"
)

// EventStore persists signed telemetry envelopes to the events table.
type EventStore struct {
	db *DB
}

// NewEventStore returns an EventStore backed by db.
func NewEventStore(db *DB) *EventStore {
	return &EventStore{db: db}
}

// Send implements ports.TelemetrySink. Insertion is idempotent on
// event_id: a duplicate is a successful no-op, not an error, per §7.
func (s *EventStore) Send(ctx context.Context, envelope model.TelemetryEnvelope) error {
	dto, err := envelope.Event.ToDTO()
	if err != nil {
		return fmt.Errorf("storage: stamp event for storage: %w", err)
	}

	payload, err := json.Marshal(dto)
	if err != nil {
		return fmt.Errorf("storage: marshal event: %w", err)
	}

	return s.db.withLock(func() error {
		_, err := s.db.conn.ExecContext(ctx, `
			INSERT OR IGNORE INTO events (event_id, payload, received_at)
			VALUES (?, ?, ?)
		`, dto.EventID, payload, time.Now().UTC().Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("storage: insert event: %w", err)
		}
		return nil
	})
}
