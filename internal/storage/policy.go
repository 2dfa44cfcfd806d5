package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sentrypass/sentrypass/internal/model"
	"github.com/sentrypass/sentrypass/internal/ports"
)

// PolicyStore implements ports.PolicyStore over the policies and
// policy_versions tables. A corrupt or undecodable "current" row is
// treated as absent per §4.5, never surfaced as an error, so a single
// damaged row cannot wedge the fleet.
type PolicyStore struct {
	db *DB
}

// NewPolicyStore returns a PolicyStore backed by db.
func NewPolicyStore(db *DB) *PolicyStore {
	return &PolicyStore{db: db}
}

// Upsert atomically replaces the current row for
// (app_id, app_version, env, device_platform) and appends an immutable
// history row, per §4.5. Both writes happen inside one DB transaction
// guarded by the writer mutex, so a failure midway leaves neither visible.
func (s *PolicyStore) Upsert(ctx context.Context, policy model.PolicySet, devicePlatform, signature, issuedAt string) (time.Time, error) {
	dto := model.NewPolicyDTO(policy, signature, issuedAt)
	payload, err := json.Marshal(dto)
	if err != nil {
		return time.Time{}, fmt.Errorf("storage: marshal policy: %w", err)
	}

	var storedAt time.Time
	err = s.db.withLock(func() error {
		tx, err := s.db.conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("storage: begin tx: %w", err)
		}
		defer tx.Rollback() //nolint:errcheck // no-op once committed

		// Fixed-width fractional seconds so the stored text sorts
		// chronologically for ListVersions' ORDER BY stored_at.
		storedAt = time.Now().UTC()
		storedAtStr := storedAt.Format("2006-01-02T15:04:05.000000000Z07:00")

		_, err = tx.ExecContext(ctx, `
			INSERT INTO policies (app_id, app_version, env, device_platform, payload, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (app_id, app_version, env, device_platform)
			DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
		`, policy.AppID, policy.AppVersion, policy.Env, devicePlatform, payload, storedAtStr)
		if err != nil {
			return fmt.Errorf("storage: upsert current policy: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO policy_versions (policy_id, issued_at, device_platform, app_id, app_version, env, payload, stored_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, policy.PolicyID, issuedAt, devicePlatform, policy.AppID, policy.AppVersion, policy.Env, payload, storedAtStr)
		if err != nil {
			return fmt.Errorf("storage: append policy history: %w", err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("storage: commit policy upsert: %w", err)
		}
		return nil
	})
	if err != nil {
		return time.Time{}, err
	}
	return storedAt, nil
}

// GetCurrent returns the current policy row for the given key, or
// ErrNotFound if no row exists or the stored payload cannot be decoded.
func (s *PolicyStore) GetCurrent(ctx context.Context, appID, appVersion, env, devicePlatform string) (*model.PolicyRecord, error) {
	var payload []byte
	var updatedAt string

	row := s.db.conn.QueryRowContext(ctx, `
		SELECT payload, updated_at FROM policies
		WHERE app_id = ? AND app_version = ? AND env = ? AND device_platform = ?
	`, appID, appVersion, env, devicePlatform)

	if err := row.Scan(&payload, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("storage: query current policy: %w", err)
	}

	var dto model.PolicyDTO
	if err := json.Unmarshal(payload, &dto); err != nil {
		s.db.logger.Warn("storage: corrupt current policy row, treating as absent",
			"app_id", appID, "app_version", appVersion, "env", env, "device_platform", devicePlatform)
		return nil, ErrNotFound
	}

	storedAt, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		storedAt = time.Time{}
	}

	return &model.PolicyRecord{
		Policy:         dto.ToPolicySet(),
		DevicePlatform: devicePlatform,
		Signature:      dto.Signature,
		IssuedAt:       dto.IssuedAt,
		StoredAt:       storedAt,
	}, nil
}

// ListCurrent returns current-row policies matching filter's non-empty
// fields, for GET /v1/policies. Unlike ListVersions this reads the
// policies table (one row per key), not the history table.
func (s *PolicyStore) ListCurrent(ctx context.Context, filter ports.PolicyVersionFilter) ([]model.PolicyRecord, error) {
	var clauses []string
	var args []any

	if filter.AppID != "" {
		clauses = append(clauses, "app_id = ?")
		args = append(args, filter.AppID)
	}
	if filter.AppVersion != "" {
		clauses = append(clauses, "app_version = ?")
		args = append(args, filter.AppVersion)
	}
	if filter.Env != "" {
		clauses = append(clauses, "env = ?")
		args = append(args, filter.Env)
	}
	if filter.DevicePlatform != "" {
		clauses = append(clauses, "device_platform = ?")
		args = append(args, filter.DevicePlatform)
	}

	query := "SELECT device_platform, payload, updated_at FROM policies"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	rows, err := s.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: query current policies: %w", err)
	}
	defer rows.Close()

	var records []model.PolicyRecord
	for rows.Next() {
		var devicePlatform, updatedAtStr string
		var payload []byte
		if err := rows.Scan(&devicePlatform, &payload, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("storage: scan current policy: %w", err)
		}

		var dto model.PolicyDTO
		if err := json.Unmarshal(payload, &dto); err != nil {
			s.db.logger.Warn("storage: corrupt current policy row, skipping", "device_platform", devicePlatform)
			continue
		}

		updatedAt, err := time.Parse(time.RFC3339Nano, updatedAtStr)
		if err != nil {
			updatedAt = time.Time{}
		}

		records = append(records, model.PolicyRecord{
			Policy:         dto.ToPolicySet(),
			DevicePlatform: devicePlatform,
			Signature:      dto.Signature,
			IssuedAt:       dto.IssuedAt,
			StoredAt:       updatedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: iterate current policies: %w", err)
	}

	return records, nil
}

// ListVersions returns history rows matching filter's non-empty fields,
// newest-first by stored_at.
func (s *PolicyStore) ListVersions(ctx context.Context, filter ports.PolicyVersionFilter) ([]model.PolicyRecord, error) {
	var clauses []string
	var args []any

	if filter.AppID != "" {
		clauses = append(clauses, "app_id = ?")
		args = append(args, filter.AppID)
	}
	if filter.AppVersion != "" {
		clauses = append(clauses, "app_version = ?")
		args = append(args, filter.AppVersion)
	}
	if filter.Env != "" {
		clauses = append(clauses, "env = ?")
		args = append(args, filter.Env)
	}
	if filter.DevicePlatform != "" {
		clauses = append(clauses, "device_platform = ?")
		args = append(args, filter.DevicePlatform)
	}

	query := "SELECT device_platform, payload, stored_at FROM policy_versions"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY stored_at DESC"

	rows, err := s.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: query policy versions: %w", err)
	}
	defer rows.Close()

	var records []model.PolicyRecord
	for rows.Next() {
		var devicePlatform, storedAtStr string
		var payload []byte
		if err := rows.Scan(&devicePlatform, &payload, &storedAtStr); err != nil {
			return nil, fmt.Errorf("storage: scan policy version: %w", err)
		}

		var dto model.PolicyDTO
		if err := json.Unmarshal(payload, &dto); err != nil {
			s.db.logger.Warn("storage: corrupt policy version row, skipping", "device_platform", devicePlatform)
			continue
		}

		storedAt, err := time.Parse(time.RFC3339Nano, storedAtStr)
		if err != nil {
			storedAt = time.Time{}
		}

		records = append(records, model.PolicyRecord{
			Policy:         dto.ToPolicySet(),
			DevicePlatform: devicePlatform,
			Signature:      dto.Signature,
			IssuedAt:       dto.IssuedAt,
			StoredAt:       storedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: iterate policy versions: %w", err)
	}

	return records, nil
}
