// Package ports declares the small, single-method interfaces the policy
// engine, risk scorer, and telemetry pipeline use to reach their injected
// collaborators. Clock, Signer, TelemetrySink, and RiskScorer are
// single-method capabilities; PolicyStore groups the four storage
// operations. Implementers may swap any one of these without
// touching the pure domain logic in internal/policyengine, internal/risk,
// internal/pinset, or internal/telemetry.
package ports

import (
	"context"
	"time"

	"github.com/sentrypass/sentrypass/internal/model"
)

// Clock supplies the current instant. Injected so the telemetry pipeline
// is deterministic and testable.
type Clock interface {
	Now() time.Time
}

// Signer produces an opaque signature over a byte payload. Injected so the
// telemetry pipeline never depends on a concrete key-management scheme.
type Signer interface {
	Sign(ctx context.Context, payload []byte) (string, error)
}

// TelemetrySink accepts a fully-stamped envelope for delivery or storage.
type TelemetrySink interface {
	Send(ctx context.Context, envelope model.TelemetryEnvelope) error
}

// PolicyStore is the logical contract of §4.5: atomic upsert with history,
// point lookup of the current row, and filtered version listing.
type PolicyStore interface {
	Upsert(ctx context.Context, policy model.PolicySet, devicePlatform, signature, issuedAt string) (time.Time, error)
	GetCurrent(ctx context.Context, appID, appVersion, env, devicePlatform string) (*model.PolicyRecord, error)
	ListCurrent(ctx context.Context, filter PolicyVersionFilter) ([]model.PolicyRecord, error)
	ListVersions(ctx context.Context, filter PolicyVersionFilter) ([]model.PolicyRecord, error)
}

// PolicyVersionFilter narrows ListVersions to an exact-match conjunction of
// any non-empty subset of its fields.
type PolicyVersionFilter struct {
	AppID          string
	AppVersion     string
	Env            string
	DevicePlatform string
}

// RiskScorer maps signals, attestation, and findings to a bounded score.
// The policy engine treats the result as opaque; different scorers may
// weight findings differently (see internal/risk) as long as they
// document which scheme they implement.
type RiskScorer interface {
	Score(signals model.IntegritySignals, attestation *model.AttestationResult, findings []model.Finding) model.RiskScore
}
