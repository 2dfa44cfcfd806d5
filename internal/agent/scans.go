package agent

import (
	"context"

	"github.com/sentrypass/sentrypass/internal/model"
)

// PerimeterScan inspects external network exposure. Stub: returns no
// findings until a real collaborator is wired in.
type PerimeterScan struct{}

func (PerimeterScan) Name() string { return "perimeter" }

func (PerimeterScan) Run(ctx context.Context) ([]model.Finding, error) {
	return nil, nil
}

// RateLimitScan probes rate-limiting behavior on exposed endpoints. Stub.
type RateLimitScan struct{}

func (RateLimitScan) Name() string { return "rate-limit" }

func (RateLimitScan) Run(ctx context.Context) ([]model.Finding, error) {
	return nil, nil
}

// AuthzScan fuzzes authorization boundaries. Stub.
type AuthzScan struct{}

func (AuthzScan) Name() string { return "authz" }

func (AuthzScan) Run(ctx context.Context) ([]model.Finding, error) {
	return nil, nil
}

// MobileBuildScan inspects a mobile build artifact for hardening gaps
// (debuggable flags, missing obfuscation, exposed symbols). Stub.
type MobileBuildScan struct{}

func (MobileBuildScan) Name() string { return "mobile-build" }

func (MobileBuildScan) Run(ctx context.Context) ([]model.Finding, error) {
	return nil, nil
}
