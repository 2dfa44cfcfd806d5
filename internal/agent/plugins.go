package agent

import (
	"context"

	"github.com/sentrypass/sentrypass/internal/model"
)

// CheckPlugin is an external collaborator that inspects some aspect of a
// deployment and reports findings. Plugins are stubs in this tree: real
// checks (perimeter exposure scans, rate-limit probes, authz fuzzing,
// mobile build artifact inspection) live outside this repo and are wired
// in by name.
type CheckPlugin interface {
	Name() string
	Run(ctx context.Context) ([]model.Finding, error)
}
