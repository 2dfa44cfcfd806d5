package pinset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sentrypass/sentrypass/internal/model"
)

func TestIsAllowed_CurrentAlwaysWins(t *testing.T) {
	ps := model.SpkiPinset{Current: []string{"hash-a"}}
	require.True(t, IsAllowed(ps, "hash-a", time.Now()))
}

func TestIsAllowed_PreviousRejectedWithoutRotationMetadata(t *testing.T) {
	ps := model.SpkiPinset{Current: []string{"hash-a"}, Previous: []string{"hash-b"}}
	require.False(t, IsAllowed(ps, "hash-b", time.Now()))
}

func TestIsAllowed_PreviousAllowedInsideRotationWindow(t *testing.T) {
	rotatedAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	window := 7
	ps := model.SpkiPinset{
		Current:            []string{"hash-a"},
		Previous:           []string{"hash-b"},
		RotatedAt:          &rotatedAt,
		RotationWindowDays: &window,
	}

	now := rotatedAt.AddDate(0, 0, 3)
	require.True(t, IsAllowed(ps, "hash-b", now))
}

func TestIsAllowed_RotationBoundaryIsInclusive(t *testing.T) {
	rotatedAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	window := 7
	ps := model.SpkiPinset{
		Current:            []string{"hash-a"},
		Previous:           []string{"hash-b"},
		RotatedAt:          &rotatedAt,
		RotationWindowDays: &window,
	}

	onDeadline := rotatedAt.AddDate(0, 0, 7)
	require.True(t, IsAllowed(ps, "hash-b", onDeadline))

	pastDeadline := onDeadline.Add(time.Second)
	require.False(t, IsAllowed(ps, "hash-b", pastDeadline))
}

func TestIsAllowed_UnknownHashRejected(t *testing.T) {
	ps := model.SpkiPinset{Current: []string{"hash-a"}}
	require.False(t, IsAllowed(ps, "hash-z", time.Now()))
}
