package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sentrypass/sentrypass/internal/model"
	"github.com/sentrypass/sentrypass/internal/ports"
	"github.com/sentrypass/sentrypass/internal/storage"
	"github.com/sentrypass/sentrypass/internal/testutil"
	policymigrations "github.com/sentrypass/sentrypass/migrations/policy"
	telemetrymigrations "github.com/sentrypass/sentrypass/migrations/telemetry"
)

func testPolicy() model.PolicySet {
	return model.PolicySet{
		PolicyID:   "pol-1",
		AppID:      "app-1",
		AppVersion: "1.0.0",
		Env:        "production",
		Rules: []model.PolicyRule{
			{Action: "login", Decision: model.DecisionStepUp},
		},
	}
}

func TestPolicyStore_UpsertThenGetCurrent(t *testing.T) {
	db := testutil.NewTestDB(t, policymigrations.FS)
	store := storage.NewPolicyStore(db)
	ctx := context.Background()

	_, err := store.Upsert(ctx, testPolicy(), "ios", "stub-sig", "2026-07-29T12:00:00Z")
	require.NoError(t, err)

	record, err := store.GetCurrent(ctx, "app-1", "1.0.0", "production", "ios")
	require.NoError(t, err)
	require.Equal(t, "pol-1", record.Policy.PolicyID)
	require.Equal(t, "stub-sig", record.Signature)
	require.Equal(t, "ios", record.DevicePlatform)
	require.Len(t, record.Policy.Rules, 1)
}

func TestPolicyStore_GetCurrent_AbsentWhenNoRow(t *testing.T) {
	db := testutil.NewTestDB(t, policymigrations.FS)
	store := storage.NewPolicyStore(db)

	_, err := store.GetCurrent(context.Background(), "no-such-app", "1.0.0", "production", "ios")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPolicyStore_UpsertAppendsHistory(t *testing.T) {
	db := testutil.NewTestDB(t, policymigrations.FS)
	store := storage.NewPolicyStore(db)
	ctx := context.Background()

	policy := testPolicy()
	_, err := store.Upsert(ctx, policy, "ios", "sig-1", "2026-07-29T12:00:00Z")
	require.NoError(t, err)

	policy.Rules = append(policy.Rules, model.PolicyRule{Action: "transfer", Decision: model.DecisionDeny})
	_, err = store.Upsert(ctx, policy, "ios", "sig-2", "2026-07-29T13:00:00Z")
	require.NoError(t, err)

	versions, err := store.ListVersions(ctx, ports.PolicyVersionFilter{AppID: "app-1"})
	require.NoError(t, err)
	require.Len(t, versions, 2)
	// Newest first.
	require.Equal(t, "sig-2", versions[0].Signature)
	require.Equal(t, "sig-1", versions[1].Signature)

	current, err := store.GetCurrent(ctx, "app-1", "1.0.0", "production", "ios")
	require.NoError(t, err)
	require.Len(t, current.Policy.Rules, 2)
}

func TestPolicyStore_ListVersions_FiltersByDevicePlatform(t *testing.T) {
	db := testutil.NewTestDB(t, policymigrations.FS)
	store := storage.NewPolicyStore(db)
	ctx := context.Background()

	_, err := store.Upsert(ctx, testPolicy(), "ios", "sig-ios", "2026-07-29T12:00:00Z")
	require.NoError(t, err)
	_, err = store.Upsert(ctx, testPolicy(), "android", "sig-android", "2026-07-29T12:00:00Z")
	require.NoError(t, err)

	versions, err := store.ListVersions(ctx, ports.PolicyVersionFilter{DevicePlatform: "android"})
	require.NoError(t, err)
	require.Len(t, versions, 1)
	require.Equal(t, "android", versions[0].DevicePlatform)
}

func TestPolicyStore_ListCurrent_ReturnsOneRowPerKey(t *testing.T) {
	db := testutil.NewTestDB(t, policymigrations.FS)
	store := storage.NewPolicyStore(db)
	ctx := context.Background()

	policy := testPolicy()
	_, err := store.Upsert(ctx, policy, "ios", "sig-1", "2026-07-29T12:00:00Z")
	require.NoError(t, err)
	_, err = store.Upsert(ctx, policy, "ios", "sig-2", "2026-07-29T13:00:00Z")
	require.NoError(t, err)

	current, err := store.ListCurrent(ctx, ports.PolicyVersionFilter{AppID: "app-1"})
	require.NoError(t, err)
	require.Len(t, current, 1)
	require.Equal(t, "sig-2", current[0].Signature)
}

func TestEventStore_Send_IdempotentOnEventID(t *testing.T) {
	db := testutil.NewTestDB(t, telemetrymigrations.FS)
	store := storage.NewEventStore(db)
	ctx := context.Background()

	ts := "2026-07-29T12:00:00Z"
	sig := "deadbeef"
	event := model.TelemetryEvent{
		EventID:    "evt-1",
		AppID:      "app-1",
		AppVersion: "1.0.0",
		Env:        "production",
		Device:     model.DeviceInfo{Platform: model.PlatformIOS, OSVersion: "17.0", Model: "iPhone15,2"},
		Action:     model.ActionContext{Name: "login"},
		Timestamp:  &ts,
		Signature:  &sig,
	}
	envelope := model.TelemetryEnvelope{Event: event}

	require.NoError(t, store.Send(ctx, envelope))
	require.NoError(t, store.Send(ctx, envelope)) // duplicate: no error
}

func TestEventStore_Send_RefusesUnstampedEvent(t *testing.T) {
	db := testutil.NewTestDB(t, telemetrymigrations.FS)
	store := storage.NewEventStore(db)

	event := model.TelemetryEvent{EventID: "evt-2"}
	err := store.Send(context.Background(), model.TelemetryEnvelope{Event: event})
	require.Error(t, err)
}

func TestReportStore_StoreReport_IdempotentOnReportID(t *testing.T) {
	db := testutil.NewTestDB(t, policymigrations.FS)
	store := storage.NewReportStore(db)
	ctx := context.Background()

	dto := model.ReportUploadDTO{
		ReportID:  "rep-1",
		AppID:     "app-1",
		Env:       "production",
		Source:    "agent",
		Artifacts: model.ReportArtifactsDTO{Format: "json", Payload: "eyJ9"},
		Timestamp: "2026-07-29T12:00:00Z",
	}

	require.NoError(t, store.StoreReport(ctx, dto))
	require.NoError(t, store.StoreReport(ctx, dto)) // duplicate: no error
}
