package agent_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sentrypass/sentrypass/internal/agent"
	"github.com/sentrypass/sentrypass/internal/model"
)

func TestBuildPayload_ShapeMatchesReportUploadDTO(t *testing.T) {
	report := agent.Report{
		AppID:  "app-1",
		Env:    "production",
		Source: "ci",
		Findings: []model.Finding{
			{Category: "exposed-endpoint", Severity: model.SeverityMedium},
		},
	}
	opts := agent.ReportOptions{AppID: "app-1", Env: "production", Source: "ci"}

	dto, err := agent.BuildPayload(report, opts, time.Date(2026, 7, 29, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotEmpty(t, dto.ReportID)
	require.Equal(t, "app-1", dto.AppID)
	require.Equal(t, "json", dto.Artifacts.Format)
	require.NotEmpty(t, dto.Artifacts.Payload)
	require.Len(t, dto.Findings, 1)
	require.Nil(t, dto.Pipeline)
}

func TestBuildPayload_PipelineInfoOnlyWhenBothFlagsSet(t *testing.T) {
	report := agent.Report{AppID: "app-1", Env: "production", Source: "ci"}
	opts := agent.ReportOptions{AppID: "app-1", Env: "production", Source: "ci", PipelineProvider: "github-actions"}

	dto, err := agent.BuildPayload(report, opts, time.Now())
	require.NoError(t, err)
	require.Nil(t, dto.Pipeline)

	opts.PipelineRunID = "run-42"
	dto, err = agent.BuildPayload(report, opts, time.Now())
	require.NoError(t, err)
	require.NotNil(t, dto.Pipeline)
	require.Equal(t, "github-actions", dto.Pipeline.Provider)
	require.Equal(t, "run-42", dto.Pipeline.RunID)
}

func TestSubmit_SendsBearerTokenAndBody(t *testing.T) {
	var gotAuth string
	var gotBody model.ReportUploadDTO
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	dto := model.ReportUploadDTO{ReportID: "rep-1", AppID: "app-1"}
	err := agent.Submit(context.Background(), server.Client(), server.URL, "secret-token", dto)
	require.NoError(t, err)
	require.Equal(t, "Bearer secret-token", gotAuth)
	require.Equal(t, "rep-1", gotBody.ReportID)
}

func TestSubmit_NonSuccessStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	err := agent.Submit(context.Background(), server.Client(), server.URL, "", model.ReportUploadDTO{})
	require.Error(t, err)
}

func TestSubmit_NoTokenOmitsAuthHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := agent.Submit(context.Background(), server.Client(), server.URL, "", model.ReportUploadDTO{})
	require.NoError(t, err)
	require.Empty(t, gotAuth)
}
