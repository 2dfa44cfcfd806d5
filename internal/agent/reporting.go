package agent

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/sentrypass/sentrypass/internal/model"
)

// reportArtifact is the JSON shape embedded (base64-encoded) in a report
// upload's artifacts.payload: the full report, findings included, so the
// raw artifact is self-describing even though the envelope repeats
// app_id/env/findings at the top level.
type reportArtifact struct {
	ReportID string             `json:"report_id"`
	AppID    string             `json:"app_id"`
	Env      string             `json:"env"`
	Source   string             `json:"source"`
	Findings []model.FindingDTO `json:"findings"`
}

// ReportOptions configures report construction and upload.
type ReportOptions struct {
	Endpoint         string
	AppID            string
	Env              string
	Source           string
	PipelineProvider string
	PipelineRunID    string
	Token            string
}

// BuildPayload turns a pipeline Report into the wire ReportUploadDto,
// assigning a fresh report_id and the current timestamp. Upload is
// idempotent on report_id (§7), so a retried build gets a new identity
// rather than silently colliding with a prior attempt.
func BuildPayload(report Report, opts ReportOptions, now time.Time) (model.ReportUploadDTO, error) {
	reportID := uuid.NewString()

	findingDTOs := make([]model.FindingDTO, len(report.Findings))
	for i, f := range report.Findings {
		findingDTOs[i] = f.DTO()
	}

	artifact := reportArtifact{
		ReportID: reportID,
		AppID:    opts.AppID,
		Env:      opts.Env,
		Source:   opts.Source,
		Findings: findingDTOs,
	}
	artifactJSON, err := json.Marshal(artifact)
	if err != nil {
		return model.ReportUploadDTO{}, fmt.Errorf("agent: marshal report artifact: %w", err)
	}

	var pipelineInfo *model.PipelineInfoDTO
	if opts.PipelineProvider != "" && opts.PipelineRunID != "" {
		pipelineInfo = &model.PipelineInfoDTO{Provider: opts.PipelineProvider, RunID: opts.PipelineRunID}
	}

	return model.ReportUploadDTO{
		ReportID: reportID,
		AppID:    opts.AppID,
		Env:      opts.Env,
		Source:   opts.Source,
		Pipeline: pipelineInfo,
		Artifacts: model.ReportArtifactsDTO{
			Format:  "json",
			Payload: base64.StdEncoding.EncodeToString(artifactJSON),
		},
		Findings:  findingDTOs,
		Timestamp: now.UTC().Format(time.RFC3339),
	}, nil
}

// Submit POSTs a report upload DTO to endpoint, attaching bearer auth when
// token is non-empty. A non-2xx response is surfaced as an error; the
// caller is expected to implement its own retry policy (§7: this agent
// does not retry automatically).
func Submit(ctx context.Context, httpClient *http.Client, endpoint, token string, dto model.ReportUploadDTO) error {
	encoded, err := json.Marshal(dto)
	if err != nil {
		return fmt.Errorf("agent: marshal report upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("agent: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("agent: %s %s: %w", req.Method, endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("agent: report upload failed: %s: %s", resp.Status, string(body))
	}
	return nil
}
