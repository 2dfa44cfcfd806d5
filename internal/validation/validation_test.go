package validation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sentrypass/sentrypass/internal/model"
)

func validTelemetryDTO() model.TelemetryEventDTO {
	return model.TelemetryEventDTO{
		EventID:    "evt-1",
		AppID:      "app-1",
		AppVersion: "1.0.0",
		Env:        "production",
		Device:     model.DeviceInfoDTO{Platform: model.PlatformDTOIos, OSVersion: "17.0", Model: "iPhone15,2"},
		Action:     model.ActionContextDTO{Name: "login"},
		Timestamp:  "2026-07-29T12:00:00Z",
		Signature:  "deadbeef",
	}
}

func TestTelemetryEvent_Valid(t *testing.T) {
	require.NoError(t, TelemetryEvent(validTelemetryDTO()))
}

func TestTelemetryEvent_RejectsMissingFields(t *testing.T) {
	cases := map[string]func(*model.TelemetryEventDTO){
		"event_id":          func(d *model.TelemetryEventDTO) { d.EventID = "" },
		"app_id":            func(d *model.TelemetryEventDTO) { d.AppID = "" },
		"app_version":       func(d *model.TelemetryEventDTO) { d.AppVersion = "" },
		"env":               func(d *model.TelemetryEventDTO) { d.Env = "" },
		"device.os_version": func(d *model.TelemetryEventDTO) { d.Device.OSVersion = "" },
		"device.model":      func(d *model.TelemetryEventDTO) { d.Device.Model = "" },
		"action.name":       func(d *model.TelemetryEventDTO) { d.Action.Name = "" },
		"timestamp":         func(d *model.TelemetryEventDTO) { d.Timestamp = "   " },
		"signature":         func(d *model.TelemetryEventDTO) { d.Signature = "" },
	}
	for name, mutate := range cases {
		dto := validTelemetryDTO()
		mutate(&dto)
		err := TelemetryEvent(dto)
		require.Error(t, err, "expected error for missing %s", name)
	}
}

func validPolicyDTO() model.PolicyDTO {
	return model.PolicyDTO{
		PolicyID:   "pol-1",
		AppID:      "app-1",
		AppVersion: "1.0.0",
		Env:        "production",
		Signature:  "stub",
		IssuedAt:   "2026-07-29T12:00:00Z",
		Rules: []model.PolicyRuleDTO{
			{Action: "login", Decision: model.DecisionDTOAllow},
		},
	}
}

func TestPolicy_Valid(t *testing.T) {
	require.NoError(t, Policy(validPolicyDTO()))
}

func TestPolicy_RejectsEmptyRules(t *testing.T) {
	dto := validPolicyDTO()
	dto.Rules = nil
	require.Error(t, Policy(dto))
}

func TestPolicy_RejectsRuleWithEmptyAction(t *testing.T) {
	dto := validPolicyDTO()
	dto.Rules = []model.PolicyRuleDTO{{Action: "", Decision: model.DecisionDTOAllow}}
	require.Error(t, Policy(dto))
}

func TestPolicy_RejectsMissingTopLevelFields(t *testing.T) {
	cases := map[string]func(*model.PolicyDTO){
		"policy_id":   func(d *model.PolicyDTO) { d.PolicyID = "" },
		"app_id":      func(d *model.PolicyDTO) { d.AppID = "" },
		"app_version": func(d *model.PolicyDTO) { d.AppVersion = "" },
		"env":         func(d *model.PolicyDTO) { d.Env = "" },
		"signature":   func(d *model.PolicyDTO) { d.Signature = "" },
		"issued_at":   func(d *model.PolicyDTO) { d.IssuedAt = "" },
	}
	for name, mutate := range cases {
		dto := validPolicyDTO()
		mutate(&dto)
		require.Error(t, Policy(dto), "expected error for missing %s", name)
	}
}

func validReportUploadDTO() model.ReportUploadDTO {
	return model.ReportUploadDTO{
		ReportID:  "rep-1",
		AppID:     "app-1",
		Env:       "production",
		Source:    "agent",
		Artifacts: model.ReportArtifactsDTO{Format: "json", Payload: "eyJ9"},
		Timestamp: "2026-07-29T12:00:00Z",
	}
}

func TestReportUpload_Valid(t *testing.T) {
	require.NoError(t, ReportUpload(validReportUploadDTO()))
}

func TestReportUpload_RejectsMissingFields(t *testing.T) {
	cases := map[string]func(*model.ReportUploadDTO){
		"report_id":         func(d *model.ReportUploadDTO) { d.ReportID = "" },
		"app_id":            func(d *model.ReportUploadDTO) { d.AppID = "" },
		"env":               func(d *model.ReportUploadDTO) { d.Env = "" },
		"source":             func(d *model.ReportUploadDTO) { d.Source = "" },
		"artifacts.format":  func(d *model.ReportUploadDTO) { d.Artifacts.Format = "" },
		"artifacts.payload": func(d *model.ReportUploadDTO) { d.Artifacts.Payload = "" },
		"timestamp":         func(d *model.ReportUploadDTO) { d.Timestamp = "" },
	}
	for name, mutate := range cases {
		dto := validReportUploadDTO()
		mutate(&dto)
		require.Error(t, ReportUpload(dto), "expected error for missing %s", name)
	}
}
