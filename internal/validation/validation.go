// Package validation implements the field-presence checks of §4.6. Every
// function rejects with a ValidationError naming the first empty field, to
// be surfaced by the HTTP layer as 400 Bad Request with ErrCodeInvalidInput.
package validation

import (
	"fmt"
	"strings"

	"github.com/sentrypass/sentrypass/internal/model"
)

// ValidationError names the field that failed a non-empty check.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s must not be empty", e.Field)
}

func nonEmpty(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field}
	}
	return nil
}

// TelemetryEvent validates a TelemetryEventDTO per §4.6: event_id, app_id,
// app_version, env, device.os_version, device.model, action.name,
// timestamp, and signature must all be non-empty after trimming.
func TelemetryEvent(dto model.TelemetryEventDTO) error {
	checks := []struct {
		field, value string
	}{
		{"event_id", dto.EventID},
		{"app_id", dto.AppID},
		{"app_version", dto.AppVersion},
		{"env", dto.Env},
		{"device.os_version", dto.Device.OSVersion},
		{"device.model", dto.Device.Model},
		{"action.name", dto.Action.Name},
		{"timestamp", dto.Timestamp},
		{"signature", dto.Signature},
	}
	for _, c := range checks {
		if err := nonEmpty(c.field, c.value); err != nil {
			return err
		}
	}
	return nil
}

// Policy validates a PolicyDTO per §4.6: policy_id, app_id, app_version,
// env, signature, and issued_at must be non-empty; rules must be
// non-empty; every rule's action must be non-empty.
func Policy(dto model.PolicyDTO) error {
	checks := []struct {
		field, value string
	}{
		{"policy_id", dto.PolicyID},
		{"app_id", dto.AppID},
		{"app_version", dto.AppVersion},
		{"env", dto.Env},
		{"signature", dto.Signature},
		{"issued_at", dto.IssuedAt},
	}
	for _, c := range checks {
		if err := nonEmpty(c.field, c.value); err != nil {
			return err
		}
	}
	if len(dto.Rules) == 0 {
		return &ValidationError{Field: "rules"}
	}
	for _, rule := range dto.Rules {
		if err := nonEmpty("rule.action", rule.Action); err != nil {
			return err
		}
	}
	return nil
}

// ReportUpload validates a ReportUploadDTO per §4.6: report_id, app_id,
// env, source, artifacts.format, artifacts.payload, and timestamp must
// all be non-empty.
func ReportUpload(dto model.ReportUploadDTO) error {
	checks := []struct {
		field, value string
	}{
		{"report_id", dto.ReportID},
		{"app_id", dto.AppID},
		{"env", dto.Env},
		{"source", dto.Source},
		{"artifacts.format", dto.Artifacts.Format},
		{"artifacts.payload", dto.Artifacts.Payload},
		{"timestamp", dto.Timestamp},
	}
	for _, c := range checks {
		if err := nonEmpty(c.field, c.value); err != nil {
			return err
		}
	}
	return nil
}
