// Package telemetry implements the event pipeline of §4.3: stamping a
// timestamp, computing the canonical signing payload, signing it, and
// handing the resulting envelope to a sink. It holds no state of its own;
// every collaborator is an injected ports.* capability so the pipeline
// stays reentrant as long as its clock, signer, and sink are.
package telemetry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sentrypass/sentrypass/internal/model"
	"github.com/sentrypass/sentrypass/internal/ports"
)

// Pipeline wires a Clock, Signer, and TelemetrySink into the Emit operation.
type Pipeline struct {
	Clock  ports.Clock
	Signer ports.Signer
	Sink   ports.TelemetrySink
}

// Emit runs the six-step pipeline of §4.3 against eventIn and returns the
// fully-stamped envelope. eventIn is not mutated; a copy is stamped and
// returned.
func (p Pipeline) Emit(ctx context.Context, eventIn model.TelemetryEvent, auth model.TelemetryAuth) (model.TelemetryEnvelope, error) {
	event := eventIn

	ts := p.Clock.Now().UTC().Format(time.RFC3339)
	event.Timestamp = &ts

	payload := CanonicalSigningPayload(event)

	signature, err := p.Signer.Sign(ctx, []byte(payload))
	if err != nil {
		return model.TelemetryEnvelope{}, fmt.Errorf("telemetry: sign event: %w", err)
	}
	event.Signature = &signature

	envelope := model.TelemetryEnvelope{Event: event, Auth: auth}

	if err := p.Sink.Send(ctx, envelope); err != nil {
		return model.TelemetryEnvelope{}, fmt.Errorf("telemetry: send envelope: %w", err)
	}

	return envelope, nil
}

// CanonicalSigningPayload returns the stable ASCII string signed over an
// event: event_id:app_id:app_version:env:action.name, colon-separated, no
// trailing separator. This exact form MUST be replicated byte-for-byte
// across implementations to stay compatible with previously signed events.
func CanonicalSigningPayload(event model.TelemetryEvent) string {
	return strings.Join([]string{
		event.EventID,
		event.AppID,
		event.AppVersion,
		event.Env,
		event.Action.Name,
	}, ":")
}
