package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sentrypass/sentrypass/internal/model"
	"github.com/sentrypass/sentrypass/internal/storage"
	"github.com/sentrypass/sentrypass/internal/validation"
)

// TelemetryHandlers implements the telemetry service's HTTP surface: §6's
// /v1/telemetry/events endpoint.
//
// The pipeline that stamps timestamp and signature runs on the SDK side
// (internal/telemetry.Pipeline), not here: by the time an event reaches
// this service it is already a complete envelope ready for the sink. This
// handler IS that sink's wire boundary — it validates the already-stamped
// DTO and persists it, at-most-once by event_id.
type TelemetryHandlers struct {
	EventStore          *storage.EventStore
	Logger              *slog.Logger
	MaxRequestBodyBytes int64
}

// HandleIngestEvent implements POST /v1/telemetry/events.
func (h *TelemetryHandlers) HandleIngestEvent(w http.ResponseWriter, r *http.Request) {
	var dto model.TelemetryEventDTO
	if err := decodeJSON(r, &dto, h.MaxRequestBodyBytes); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid request body")
		return
	}
	if err := validation.TelemetryEvent(dto); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, err.Error())
		return
	}

	envelope := model.TelemetryEnvelope{Event: dto.Domain()}
	if err := h.EventStore.Send(r.Context(), envelope); err != nil {
		writeInternalError(h.Logger, w, r, "telemetry ingest failed", err)
		return
	}

	writeJSON(w, r, http.StatusOK, model.StatusOK{Status: "ok"})
}

// HandleHealth implements GET /health.
func (h *TelemetryHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, model.StatusOK{Status: "ok"})
}

// NewTelemetryServer builds the telemetry service's mux and middleware chain.
func NewTelemetryServer(h *TelemetryHandlers, token string, port int, readTimeout, writeTimeout time.Duration) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/telemetry/events", h.HandleIngestEvent)
	mux.HandleFunc("GET /health", h.HandleHealth)

	handler := wrapChain(h.Logger, token, mux)
	return newHTTPServer(port, readTimeout, writeTimeout, handler, h.Logger)
}
