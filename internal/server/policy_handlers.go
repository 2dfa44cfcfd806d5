package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sentrypass/sentrypass/internal/model"
	"github.com/sentrypass/sentrypass/internal/ports"
	"github.com/sentrypass/sentrypass/internal/storage"
	"github.com/sentrypass/sentrypass/internal/validation"
)

// PolicyHandlers implements the policy service's HTTP surface: §6's
// /v1/policies* and /v1/reports/upload endpoints.
type PolicyHandlers struct {
	Store               ports.PolicyStore
	ReportStore         *storage.ReportStore
	Clock               ports.Clock
	Logger              *slog.Logger
	MaxRequestBodyBytes int64
}

// defaultPolicy synthesizes the safe default policy returned when no
// stored row exists for a key, per §6: one StepUp rule on "login" with
// conditions {debugger:false, hooking:false, proxy_detected:false},
// signature "stub". Its exact shape is taken from original_source's
// default-policy seeding, not invented here.
func defaultPolicy(appID, appVersion, env string, now time.Time) model.PolicyDTO {
	f := false
	policy := model.PolicySet{
		PolicyID:   "default",
		AppID:      appID,
		AppVersion: appVersion,
		Env:        env,
		Rules: []model.PolicyRule{
			{
				Action:   "login",
				Decision: model.DecisionStepUp,
				Conditions: model.PolicyConditions{
					Debugger:      &f,
					Hooking:       &f,
					ProxyDetected: &f,
				},
			},
		},
	}
	return model.NewPolicyDTO(policy, "stub", now.UTC().Format(time.RFC3339))
}

// HandleGetCurrentPolicy implements GET /v1/policies/current.
func (h *PolicyHandlers) HandleGetCurrentPolicy(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	appID, appVersion, env, devicePlatform := q.Get("app_id"), q.Get("app_version"), q.Get("env"), q.Get("device_platform")
	if appID == "" || appVersion == "" || env == "" || devicePlatform == "" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "app_id, app_version, env, and device_platform are all required")
		return
	}

	record, err := h.Store.GetCurrent(r.Context(), appID, appVersion, env, devicePlatform)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, r, http.StatusOK, defaultPolicy(appID, appVersion, env, h.Clock.Now()))
			return
		}
		writeInternalError(h.Logger, w, r, "get current policy failed", err)
		return
	}

	writeJSON(w, r, http.StatusOK, model.NewPolicyDTO(record.Policy, record.Signature, record.IssuedAt))
}

// HandleUpsertPolicy implements POST /v1/policies.
func (h *PolicyHandlers) HandleUpsertPolicy(w http.ResponseWriter, r *http.Request) {
	var req model.PolicyUpsertRequest
	if err := decodeJSON(r, &req, h.MaxRequestBodyBytes); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid request body")
		return
	}
	if err := validation.Policy(req.Policy); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, err.Error())
		return
	}

	storedAt, err := h.Store.Upsert(r.Context(), req.Policy.ToPolicySet(), req.DevicePlatform, req.Policy.Signature, req.Policy.IssuedAt)
	if err != nil {
		writeInternalError(h.Logger, w, r, "policy upsert failed", err)
		return
	}

	writeJSON(w, r, http.StatusOK, model.PolicyUpsertResponse{
		Status:   "ok",
		StoredAt: storedAt.UTC().Format(time.RFC3339Nano),
	})
}

// HandleListPolicies implements GET /v1/policies.
func (h *PolicyHandlers) HandleListPolicies(w http.ResponseWriter, r *http.Request) {
	filter := filterFromQuery(r)
	records, err := h.Store.ListCurrent(r.Context(), filter)
	if err != nil {
		writeInternalError(h.Logger, w, r, "list policies failed", err)
		return
	}

	entries := make([]model.PolicyEntryDTO, len(records))
	for i, rec := range records {
		entries[i] = model.PolicyEntryDTO{
			DevicePlatform: rec.DevicePlatform,
			Policy:         model.NewPolicyDTO(rec.Policy, rec.Signature, rec.IssuedAt),
		}
	}
	writeJSON(w, r, http.StatusOK, entries)
}

// HandleListPolicyVersions implements GET /v1/policies/versions.
func (h *PolicyHandlers) HandleListPolicyVersions(w http.ResponseWriter, r *http.Request) {
	filter := filterFromQuery(r)
	records, err := h.Store.ListVersions(r.Context(), filter)
	if err != nil {
		writeInternalError(h.Logger, w, r, "list policy versions failed", err)
		return
	}

	versions := make([]model.PolicyVersionDTO, len(records))
	for i, rec := range records {
		versions[i] = model.PolicyVersionDTO{
			DevicePlatform: rec.DevicePlatform,
			Policy:         model.NewPolicyDTO(rec.Policy, rec.Signature, rec.IssuedAt),
			StoredAt:       rec.StoredAt.UTC().Format(time.RFC3339Nano),
		}
	}
	writeJSON(w, r, http.StatusOK, versions)
}

// HandleUploadReport implements POST /v1/reports/upload.
func (h *PolicyHandlers) HandleUploadReport(w http.ResponseWriter, r *http.Request) {
	var dto model.ReportUploadDTO
	if err := decodeJSON(r, &dto, h.MaxRequestBodyBytes); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid request body")
		return
	}
	if err := validation.ReportUpload(dto); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidInput, err.Error())
		return
	}

	if err := h.ReportStore.StoreReport(r.Context(), dto); err != nil {
		writeInternalError(h.Logger, w, r, "report upload failed", err)
		return
	}

	writeJSON(w, r, http.StatusOK, model.StatusAccepted{Status: "accepted"})
}

// HandleHealth implements GET /health.
func (h *PolicyHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, model.StatusOK{Status: "ok"})
}

func filterFromQuery(r *http.Request) ports.PolicyVersionFilter {
	q := r.URL.Query()
	return ports.PolicyVersionFilter{
		AppID:          q.Get("app_id"),
		AppVersion:     q.Get("app_version"),
		Env:            q.Get("env"),
		DevicePlatform: q.Get("device_platform"),
	}
}

// NewPolicyServer builds the policy service's mux and middleware chain.
func NewPolicyServer(h *PolicyHandlers, token string, port int, readTimeout, writeTimeout time.Duration) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/policies/current", h.HandleGetCurrentPolicy)
	mux.HandleFunc("POST /v1/policies", h.HandleUpsertPolicy)
	mux.HandleFunc("GET /v1/policies", h.HandleListPolicies)
	mux.HandleFunc("GET /v1/policies/versions", h.HandleListPolicyVersions)
	mux.HandleFunc("POST /v1/reports/upload", h.HandleUploadReport)
	mux.HandleFunc("GET /health", h.HandleHealth)

	handler := wrapChain(h.Logger, token, mux)
	return newHTTPServer(port, readTimeout, writeTimeout, handler, h.Logger)
}
