package model

import "time"

// APIResponse is the standard response envelope for all HTTP API responses.
// The original backend returns bare status objects (e.g. {"status":"ok"});
// that shape is preserved as Data here so the documented wire strings never
// change, while every response still carries request metadata the way the
// rest of this codebase's ambient stack does.
type APIResponse struct {
	Data any          `json:"data,omitempty"`
	Meta ResponseMeta `json:"meta"`
}

// APIError is the standard error response envelope.
type APIError struct {
	Error ErrorDetail  `json:"error"`
	Meta  ResponseMeta `json:"meta"`
}

// ResponseMeta contains request metadata included in every response.
type ResponseMeta struct {
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorDetail describes an API error.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorCode constants for standard API error codes.
const (
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// StatusOK is the bare {"status":"ok"} body used by the telemetry-ingest
// and health endpoints, wrapped in APIResponse.Data. The policy-upsert
// endpoint returns PolicyUpsertResponse, which adds stored_at.
type StatusOK struct {
	Status string `json:"status"`
}

// StatusAccepted is the bare {"status":"accepted"} body used by the report
// intake endpoint, wrapped in APIResponse.Data.
type StatusAccepted struct {
	Status string `json:"status"`
}
