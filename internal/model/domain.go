// Package model holds the domain types shared by the policy engine, risk
// scorer, telemetry pipeline, pinset evaluator, and the two HTTP services
// that front them.
package model

import "time"

// Platform identifies the mobile OS a device report originates from.
type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAndroid Platform = "android"
)

// DeviceInfo describes the device emitting a telemetry event.
type DeviceInfo struct {
	Platform  Platform
	OSVersion string
	Model     string
}

// SessionInfo carries optional session context for a telemetry event.
type SessionInfo struct {
	SessionID  string
	UserIDHash *string
}

// IntegritySignals are the five boolean device-integrity checks the SDK
// reports on every action.
type IntegritySignals struct {
	Jailbreak     bool
	Root          bool
	Debugger      bool
	Hooking       bool
	ProxyDetected bool
}

// AttestationProvider identifies which platform attestation API produced
// an AttestationResult.
type AttestationProvider string

const (
	AttestationProviderAppAttest     AttestationProvider = "app_attest"
	AttestationProviderPlayIntegrity AttestationProvider = "play_integrity"
	AttestationProviderNone         AttestationProvider = "none"
)

// AttestationStatus is the platform's verdict on device/app integrity.
type AttestationStatus string

const (
	AttestationPass    AttestationStatus = "pass"
	AttestationFail    AttestationStatus = "fail"
	AttestationUnknown AttestationStatus = "unknown"
)

// AttestationResult is the outcome of a platform attestation check.
type AttestationResult struct {
	Provider  AttestationProvider
	Status    AttestationStatus
	Timestamp *string
}

// ActionContext names the client-initiated operation a policy decision is
// being requested for.
type ActionContext struct {
	Name    string
	Context *string
}

// TelemetryEvent is the unit of integrity telemetry the pipeline stamps,
// signs, and ships. Timestamp and Signature are absent until the pipeline
// runs (see internal/telemetry) and present in every persisted or wire row
// thereafter.
type TelemetryEvent struct {
	EventID     string
	AppID       string
	AppVersion  string
	Env         string
	Device      DeviceInfo
	Session     *SessionInfo
	Signals     IntegritySignals
	Attestation *AttestationResult
	Action      ActionContext
	Timestamp   *string
	Signature   *string
}

// TelemetryAuth carries the transport credential attached to an envelope.
type TelemetryAuth struct {
	APIToken *string
}

// TelemetryEnvelope pairs a fully-stamped event with its transport auth.
type TelemetryEnvelope struct {
	Event TelemetryEvent
	Auth  TelemetryAuth
}

// RiskScore is an integer in [0,100] summarizing signal and attestation
// hostility. The zero value is never constructed directly outside this
// package; use NewRiskScore so the clamp invariant always holds.
type RiskScore struct {
	value uint32
}

// NewRiskScore clamps x to [0,100] and returns a RiskScore.
func NewRiskScore(x uint32) RiskScore {
	if x > 100 {
		x = 100
	}
	return RiskScore{value: x}
}

// Value returns the clamped integer score.
func (r RiskScore) Value() uint32 { return r.value }

// Severity is a finding's hostility tier. Numeric weights are only used by
// scoring schemes, never for ordering or comparison of the tier itself.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// SeverityWeight returns the numeric scoring weight for a severity tier.
func SeverityWeight(s Severity) uint32 {
	switch s {
	case SeverityLow:
		return 5
	case SeverityMedium:
		return 10
	case SeverityHigh:
		return 20
	case SeverityCritical:
		return 30
	default:
		return 0
	}
}

// Finding is a single security observation contributing to a risk score.
type Finding struct {
	Category string
	Severity Severity
}

// Decision is the policy engine's output for an evaluated action.
type Decision string

const (
	DecisionAllow  Decision = "ALLOW"
	DecisionStepUp Decision = "STEP_UP"
	DecisionDegrade Decision = "DEGRADE"
	DecisionDeny   Decision = "DENY"
)

// PolicyConditions are the six optional predicates a PolicyRule may declare.
// An absent (nil) field is "don't care" and trivially satisfied.
type PolicyConditions struct {
	AttestationStatus *AttestationStatus
	Debugger          *bool
	Hooking           *bool
	ProxyDetected     *bool
	AppVersion        *string
	RiskScoreGTE      *uint32
}

// PolicyRule is one ordered entry in a PolicySet. A rule with a zero-value
// Conditions matches solely on Action.
type PolicyRule struct {
	Action     string
	Decision   Decision
	Conditions PolicyConditions
}

// PolicySet is an ordered list of rules scoped to (app_id, app_version,
// env). Rule order is semantically significant: first match wins.
type PolicySet struct {
	PolicyID   string
	AppID      string
	AppVersion string
	Env        string
	Rules      []PolicyRule
}

// PolicyRecord is an immutable history entry: a PolicySet plus the device
// platform it was issued for and the timestamp it was stored at.
type PolicyRecord struct {
	Policy         PolicySet
	DevicePlatform string
	Signature      string
	IssuedAt       string
	StoredAt       time.Time
}

// SpkiPinset is the set of SPKI hashes a TLS peer may legitimately present,
// with an optional rotation grace window for the previous set.
type SpkiPinset struct {
	Current            []string
	Previous           []string
	RotatedAt          *time.Time
	RotationWindowDays *int
}
