package model

// Wire DTOs mirror the domain types but pin the enum case conventions and
// JSON tags the spec requires: attestation/severity/platform lowercased,
// Decision SCREAMING_SNAKE_CASE, unknown fields rejected by the decoder
// (see internal/server's decodeJSON), null fields omitted on encode.

// PlatformDTO is the wire form of Platform.
type PlatformDTO string

const (
	PlatformDTOIos     PlatformDTO = "ios"
	PlatformDTOAndroid PlatformDTO = "android"
)

func (p Platform) DTO() PlatformDTO { return PlatformDTO(p) }
func (p PlatformDTO) Domain() Platform { return Platform(p) }

// AttestationProviderDTO is the wire form of AttestationProvider.
type AttestationProviderDTO string

const (
	AttestationProviderDTOAppAttest     AttestationProviderDTO = "app_attest"
	AttestationProviderDTOPlayIntegrity AttestationProviderDTO = "play_integrity"
	AttestationProviderDTONone          AttestationProviderDTO = "none"
)

func (p AttestationProvider) DTO() AttestationProviderDTO { return AttestationProviderDTO(p) }
func (p AttestationProviderDTO) Domain() AttestationProvider { return AttestationProvider(p) }

// AttestationStatusDTO is the wire form of AttestationStatus.
type AttestationStatusDTO string

const (
	AttestationStatusDTOPass    AttestationStatusDTO = "pass"
	AttestationStatusDTOFail    AttestationStatusDTO = "fail"
	AttestationStatusDTOUnknown AttestationStatusDTO = "unknown"
)

func (s AttestationStatus) DTO() AttestationStatusDTO { return AttestationStatusDTO(s) }
func (s AttestationStatusDTO) Domain() AttestationStatus { return AttestationStatus(s) }

// DecisionDTO is the wire form of Decision, SCREAMING_SNAKE_CASE per §4.6.
type DecisionDTO string

const (
	DecisionDTOAllow   DecisionDTO = "ALLOW"
	DecisionDTOStepUp  DecisionDTO = "STEP_UP"
	DecisionDTODegrade DecisionDTO = "DEGRADE"
	DecisionDTODeny    DecisionDTO = "DENY"
)

func (d Decision) DTO() DecisionDTO { return DecisionDTO(d) }
func (d DecisionDTO) Domain() Decision { return Decision(d) }

// SeverityDTO is the wire form of Severity.
type SeverityDTO string

const (
	SeverityDTOLow      SeverityDTO = "low"
	SeverityDTOMedium   SeverityDTO = "medium"
	SeverityDTOHigh     SeverityDTO = "high"
	SeverityDTOCritical SeverityDTO = "critical"
)

func (s Severity) DTO() SeverityDTO { return SeverityDTO(s) }
func (s SeverityDTO) Domain() Severity { return Severity(s) }

// DeviceInfoDTO is the wire form of DeviceInfo.
type DeviceInfoDTO struct {
	Platform  PlatformDTO `json:"platform"`
	OSVersion string      `json:"os_version"`
	Model     string      `json:"model"`
}

func (d DeviceInfo) DTO() DeviceInfoDTO {
	return DeviceInfoDTO{Platform: d.Platform.DTO(), OSVersion: d.OSVersion, Model: d.Model}
}

func (d DeviceInfoDTO) Domain() DeviceInfo {
	return DeviceInfo{Platform: d.Platform.Domain(), OSVersion: d.OSVersion, Model: d.Model}
}

// SessionInfoDTO is the wire form of SessionInfo.
type SessionInfoDTO struct {
	SessionID  string  `json:"session_id"`
	UserIDHash *string `json:"user_id_hash,omitempty"`
}

func (s SessionInfo) DTO() SessionInfoDTO {
	return SessionInfoDTO{SessionID: s.SessionID, UserIDHash: s.UserIDHash}
}

func (s SessionInfoDTO) Domain() SessionInfo {
	return SessionInfo{SessionID: s.SessionID, UserIDHash: s.UserIDHash}
}

// IntegritySignalsDTO is the wire form of IntegritySignals.
type IntegritySignalsDTO struct {
	Jailbreak     bool `json:"jailbreak"`
	Root          bool `json:"root"`
	Debugger      bool `json:"debugger"`
	Hooking       bool `json:"hooking"`
	ProxyDetected bool `json:"proxy_detected"`
}

func (s IntegritySignals) DTO() IntegritySignalsDTO {
	return IntegritySignalsDTO{
		Jailbreak:     s.Jailbreak,
		Root:          s.Root,
		Debugger:      s.Debugger,
		Hooking:       s.Hooking,
		ProxyDetected: s.ProxyDetected,
	}
}

func (s IntegritySignalsDTO) Domain() IntegritySignals {
	return IntegritySignals{
		Jailbreak:     s.Jailbreak,
		Root:          s.Root,
		Debugger:      s.Debugger,
		Hooking:       s.Hooking,
		ProxyDetected: s.ProxyDetected,
	}
}

// AttestationResultDTO is the wire form of AttestationResult.
type AttestationResultDTO struct {
	Provider  AttestationProviderDTO `json:"provider"`
	Result    AttestationStatusDTO   `json:"result"`
	Timestamp *string                `json:"timestamp,omitempty"`
}

func (a AttestationResult) DTO() AttestationResultDTO {
	return AttestationResultDTO{Provider: a.Provider.DTO(), Result: a.Status.DTO(), Timestamp: a.Timestamp}
}

func (a AttestationResultDTO) Domain() AttestationResult {
	return AttestationResult{Provider: a.Provider.Domain(), Status: a.Result.Domain(), Timestamp: a.Timestamp}
}

// ActionContextDTO is the wire form of ActionContext.
type ActionContextDTO struct {
	Name    string  `json:"name"`
	Context *string `json:"context,omitempty"`
}

func (a ActionContext) DTO() ActionContextDTO {
	return ActionContextDTO{Name: a.Name, Context: a.Context}
}

func (a ActionContextDTO) Domain() ActionContext {
	return ActionContext{Name: a.Name, Context: a.Context}
}

// TelemetryEventDTO is the wire form of TelemetryEvent. Timestamp and
// Signature are required (not pointers) because serializing an event that
// has not yet passed through the pipeline is a programmer error — see
// ToDTO below, which enforces this at the boundary per §4.6.
type TelemetryEventDTO struct {
	EventID     string                `json:"event_id"`
	AppID       string                `json:"app_id"`
	AppVersion  string                `json:"app_version"`
	Env         string                `json:"env"`
	Device      DeviceInfoDTO         `json:"device"`
	Session     *SessionInfoDTO       `json:"session,omitempty"`
	Signals     IntegritySignalsDTO   `json:"signals"`
	Attestation *AttestationResultDTO `json:"attestation,omitempty"`
	Action      ActionContextDTO      `json:"action"`
	Timestamp   string                `json:"timestamp"`
	Signature   string                `json:"signature"`
}

// ToDTO converts a stamped TelemetryEvent to its wire form. Returns an
// error (refusing to serialize) if timestamp or signature is absent,
// enforcing the pipeline's post-condition at the wire boundary per §4.6.
func (e TelemetryEvent) ToDTO() (TelemetryEventDTO, error) {
	if e.Timestamp == nil {
		return TelemetryEventDTO{}, errEvent("timestamp")
	}
	if e.Signature == nil {
		return TelemetryEventDTO{}, errEvent("signature")
	}
	dto := TelemetryEventDTO{
		EventID:    e.EventID,
		AppID:      e.AppID,
		AppVersion: e.AppVersion,
		Env:        e.Env,
		Device:     e.Device.DTO(),
		Signals:    e.Signals.DTO(),
		Action:     e.Action.DTO(),
		Timestamp:  *e.Timestamp,
		Signature:  *e.Signature,
	}
	if e.Session != nil {
		s := e.Session.DTO()
		dto.Session = &s
	}
	if e.Attestation != nil {
		a := e.Attestation.DTO()
		dto.Attestation = &a
	}
	return dto, nil
}

// Domain converts a wire TelemetryEventDTO back to the domain type.
func (d TelemetryEventDTO) Domain() TelemetryEvent {
	e := TelemetryEvent{
		EventID:    d.EventID,
		AppID:      d.AppID,
		AppVersion: d.AppVersion,
		Env:        d.Env,
		Device:     d.Device.Domain(),
		Signals:    d.Signals.Domain(),
		Action:     d.Action.Domain(),
		Timestamp:  &d.Timestamp,
		Signature:  &d.Signature,
	}
	if d.Session != nil {
		s := d.Session.Domain()
		e.Session = &s
	}
	if d.Attestation != nil {
		a := d.Attestation.Domain()
		e.Attestation = &a
	}
	return e
}

func errEvent(field string) error {
	return &dtoError{field: field}
}

type dtoError struct{ field string }

func (e *dtoError) Error() string {
	return "telemetry." + e.field + " is required"
}

// PolicyConditionsDTO is the wire form of PolicyConditions.
type PolicyConditionsDTO struct {
	Attestation   *AttestationStatusDTO `json:"attestation,omitempty"`
	Debugger      *bool                 `json:"debugger,omitempty"`
	Hooking       *bool                 `json:"hooking,omitempty"`
	ProxyDetected *bool                 `json:"proxy_detected,omitempty"`
	AppVersion    *string               `json:"app_version,omitempty"`
	RiskScoreGTE  *uint32               `json:"risk_score_gte,omitempty"`
}

func (c PolicyConditions) DTO() PolicyConditionsDTO {
	dto := PolicyConditionsDTO{
		Debugger:      c.Debugger,
		Hooking:       c.Hooking,
		ProxyDetected: c.ProxyDetected,
		AppVersion:    c.AppVersion,
		RiskScoreGTE:  c.RiskScoreGTE,
	}
	if c.AttestationStatus != nil {
		s := c.AttestationStatus.DTO()
		dto.Attestation = &s
	}
	return dto
}

func (c PolicyConditionsDTO) Domain() PolicyConditions {
	cond := PolicyConditions{
		Debugger:      c.Debugger,
		Hooking:       c.Hooking,
		ProxyDetected: c.ProxyDetected,
		AppVersion:    c.AppVersion,
		RiskScoreGTE:  c.RiskScoreGTE,
	}
	if c.Attestation != nil {
		s := c.Attestation.Domain()
		cond.AttestationStatus = &s
	}
	return cond
}

// PolicyRuleDTO is the wire form of PolicyRule.
type PolicyRuleDTO struct {
	Action     string               `json:"action"`
	Decision   DecisionDTO          `json:"decision"`
	Conditions *PolicyConditionsDTO `json:"conditions,omitempty"`
}

func (r PolicyRule) DTO() PolicyRuleDTO {
	cond := r.Conditions.DTO()
	return PolicyRuleDTO{Action: r.Action, Decision: r.Decision.DTO(), Conditions: &cond}
}

func (r PolicyRuleDTO) Domain() PolicyRule {
	rule := PolicyRule{Action: r.Action, Decision: r.Decision.Domain()}
	if r.Conditions != nil {
		rule.Conditions = r.Conditions.Domain()
	}
	return rule
}

// PolicyDTO is the wire form of a PolicySet plus its signature and
// issuance timestamp — the shape stored and returned by the policy
// service's endpoints.
type PolicyDTO struct {
	PolicyID   string          `json:"policy_id"`
	AppID      string          `json:"app_id"`
	AppVersion string          `json:"app_version"`
	Env        string          `json:"env"`
	Rules      []PolicyRuleDTO `json:"rules"`
	Signature  string          `json:"signature"`
	IssuedAt   string          `json:"issued_at"`
}

// NewPolicyDTO assembles a PolicyDTO from a domain PolicySet plus the
// signature and issuance timestamp under which it is being stored.
func NewPolicyDTO(p PolicySet, signature, issuedAt string) PolicyDTO {
	rules := make([]PolicyRuleDTO, len(p.Rules))
	for i, r := range p.Rules {
		rules[i] = r.DTO()
	}
	return PolicyDTO{
		PolicyID:   p.PolicyID,
		AppID:      p.AppID,
		AppVersion: p.AppVersion,
		Env:        p.Env,
		Rules:      rules,
		Signature:  signature,
		IssuedAt:   issuedAt,
	}
}

func (p PolicyDTO) ToPolicySet() PolicySet {
	rules := make([]PolicyRule, len(p.Rules))
	for i, r := range p.Rules {
		rules[i] = r.Domain()
	}
	return PolicySet{
		PolicyID:   p.PolicyID,
		AppID:      p.AppID,
		AppVersion: p.AppVersion,
		Env:        p.Env,
		Rules:      rules,
	}
}

// PolicyUpsertRequest is the request body for POST /v1/policies.
type PolicyUpsertRequest struct {
	DevicePlatform string    `json:"device_platform"`
	Policy         PolicyDTO `json:"policy"`
}

// PolicyUpsertResponse is the response body for POST /v1/policies.
type PolicyUpsertResponse struct {
	Status   string `json:"status"`
	StoredAt string `json:"stored_at"`
}

// PolicyEntryDTO is one element of the array returned by GET /v1/policies.
type PolicyEntryDTO struct {
	DevicePlatform string    `json:"device_platform"`
	Policy         PolicyDTO `json:"policy"`
}

// PolicyVersionDTO is one element of the array returned by
// GET /v1/policies/versions.
type PolicyVersionDTO struct {
	DevicePlatform string    `json:"device_platform"`
	Policy         PolicyDTO `json:"policy"`
	StoredAt       string    `json:"stored_at"`
}

// FindingDTO is the wire form of Finding.
type FindingDTO struct {
	Category string      `json:"category"`
	Severity SeverityDTO `json:"severity"`
	Evidence any         `json:"evidence,omitempty"`
}

func (f Finding) DTO() FindingDTO {
	return FindingDTO{Category: f.Category, Severity: f.Severity.DTO()}
}

func (f FindingDTO) Domain() Finding {
	return Finding{Category: f.Category, Severity: f.Severity.Domain()}
}

// PipelineInfoDTO is optional CI/CD provenance on a report upload.
type PipelineInfoDTO struct {
	Provider string `json:"provider"`
	RunID    string `json:"run_id"`
}

// ReportArtifactsDTO carries the opaque, base64-encoded report payload.
type ReportArtifactsDTO struct {
	Format  string `json:"format"`
	Payload string `json:"payload"`
}

// ReportUploadDTO is the request body for POST /v1/reports/upload.
type ReportUploadDTO struct {
	ReportID  string             `json:"report_id"`
	AppID     string             `json:"app_id"`
	Env       string             `json:"env"`
	Source    string             `json:"source"`
	Pipeline  *PipelineInfoDTO   `json:"pipeline,omitempty"`
	Artifacts ReportArtifactsDTO `json:"artifacts"`
	Findings  []FindingDTO       `json:"findings,omitempty"`
	Timestamp string             `json:"timestamp"`
}
