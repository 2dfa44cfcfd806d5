// Package risk implements RiskScore-producing scorers that satisfy
// ports.RiskScorer. Two schemes exist per the design notes' double-counting
// warning: DefaultScorer (flat contribution per finding) and
// SeverityWeightedScorer (finding contribution scaled by severity, the
// scheme report-side aggregation uses). An implementer picks one per
// scorer instance; the policy engine never inspects which.
package risk

import "github.com/sentrypass/sentrypass/internal/model"

const (
	weightJailbreakOrRoot     = 40
	weightDebuggerOrHooking   = 30
	weightProxyDetected       = 20
	weightAttestationFail     = 30
	weightPerFindingFlat      = 5
)

// DefaultScorer implements the additive weights table in §4.2, with a flat
// +5 contribution per finding regardless of severity.
type DefaultScorer struct{}

// Score computes the additive, saturating sum described in §4.2 and clamps
// it via model.NewRiskScore.
func (DefaultScorer) Score(signals model.IntegritySignals, attestation *model.AttestationResult, findings []model.Finding) model.RiskScore {
	var total uint32

	if signals.Jailbreak || signals.Root {
		total = saturatingAdd(total, weightJailbreakOrRoot)
	}
	if signals.Debugger || signals.Hooking {
		total = saturatingAdd(total, weightDebuggerOrHooking)
	}
	if signals.ProxyDetected {
		total = saturatingAdd(total, weightProxyDetected)
	}
	if attestation != nil && attestation.Status == model.AttestationFail {
		total = saturatingAdd(total, weightAttestationFail)
	}
	for range findings {
		total = saturatingAdd(total, weightPerFindingFlat)
	}

	return model.NewRiskScore(total)
}

// SeverityWeightedScorer implements the same signal/attestation weights as
// DefaultScorer but weights each finding by its severity tier instead of a
// flat contribution — the scheme report-side aggregation uses, per §9's
// note that two such schemes coexist in the source material and an
// implementer must pick one per scorer and document it.
type SeverityWeightedScorer struct{}

func (SeverityWeightedScorer) Score(signals model.IntegritySignals, attestation *model.AttestationResult, findings []model.Finding) model.RiskScore {
	var total uint32

	if signals.Jailbreak || signals.Root {
		total = saturatingAdd(total, weightJailbreakOrRoot)
	}
	if signals.Debugger || signals.Hooking {
		total = saturatingAdd(total, weightDebuggerOrHooking)
	}
	if signals.ProxyDetected {
		total = saturatingAdd(total, weightProxyDetected)
	}
	if attestation != nil && attestation.Status == model.AttestationFail {
		total = saturatingAdd(total, weightAttestationFail)
	}
	for _, f := range findings {
		total = saturatingAdd(total, model.SeverityWeight(f.Severity))
	}

	return model.NewRiskScore(total)
}

// saturatingAdd adds delta to total without wrapping past the uint32 range.
// The result is clamped again by model.NewRiskScore to [0,100]; this guards
// only against integer overflow on pathological finding counts.
func saturatingAdd(total, delta uint32) uint32 {
	sum := total + delta
	if sum < total {
		return ^uint32(0)
	}
	return sum
}
