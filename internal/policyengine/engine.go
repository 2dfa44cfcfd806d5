// Package policyengine implements the ordered-rule matcher that fuses
// action context, integrity signals, attestation, and risk score into a
// single Decision. The engine is pure: no I/O, no clock, no allocation
// surprises, safe to call concurrently with no coordination.
package policyengine

import "github.com/sentrypass/sentrypass/internal/model"

// Evaluate iterates policy.Rules in order and returns the Decision of the
// first rule whose conditions match; if none matches, it returns Allow.
func Evaluate(
	policy model.PolicySet,
	action model.ActionContext,
	signals model.IntegritySignals,
	attestation *model.AttestationResult,
	riskScore model.RiskScore,
) model.Decision {
	for _, rule := range policy.Rules {
		if matches(rule, policy.AppVersion, action, signals, attestation, riskScore) {
			return rule.Decision
		}
	}
	return model.DecisionAllow
}

// matches is the conjunction of five predicates; an absent condition is
// trivially true. Adding a condition can only shrink a rule's matching
// set, never widen it.
func matches(
	rule model.PolicyRule,
	policyAppVersion string,
	action model.ActionContext,
	signals model.IntegritySignals,
	attestation *model.AttestationResult,
	riskScore model.RiskScore,
) bool {
	if rule.Action != action.Name {
		return false
	}

	cond := rule.Conditions

	if cond.AttestationStatus != nil {
		if attestation == nil || attestation.Status != *cond.AttestationStatus {
			return false
		}
	}

	if cond.Debugger != nil && signals.Debugger != *cond.Debugger {
		return false
	}
	if cond.Hooking != nil && signals.Hooking != *cond.Hooking {
		return false
	}
	if cond.ProxyDetected != nil && signals.ProxyDetected != *cond.ProxyDetected {
		return false
	}

	// conditions.app_version is checked against the policy's own app_version,
	// not the event's — the caller already bound the policy to a version via
	// lookup, so this is a sanity/authoring check, not a per-event filter.
	if cond.AppVersion != nil && policyAppVersion != *cond.AppVersion {
		return false
	}

	if cond.RiskScoreGTE != nil && riskScore.Value() < *cond.RiskScoreGTE {
		return false
	}

	return true
}
