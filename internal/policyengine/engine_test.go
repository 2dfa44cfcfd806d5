package policyengine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sentrypass/sentrypass/internal/model"
)

func boolPtr(b bool) *bool { return &b }

func TestEvaluate_LoginStepUpOnDebugger(t *testing.T) {
	policy := model.PolicySet{
		Rules: []model.PolicyRule{
			{
				Action:     "login",
				Decision:   model.DecisionStepUp,
				Conditions: model.PolicyConditions{Debugger: boolPtr(true)},
			},
		},
	}
	action := model.ActionContext{Name: "login"}

	signals := model.IntegritySignals{Debugger: true}
	decision := Evaluate(policy, action, signals, nil, model.NewRiskScore(0))
	require.Equal(t, model.DecisionStepUp, decision)

	signals.Debugger = false
	decision = Evaluate(policy, action, signals, nil, model.NewRiskScore(0))
	require.Equal(t, model.DecisionAllow, decision)
}

func TestEvaluate_DenyOnFailedAttestationAndHighRisk(t *testing.T) {
	fail := model.AttestationFail
	gte := uint32(70)
	policy := model.PolicySet{
		Rules: []model.PolicyRule{
			{
				Action:   "transfer",
				Decision: model.DecisionDeny,
				Conditions: model.PolicyConditions{
					AttestationStatus: &fail,
					RiskScoreGTE:      &gte,
				},
			},
		},
	}
	action := model.ActionContext{Name: "transfer"}
	attestation := &model.AttestationResult{Status: model.AttestationFail}

	decision := Evaluate(policy, action, model.IntegritySignals{}, attestation, model.NewRiskScore(80))
	require.Equal(t, model.DecisionDeny, decision)

	decision = Evaluate(policy, action, model.IntegritySignals{}, attestation, model.NewRiskScore(50))
	require.Equal(t, model.DecisionAllow, decision)
}

func TestEvaluate_FirstMatchWins(t *testing.T) {
	policy := model.PolicySet{
		Rules: []model.PolicyRule{
			{Action: "view_card", Decision: model.DecisionDeny, Conditions: model.PolicyConditions{Hooking: boolPtr(true)}},
			{Action: "view_card", Decision: model.DecisionAllow},
		},
	}
	action := model.ActionContext{Name: "view_card"}
	signals := model.IntegritySignals{Hooking: true}

	decision := Evaluate(policy, action, signals, nil, model.NewRiskScore(0))
	require.Equal(t, model.DecisionDeny, decision)
}

func TestEvaluate_EmptyRulesYieldsAllow(t *testing.T) {
	policy := model.PolicySet{}
	decision := Evaluate(policy, model.ActionContext{Name: "anything"}, model.IntegritySignals{}, nil, model.NewRiskScore(100))
	require.Equal(t, model.DecisionAllow, decision)
}

func TestEvaluate_NoMatchYieldsAllow(t *testing.T) {
	policy := model.PolicySet{
		Rules: []model.PolicyRule{
			{Action: "login", Decision: model.DecisionDeny},
		},
	}
	decision := Evaluate(policy, model.ActionContext{Name: "transfer"}, model.IntegritySignals{}, nil, model.NewRiskScore(0))
	require.Equal(t, model.DecisionAllow, decision)
}

func TestEvaluate_ConditionMonotonicity(t *testing.T) {
	// A rule with an added condition must match a subset of what the
	// unconditioned rule matches.
	base := model.PolicyRule{Action: "login", Decision: model.DecisionStepUp}
	narrowed := model.PolicyRule{Action: "login", Decision: model.DecisionStepUp, Conditions: model.PolicyConditions{Debugger: boolPtr(true)}}

	action := model.ActionContext{Name: "login"}
	for _, debugger := range []bool{true, false} {
		signals := model.IntegritySignals{Debugger: debugger}
		baseMatches := matches(base, "", action, signals, nil, model.NewRiskScore(0))
		narrowMatches := matches(narrowed, "", action, signals, nil, model.NewRiskScore(0))
		if narrowMatches {
			require.True(t, baseMatches, "narrowed rule matched but base rule did not for debugger=%v", debugger)
		}
	}
}

func TestEvaluate_AttestationAbsentNeverMatchesCondition(t *testing.T) {
	fail := model.AttestationFail
	policy := model.PolicySet{
		Rules: []model.PolicyRule{
			{Action: "login", Decision: model.DecisionDeny, Conditions: model.PolicyConditions{AttestationStatus: &fail}},
		},
	}
	decision := Evaluate(policy, model.ActionContext{Name: "login"}, model.IntegritySignals{}, nil, model.NewRiskScore(0))
	require.Equal(t, model.DecisionAllow, decision)
}

func TestEvaluate_AppVersionConditionChecksPolicyNotEvent(t *testing.T) {
	policy := model.PolicySet{
		AppVersion: "2.0.0",
		Rules: []model.PolicyRule{
			{Action: "login", Decision: model.DecisionDeny, Conditions: model.PolicyConditions{AppVersion: strPtr("2.0.0")}},
		},
	}
	decision := Evaluate(policy, model.ActionContext{Name: "login"}, model.IntegritySignals{}, nil, model.NewRiskScore(0))
	require.Equal(t, model.DecisionDeny, decision)

	policy.AppVersion = "1.0.0"
	decision = Evaluate(policy, model.ActionContext{Name: "login"}, model.IntegritySignals{}, nil, model.NewRiskScore(0))
	require.Equal(t, model.DecisionAllow, decision)
}

func strPtr(s string) *string { return &s }
