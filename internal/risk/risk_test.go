package risk

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sentrypass/sentrypass/internal/model"
)

func TestDefaultScorer_AdditiveWeights(t *testing.T) {
	var s DefaultScorer

	score := s.Score(model.IntegritySignals{Jailbreak: true}, nil, nil)
	require.Equal(t, uint32(40), score.Value())

	score = s.Score(model.IntegritySignals{Root: true, Debugger: true}, nil, nil)
	require.Equal(t, uint32(70), score.Value())

	score = s.Score(model.IntegritySignals{ProxyDetected: true}, &model.AttestationResult{Status: model.AttestationFail}, nil)
	require.Equal(t, uint32(50), score.Value())

	score = s.Score(model.IntegritySignals{}, nil, []model.Finding{{Severity: model.SeverityCritical}, {Severity: model.SeverityLow}})
	require.Equal(t, uint32(10), score.Value())
}

func TestDefaultScorer_ClampedTo100(t *testing.T) {
	var s DefaultScorer
	signals := model.IntegritySignals{Jailbreak: true, Debugger: true, ProxyDetected: true}
	attestation := &model.AttestationResult{Status: model.AttestationFail}
	findings := make([]model.Finding, 20)

	score := s.Score(signals, attestation, findings)
	require.Equal(t, uint32(100), score.Value())
}

func TestDefaultScorer_AttestationPassContributesNothing(t *testing.T) {
	var s DefaultScorer
	score := s.Score(model.IntegritySignals{}, &model.AttestationResult{Status: model.AttestationPass}, nil)
	require.Equal(t, uint32(0), score.Value())
}

func TestSeverityWeightedScorer_WeightsBySeverity(t *testing.T) {
	var s SeverityWeightedScorer
	findings := []model.Finding{
		{Severity: model.SeverityLow},
		{Severity: model.SeverityMedium},
		{Severity: model.SeverityHigh},
		{Severity: model.SeverityCritical},
	}
	score := s.Score(model.IntegritySignals{}, nil, findings)
	require.Equal(t, uint32(65), score.Value())
}

func TestSeverityWeightedScorer_ClampedTo100(t *testing.T) {
	var s SeverityWeightedScorer
	findings := make([]model.Finding, 10)
	for i := range findings {
		findings[i] = model.Finding{Severity: model.SeverityCritical}
	}
	score := s.Score(model.IntegritySignals{}, nil, findings)
	require.Equal(t, uint32(100), score.Value())
}

func TestScorers_NeverExceedBounds(t *testing.T) {
	var d DefaultScorer
	var sw SeverityWeightedScorer

	signals := model.IntegritySignals{Jailbreak: true, Root: true, Debugger: true, Hooking: true, ProxyDetected: true}
	attestation := &model.AttestationResult{Status: model.AttestationFail}
	var findings []model.Finding
	for i := 0; i < 50; i++ {
		findings = append(findings, model.Finding{Severity: model.SeverityCritical})
	}

	require.LessOrEqual(t, d.Score(signals, attestation, findings).Value(), uint32(100))
	require.LessOrEqual(t, sw.Score(signals, attestation, findings).Value(), uint32(100))
}
