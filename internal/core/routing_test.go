package core_test

import (
	"testing"

	"github.com/mikey/spam-gateway/internal/core"
	"github.com/stretchr/testify/assert"
)

func TestRoutePicksImmediatePathsOnlyAboveThreshold(t *testing.T) {
	policy := core.DefaultRoutingPolicy()

	tests := []struct {
		name       string
		isSpam     bool
		confidence float64
		want       core.RoutingDecision
	}{
		{"high confidence normal", false, 0.98, core.RouteImmediatePass},
		{"high confidence spam", true, 0.98, core.RouteImmediateBlock},
		{"exactly at threshold escalates", true, 0.95, core.RouteVerdictAgent},
		{"exactly at threshold escalates normal", false, 0.95, core.RouteVerdictAgent},
		{"just above threshold spam", true, 0.9500001, core.RouteImmediateBlock},
		{"mid confidence", false, 0.75, core.RouteVerdictAgent},
		{"low confidence", true, 0.4, core.RouteVerdictAgent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := &core.ClassifierResult{IsSpam: tt.isSpam, Confidence: tt.confidence}
			assert.Equal(t, tt.want, policy.Route(result))
		})
	}
}

func TestAnalysisTypeCutoffIsStrictlyGreater(t *testing.T) {
	policy := core.DefaultRoutingPolicy()

	tests := []struct {
		name       string
		confidence float64
		want       core.AnalysisType
	}{
		{"above cutoff uses quick", 0.85, core.AnalysisQuick},
		{"just above cutoff uses quick", 0.8000001, core.AnalysisQuick},
		{"exactly at cutoff uses detailed", 0.8, core.AnalysisDetailed},
		{"below cutoff uses detailed", 0.5, core.AnalysisDetailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := &core.ClassifierResult{Confidence: tt.confidence}
			assert.Equal(t, tt.want, policy.AnalysisType(result))
		})
	}
}

func TestCustomThresholds(t *testing.T) {
	policy := core.NewRoutingPolicy(0.9, 0.6)

	assert.Equal(t, core.RouteImmediateBlock,
		policy.Route(&core.ClassifierResult{IsSpam: true, Confidence: 0.92}))
	assert.Equal(t, core.RouteVerdictAgent,
		policy.Route(&core.ClassifierResult{IsSpam: true, Confidence: 0.9}))
	assert.Equal(t, core.AnalysisQuick,
		policy.AnalysisType(&core.ClassifierResult{Confidence: 0.7}))
}
