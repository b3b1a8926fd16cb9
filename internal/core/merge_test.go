package core_test

import (
	"testing"

	"github.com/mikey/spam-gateway/internal/core"
	"github.com/stretchr/testify/assert"
)

func TestMergeImmediateRoutesKeepClassifierDecision(t *testing.T) {
	normal := &core.ClassifierResult{IsSpam: false, Confidence: 0.97}
	spam := &core.ClassifierResult{IsSpam: true, Confidence: 0.98}

	isSpam, confidence := core.MergeDecision(normal, nil, core.RouteImmediatePass)
	assert.False(t, isSpam)
	assert.Equal(t, 0.97, confidence)

	isSpam, confidence = core.MergeDecision(spam, nil, core.RouteImmediateBlock)
	assert.True(t, isSpam)
	assert.Equal(t, 0.98, confidence)
}

func TestMergeAppliesVerdictAdjustment(t *testing.T) {
	classifier := &core.ClassifierResult{IsSpam: true, Confidence: 0.75}

	verdict := &core.VerdictResult{Verdict: core.VerdictSpam, ConfidenceAdjustment: 0.10}
	isSpam, confidence := core.MergeDecision(classifier, verdict, core.RouteVerdictAgent)
	assert.True(t, isSpam)
	assert.InDelta(t, 0.85, confidence, 1e-9)

	verdict = &core.VerdictResult{Verdict: core.VerdictNormal, ConfidenceAdjustment: 0.10}
	isSpam, confidence = core.MergeDecision(classifier, verdict, core.RouteVerdictAgent)
	assert.False(t, isSpam)
	assert.InDelta(t, 0.85, confidence, 1e-9)
}

func TestMergeClampsConfidence(t *testing.T) {
	classifier := &core.ClassifierResult{IsSpam: true, Confidence: 0.95}
	verdict := &core.VerdictResult{Verdict: core.VerdictSpam, ConfidenceAdjustment: 0.10}

	_, confidence := core.MergeDecision(classifier, verdict, core.RouteVerdictAgent)
	assert.Equal(t, core.MaxConfidence, confidence)
}

func TestMergeUncertainVerdictFallsBackToClassifier(t *testing.T) {
	classifier := &core.ClassifierResult{IsSpam: true, Confidence: 0.6}
	verdict := &core.VerdictResult{Verdict: core.VerdictUncertain, ConfidenceAdjustment: 0.0}

	isSpam, confidence := core.MergeDecision(classifier, verdict, core.RouteVerdictAgent)
	assert.True(t, isSpam)
	assert.Equal(t, 0.6, confidence)

	classifier = &core.ClassifierResult{IsSpam: false, Confidence: 0.55}
	isSpam, confidence = core.MergeDecision(classifier, verdict, core.RouteVerdictAgent)
	assert.False(t, isSpam)
	assert.Equal(t, 0.55, confidence)
}

func TestMergeNilVerdictFallsBackToClassifier(t *testing.T) {
	classifier := &core.ClassifierResult{IsSpam: false, Confidence: 0.7}

	isSpam, confidence := core.MergeDecision(classifier, nil, core.RouteVerdictAgent)
	assert.False(t, isSpam)
	assert.Equal(t, 0.7, confidence)
}
