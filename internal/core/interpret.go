package core

import (
	"fmt"
	"strings"
)

// interpretRule maps response keywords to a verdict and its confidence
// adjustment. Rules are evaluated in order; the first match wins.
type interpretRule struct {
	keywords   []string
	verdict    Verdict
	adjustment float64
}

// The ordered rule table for verdict interpretation. Priority matters:
// a response mentioning both "spam" and "uncertain" is read as spam.
var interpretRules = []interpretRule{
	{keywords: []string{"spam", "block"}, verdict: VerdictSpam, adjustment: 0.10},
	{keywords: []string{"normal", "safe", "legitimate"}, verdict: VerdictNormal, adjustment: 0.10},
	{keywords: []string{"uncertain", "hold"}, verdict: VerdictUncertain, adjustment: 0.0},
}

// fallbackAdjustment applies when no rule matched and the verdict falls
// back to the classifier's own label.
const fallbackAdjustment = 0.05

// InterpretResponse parses the generator's free-form output into a structured
// verdict. Matching is case-insensitive substring search over the rule table;
// an unmatchable response deterministically follows the classifier's label
// with a small confidence bump.
func InterpretResponse(raw string, classifier *ClassifierResult) (Verdict, float64) {
	lower := strings.ToLower(raw)

	for _, rule := range interpretRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.verdict, rule.adjustment
			}
		}
	}

	if classifier.IsSpam {
		return VerdictSpam, fallbackAdjustment
	}
	return VerdictNormal, fallbackAdjustment
}

// NewVerdictResult assembles a VerdictResult from a raw generator response
func NewVerdictResult(raw string, classifier *ClassifierResult, analysisType AnalysisType) *VerdictResult {
	verdict, adjustment := InterpretResponse(raw, classifier)
	return &VerdictResult{
		Verdict:              verdict,
		ConfidenceAdjustment: adjustment,
		AnalysisType:         analysisType,
		RawResponse:          raw,
		Summary:              fmt.Sprintf("verdict agent: %s (confidence adjustment: +%.2f)", verdict, adjustment),
	}
}
