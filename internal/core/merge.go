package core

// MergeDecision combines the classifier output and the optional verdict-stage
// output into the final (is_spam, confidence) pair.
//
// Immediate routes take the classifier's decision unchanged. An escalated
// request applies the verdict agent's confidence adjustment when it reached a
// definite verdict, and falls back to the classifier's own label when the
// agent was uncertain or produced no result at all. Confidence never exceeds
// MaxConfidence.
func MergeDecision(classifier *ClassifierResult, verdict *VerdictResult, routing RoutingDecision) (bool, float64) {
	base := classifier.Confidence

	switch routing {
	case RouteImmediatePass:
		return false, base
	case RouteImmediateBlock:
		return true, base
	}

	if verdict == nil {
		return classifier.IsSpam, base
	}

	switch verdict.Verdict {
	case VerdictSpam:
		return true, clampConfidence(base + verdict.ConfidenceAdjustment)
	case VerdictNormal:
		return false, clampConfidence(base + verdict.ConfidenceAdjustment)
	default:
		// Uncertain verdicts keep the classifier's decision untouched
		return classifier.IsSpam, base
	}
}

func clampConfidence(c float64) float64 {
	if c > MaxConfidence {
		return MaxConfidence
	}
	return c
}
