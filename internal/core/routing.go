package core

// Default decision thresholds for the two-stage gateway. Both are
// configurable; the defaults match the deployed model calibration.
const (
	// DefaultImmediateThreshold is the confidence above which the primary
	// classifier's decision is taken without escalation.
	DefaultImmediateThreshold = 0.95

	// DefaultQuickThreshold is the confidence above which an escalated
	// request uses the quick prompt instead of the detailed one.
	DefaultQuickThreshold = 0.8

	// MaxConfidence caps the merged confidence after adjustment.
	MaxConfidence = 0.99
)

// RoutingPolicy decides how a classified email proceeds through the pipeline
type RoutingPolicy struct {
	ImmediateThreshold float64
	QuickThreshold     float64
}

// NewRoutingPolicy creates a routing policy with the given thresholds
func NewRoutingPolicy(immediateThreshold, quickThreshold float64) *RoutingPolicy {
	return &RoutingPolicy{
		ImmediateThreshold: immediateThreshold,
		QuickThreshold:     quickThreshold,
	}
}

// DefaultRoutingPolicy returns a policy with the standard thresholds
func DefaultRoutingPolicy() *RoutingPolicy {
	return NewRoutingPolicy(DefaultImmediateThreshold, DefaultQuickThreshold)
}

// Route selects the processing path for a classifier result. Confidence
// exactly at the threshold escalates; the comparison is strictly greater.
func (p *RoutingPolicy) Route(result *ClassifierResult) RoutingDecision {
	switch {
	case !result.IsSpam && result.Confidence > p.ImmediateThreshold:
		return RouteImmediatePass
	case result.IsSpam && result.Confidence > p.ImmediateThreshold:
		return RouteImmediateBlock
	default:
		return RouteVerdictAgent
	}
}

// AnalysisType picks the verdict prompt variant for an escalated request.
// This cutoff is evaluated independently of the routing threshold.
func (p *RoutingPolicy) AnalysisType(result *ClassifierResult) AnalysisType {
	if result.Confidence > p.QuickThreshold {
		return AnalysisQuick
	}
	return AnalysisDetailed
}
