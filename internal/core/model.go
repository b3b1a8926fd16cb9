package core

import (
	"time"
)

// EmailInput represents an email submitted for analysis
type EmailInput struct {
	Subject  string                 `json:"subject"`
	Content  string                 `json:"content"`
	Sender   string                 `json:"sender,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// ClassifierResult represents the output of the primary spam classifier
type ClassifierResult struct {
	IsSpam         bool               `json:"is_spam"`
	PredictedLabel string             `json:"predicted_label"`
	Confidence     float64            `json:"confidence"`
	Probabilities  map[string]float64 `json:"probabilities"`
	ProcessingTime float64            `json:"processing_time"`
	InputLength    int                `json:"input_length"`
}

// Verdict is the adjudication produced by the verdict agent
type Verdict string

const (
	VerdictSpam      Verdict = "spam"
	VerdictNormal    Verdict = "normal"
	VerdictUncertain Verdict = "uncertain"
)

// AnalysisType selects between the two verdict prompt variants
type AnalysisType string

const (
	AnalysisQuick    AnalysisType = "quick"
	AnalysisDetailed AnalysisType = "detailed"
)

// VerdictResult represents the verdict agent's analysis of an escalated email
type VerdictResult struct {
	Verdict              Verdict      `json:"verdict"`
	ConfidenceAdjustment float64      `json:"confidence_adjustment"`
	AnalysisType         AnalysisType `json:"analysis_type"`
	RawResponse          string       `json:"raw_response"`
	Summary              string       `json:"summary"`
}

// RoutingDecision is the path chosen after the primary classification stage
type RoutingDecision string

const (
	RouteImmediatePass  RoutingDecision = "immediate_pass"
	RouteImmediateBlock RoutingDecision = "immediate_block"
	RouteVerdictAgent   RoutingDecision = "verdict_agent"
)

// GatewayResponse is the final analysis result returned to the caller
type GatewayResponse struct {
	IsSpam             bool                   `json:"is_spam"`
	Confidence         float64                `json:"confidence"`
	ClassifierDecision string                 `json:"classifier_decision"`
	VerdictAnalysis    string                 `json:"verdict_analysis,omitempty"`
	ProcessingPath     string                 `json:"processing_path"`
	Timestamp          time.Time              `json:"timestamp"`
	Metadata           map[string]interface{} `json:"metadata"`
}

// SessionStatus is the lifecycle state of a processing session
type SessionStatus string

const (
	StatusProcessing SessionStatus = "processing"
	StatusCompleted  SessionStatus = "completed"
	StatusError      SessionStatus = "error"
)

// ProcessingSession is the per-request audit record tracking pipeline progress.
// Steps are append-only; status only ever moves processing -> completed|error.
type ProcessingSession struct {
	SessionID        string            `json:"session_id"`
	EmailInput       EmailInput        `json:"email_input"`
	ClassifierResult *ClassifierResult `json:"classifier_result,omitempty"`
	VerdictResult    *VerdictResult    `json:"verdict_result,omitempty"`
	FinalDecision    RoutingDecision   `json:"final_decision,omitempty"`
	ConfidenceScore  float64           `json:"confidence_score"`
	ProcessingSteps  []string          `json:"processing_steps"`
	StartTime        time.Time         `json:"start_time"`
	EndTime          *time.Time        `json:"end_time,omitempty"`
	Status           SessionStatus     `json:"status"`
	Error            string            `json:"error,omitempty"`
}

// ProcessingTime returns the elapsed wall-clock seconds for a finished session
func (s *ProcessingSession) ProcessingTime() float64 {
	if s.EndTime == nil {
		return 0
	}
	return s.EndTime.Sub(s.StartTime).Seconds()
}

// SessionStats aggregates session counts by lifecycle state
type SessionStats struct {
	Total      int `json:"total"`
	Processing int `json:"processing"`
	Completed  int `json:"completed"`
	Error      int `json:"error"`
}
