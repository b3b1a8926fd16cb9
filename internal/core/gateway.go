package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MetricsRecorder receives pipeline outcome observations
type MetricsRecorder interface {
	// ObserveRequest records one finished analysis request
	ObserveRequest(routing RoutingDecision, status SessionStatus, seconds float64)
}

// GatewayService orchestrates the two-stage spam analysis pipeline:
// primary classification, confidence-based routing, conditional verdict
// escalation, decision merging and session bookkeeping.
type GatewayService struct {
	classifier TextClassifier
	verdict    *VerdictAgent
	policy     *RoutingPolicy
	sessions   SessionStore
	metrics    MetricsRecorder
	logger     *zap.Logger
}

// NewGatewayService creates the pipeline orchestrator
func NewGatewayService(
	classifier TextClassifier,
	verdict *VerdictAgent,
	policy *RoutingPolicy,
	sessions SessionStore,
	metrics MetricsRecorder,
	logger *zap.Logger,
) *GatewayService {
	return &GatewayService{
		classifier: classifier,
		verdict:    verdict,
		policy:     policy,
		sessions:   sessions,
		metrics:    metrics,
		logger:     logger,
	}
}

// AnalyzeEmail runs an email through the full gateway pipeline and returns
// the merged decision. The session record is finalized before any error is
// propagated, so the audit trail survives failed requests.
func (s *GatewayService) AnalyzeEmail(ctx context.Context, email *EmailInput) (*GatewayResponse, error) {
	session := &ProcessingSession{
		SessionID:       uuid.New().String(),
		EmailInput:      *email,
		ProcessingSteps: []string{"session_created"},
		StartTime:       time.Now(),
		Status:          StatusProcessing,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("Email analysis started",
		zap.String("session_id", session.SessionID),
		zap.String("subject", truncateSubject(email.Subject)))

	// Stage 1: primary classification. Mandatory; no fallback.
	text := strings.TrimSpace(email.Subject + " " + email.Content)
	classifierResult, err := s.classifier.Classify(ctx, text)
	if err != nil {
		return nil, s.failSession(ctx, session, "", fmt.Errorf("classifier failed: %w", err))
	}
	session.ClassifierResult = classifierResult
	session.ConfidenceScore = classifierResult.Confidence
	session.ProcessingSteps = append(session.ProcessingSteps, "classifier_completed")

	s.logger.Info("Classifier completed",
		zap.String("session_id", session.SessionID),
		zap.Bool("is_spam", classifierResult.IsSpam),
		zap.Float64("confidence", classifierResult.Confidence))

	// Stage 2: routing decision
	routing := s.policy.Route(classifierResult)
	session.ProcessingSteps = append(session.ProcessingSteps, "routed_to_"+string(routing))
	s.persistProgress(ctx, session)

	// Stage 3: conditional verdict escalation
	var verdictResult *VerdictResult
	if routing == RouteVerdictAgent {
		verdictResult, err = s.runVerdictStage(ctx, session, email, classifierResult)
		if err != nil {
			return nil, s.failSession(ctx, session, routing, err)
		}
		session.VerdictResult = verdictResult
		s.persistProgress(ctx, session)
	}

	// Stage 4: merge
	finalIsSpam, finalConfidence := MergeDecision(classifierResult, verdictResult, routing)

	// Stage 5: finalize session
	now := time.Now()
	session.Status = StatusCompleted
	session.EndTime = &now
	session.FinalDecision = routing
	session.ProcessingSteps = append(session.ProcessingSteps, "completed")
	if err := s.sessions.Update(ctx, session); err != nil {
		s.logger.Error("Failed to persist completed session",
			zap.String("session_id", session.SessionID), zap.Error(err))
	}
	if s.metrics != nil {
		s.metrics.ObserveRequest(routing, StatusCompleted, session.ProcessingTime())
	}

	response := &GatewayResponse{
		IsSpam:     finalIsSpam,
		Confidence: finalConfidence,
		ClassifierDecision: fmt.Sprintf("%s (confidence: %.3f)",
			classifierLabel(classifierResult), classifierResult.Confidence),
		ProcessingPath: strings.Join(session.ProcessingSteps, " → "),
		Timestamp:      now,
		Metadata: map[string]interface{}{
			"session_id":        session.SessionID,
			"routing_decision":  string(routing),
			"classifier_result": classifierResult,
			"verdict_result":    verdictResult,
		},
	}
	if verdictResult != nil {
		response.VerdictAnalysis = verdictResult.RawResponse
	}

	s.logger.Info("Email analysis completed",
		zap.String("session_id", session.SessionID),
		zap.Bool("is_spam", finalIsSpam),
		zap.Float64("confidence", finalConfidence),
		zap.String("routing", string(routing)))

	return response, nil
}

// runVerdictStage attempts the tool-based invocation first and retries via
// the plain workflow path if it fails. Only when both fail does the error
// propagate and the session go to error.
func (s *GatewayService) runVerdictStage(ctx context.Context, session *ProcessingSession, email *EmailInput, classifier *ClassifierResult) (*VerdictResult, error) {
	result, err := s.verdict.AnalyzeWithTools(ctx, email, classifier)
	if err == nil {
		session.ProcessingSteps = append(session.ProcessingSteps, "tool_based_analysis_completed")
		return result, nil
	}

	s.logger.Warn("Tool-based analysis failed, retrying via workflow path",
		zap.String("session_id", session.SessionID), zap.Error(err))

	result, err = s.verdict.AnalyzeWorkflow(ctx, email, classifier)
	if err != nil {
		return nil, fmt.Errorf("verdict stage failed on both paths: %w", err)
	}
	session.ProcessingSteps = append(session.ProcessingSteps, "workflow_analysis_completed")
	return result, nil
}

// persistProgress saves intermediate session state so the session endpoint
// reflects in-flight progress. Best effort; the pipeline continues on failure.
func (s *GatewayService) persistProgress(ctx context.Context, session *ProcessingSession) {
	if err := s.sessions.Update(ctx, session); err != nil {
		s.logger.Warn("Failed to persist session progress",
			zap.String("session_id", session.SessionID), zap.Error(err))
	}
}

// failSession finalizes a session in the error state before re-propagating
func (s *GatewayService) failSession(ctx context.Context, session *ProcessingSession, routing RoutingDecision, cause error) error {
	now := time.Now()
	session.Status = StatusError
	session.Error = cause.Error()
	session.EndTime = &now
	if routing != "" {
		session.FinalDecision = routing
	}
	session.ProcessingSteps = append(session.ProcessingSteps, "error")
	if err := s.sessions.Update(ctx, session); err != nil {
		s.logger.Error("Failed to persist errored session",
			zap.String("session_id", session.SessionID), zap.Error(err))
	}
	if s.metrics != nil {
		s.metrics.ObserveRequest(routing, StatusError, session.ProcessingTime())
	}

	s.logger.Error("Email analysis failed",
		zap.String("session_id", session.SessionID), zap.Error(cause))
	return cause
}

// ClassifierModel reports the primary classifier's model name
func (s *GatewayService) ClassifierModel() string {
	return s.classifier.ModelName()
}

func truncateSubject(subject string) string {
	const max = 50
	runes := []rune(subject)
	if len(runes) <= max {
		return subject
	}
	return string(runes[:max]) + "..."
}
