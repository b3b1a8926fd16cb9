package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Names of the generation tools the agent dispatches to. The same names are
// served by the tool registry for direct diagnostic execution.
const (
	ToolSpamAnalyzer     = "spam_analyzer"
	ToolQuickVerdict     = "quick_verdict"
	ToolDetailedAnalyzer = "detailed_analyzer"
)

// VerdictAgent adjudicates emails the routing policy escalated. It supports
// two invocation styles: tool-based dispatch through a ToolExecutor, and a
// plain workflow that calls the generator directly. The orchestrator tries
// the tool path first and falls back to the workflow path on failure.
type VerdictAgent struct {
	generator TextGenerator
	tools     ToolExecutor
	prompts   *PromptBuilder
	policy    *RoutingPolicy
	logger    *zap.Logger
}

// NewVerdictAgent creates a verdict agent
func NewVerdictAgent(
	generator TextGenerator,
	tools ToolExecutor,
	prompts *PromptBuilder,
	policy *RoutingPolicy,
	logger *zap.Logger,
) *VerdictAgent {
	return &VerdictAgent{
		generator: generator,
		tools:     tools,
		prompts:   prompts,
		policy:    policy,
		logger:    logger,
	}
}

// AnalyzeWithTools runs the tool-based invocation style
func (a *VerdictAgent) AnalyzeWithTools(ctx context.Context, email *EmailInput, classifier *ClassifierResult) (*VerdictResult, error) {
	analysisType := a.policy.AnalysisType(classifier)
	a.logger.Info("Running tool-based verdict analysis",
		zap.String("analysis_type", string(analysisType)))

	var (
		raw string
		err error
	)
	if analysisType == AnalysisDetailed {
		raw, err = a.tools.Execute(ctx, ToolDetailedAnalyzer, map[string]interface{}{
			"email_subject":     email.Subject,
			"email_content":     email.Content,
			"classifier_result": classifier,
		})
	} else {
		raw, err = a.tools.Execute(ctx, ToolQuickVerdict, map[string]interface{}{
			"email_text":            email.Subject + " " + email.Content,
			"classifier_confidence": classifier.Confidence,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("tool-based analysis failed: %w", err)
	}

	result := NewVerdictResult(raw, classifier, analysisType)
	a.logger.Info("Tool-based verdict analysis completed",
		zap.String("verdict", string(result.Verdict)),
		zap.Float64("confidence_adjustment", result.ConfidenceAdjustment))
	return result, nil
}

// AnalyzeWorkflow runs the plain sequential invocation style: build the
// prompt, call the generator, interpret the response.
func (a *VerdictAgent) AnalyzeWorkflow(ctx context.Context, email *EmailInput, classifier *ClassifierResult) (*VerdictResult, error) {
	analysisType := a.policy.AnalysisType(classifier)
	a.logger.Info("Running workflow verdict analysis",
		zap.String("analysis_type", string(analysisType)))

	prompt := a.prompts.Build(email, classifier, analysisType)

	raw, err := a.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("verdict generation failed: %w", err)
	}
	if raw == "" {
		return nil, ErrEmptyResponse
	}

	result := NewVerdictResult(raw, classifier, analysisType)
	a.logger.Info("Workflow verdict analysis completed",
		zap.String("verdict", string(result.Verdict)),
		zap.Float64("confidence_adjustment", result.ConfidenceAdjustment))
	return result, nil
}
