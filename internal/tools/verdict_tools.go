package tools

import (
	"context"
	"fmt"

	"github.com/mikey/spam-gateway/internal/core"
)

// spamAnalyzerTool passes a caller-supplied prompt straight to the generator
type spamAnalyzerTool struct {
	generator core.TextGenerator
}

func (t *spamAnalyzerTool) Name() string { return core.ToolSpamAnalyzer }

func (t *spamAnalyzerTool) Description() string {
	return "Runs the verdict generator over a raw analysis prompt"
}

func (t *spamAnalyzerTool) ArgsSchema() map[string]string {
	return map[string]string{
		"prompt": "analysis prompt containing the email under review",
	}
}

func (t *spamAnalyzerTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	var in struct {
		Prompt string `json:"prompt"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	if in.Prompt == "" {
		return "", fmt.Errorf("prompt argument is required")
	}
	return t.generator.Generate(ctx, in.Prompt)
}

// quickVerdictTool renders the quick prompt and runs the generator
type quickVerdictTool struct {
	generator core.TextGenerator
}

func (t *quickVerdictTool) Name() string { return core.ToolQuickVerdict }

func (t *quickVerdictTool) Description() string {
	return "Quick spam verdict: normal / spam / uncertain with a short justification"
}

func (t *quickVerdictTool) ArgsSchema() map[string]string {
	return map[string]string{
		"email_text":            "combined subject and content of the email",
		"classifier_confidence": "primary classifier confidence in [0,1]",
	}
}

func (t *quickVerdictTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	var in struct {
		EmailText            string  `json:"email_text"`
		ClassifierConfidence float64 `json:"classifier_confidence"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	if in.EmailText == "" {
		return "", fmt.Errorf("email_text argument is required")
	}

	prompt := core.QuickPrompt(in.EmailText, in.ClassifierConfidence)
	return t.generator.Generate(ctx, prompt)
}

// detailedAnalyzerTool renders the detailed prompt from the full classifier
// result and runs the generator
type detailedAnalyzerTool struct {
	generator core.TextGenerator
	prompts   *core.PromptBuilder
}

func (t *detailedAnalyzerTool) Name() string { return core.ToolDetailedAnalyzer }

func (t *detailedAnalyzerTool) Description() string {
	return "Detailed spam analysis covering sender legitimacy, content authenticity, phishing risk and commercial intent"
}

func (t *detailedAnalyzerTool) ArgsSchema() map[string]string {
	return map[string]string{
		"email_subject":     "subject line of the email",
		"email_content":     "body of the email",
		"classifier_result": "primary classifier result object",
	}
}

func (t *detailedAnalyzerTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	var in struct {
		EmailSubject     string                 `json:"email_subject"`
		EmailContent     string                 `json:"email_content"`
		ClassifierResult *core.ClassifierResult `json:"classifier_result"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return "", err
	}
	if in.ClassifierResult == nil {
		return "", fmt.Errorf("classifier_result argument is required")
	}

	email := &core.EmailInput{Subject: in.EmailSubject, Content: in.EmailContent}
	prompt := t.prompts.Build(email, in.ClassifierResult, core.AnalysisDetailed)

	return t.generator.Generate(ctx, prompt)
}
