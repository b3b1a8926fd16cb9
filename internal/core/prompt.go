package core

import (
	"fmt"
)

// Label vocabulary shared by the prompts and the response interpreter. The
// prompts instruct the generator to conclude with one of these words so the
// interpreter's keyword table can pick the verdict back out.
const (
	LabelNormal    = "normal"
	LabelSpam      = "spam"
	LabelUncertain = "uncertain"
	LabelHold      = "hold"
)

const detailedPromptFormat = `You are an email security expert. Perform a thorough spam analysis of the following email.

=== Email ===
Subject: %s
Content: %s

=== First-stage classifier result ===
Classifier verdict: %s (confidence: %.3f)
Normal probability: %.3f
Spam probability: %.3f

=== Analysis required ===
Assess the email from the following angles:

1. **Sender legitimacy**
   - Validity of the sender address
   - Trustworthiness of the domain
   - Consistency of the sender information

2. **Content authenticity**
   - Naturalness of tone and style
   - Spelling and grammar accuracy
   - Logical consistency of the content

3. **Phishing and fraud risk**
   - Requests for credentials or personal information
   - Financial or payment demands
   - Urgency or pressure language
   - Suspicious links or attachments

4. **Commercial intent**
   - Advertising or promotional content
   - Excessive marketing language
   - Discount or event solicitations

=== Conclusion ===
State your final judgement with clear reasoning, classifying the email as exactly one of:
- **normal**: safe email
- **spam**: recommend blocking
- **hold**: needs further review

Explain your analysis concretely and explicitly.`

const quickPromptFormat = `Give a quick spam verdict for the following email.

Email: %s
First-stage classifier confidence: %.3f

Answer with exactly one of:
- normal: safe email
- spam: spam email
- uncertain: needs further analysis

Justify your verdict in 2-3 lines.`

// QuickPrompt renders the quick verdict prompt. Both the tool-based and the
// workflow invocation styles use this single template.
func QuickPrompt(emailText string, confidence float64) string {
	return fmt.Sprintf(quickPromptFormat, emailText, confidence)
}

// PromptBuilder renders the verdict prompts from email fields and the
// primary classifier's output
type PromptBuilder struct{}

// NewPromptBuilder creates a prompt builder
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// Build renders the prompt variant selected by analysisType
func (b *PromptBuilder) Build(email *EmailInput, result *ClassifierResult, analysisType AnalysisType) string {
	if analysisType == AnalysisDetailed {
		return b.buildDetailed(email, result)
	}
	return b.buildQuick(email, result)
}

func (b *PromptBuilder) buildDetailed(email *EmailInput, result *ClassifierResult) string {
	return fmt.Sprintf(detailedPromptFormat,
		email.Subject,
		email.Content,
		classifierLabel(result),
		result.Confidence,
		result.Probabilities[LabelNormal],
		result.Probabilities[LabelSpam],
	)
}

func (b *PromptBuilder) buildQuick(email *EmailInput, result *ClassifierResult) string {
	return QuickPrompt(email.Subject+" "+email.Content, result.Confidence)
}

func classifierLabel(result *ClassifierResult) string {
	if result.IsSpam {
		return LabelSpam
	}
	return LabelNormal
}
