package core_test

import (
	"testing"

	"github.com/mikey/spam-gateway/internal/core"
	"github.com/stretchr/testify/assert"
)

func TestBuildDetailedPrompt(t *testing.T) {
	builder := core.NewPromptBuilder()
	email := &core.EmailInput{
		Subject: "Re: quarterly figures",
		Content: "Please find the revised numbers attached.",
	}
	result := &core.ClassifierResult{
		IsSpam:     false,
		Confidence: 0.72,
		Probabilities: map[string]float64{
			"normal": 0.72,
			"spam":   0.28,
		},
	}

	prompt := builder.Build(email, result, core.AnalysisDetailed)

	assert.Contains(t, prompt, "Re: quarterly figures")
	assert.Contains(t, prompt, "Please find the revised numbers attached.")
	assert.Contains(t, prompt, "normal (confidence: 0.720)")
	assert.Contains(t, prompt, "Normal probability: 0.720")
	assert.Contains(t, prompt, "Spam probability: 0.280")
	assert.Contains(t, prompt, "Sender legitimacy")
	assert.Contains(t, prompt, "Phishing and fraud risk")
}

func TestBuildQuickPrompt(t *testing.T) {
	builder := core.NewPromptBuilder()
	email := &core.EmailInput{Subject: "Hello", Content: "quick note"}
	result := &core.ClassifierResult{IsSpam: true, Confidence: 0.85}

	prompt := builder.Build(email, result, core.AnalysisQuick)

	assert.Contains(t, prompt, "Hello quick note")
	assert.Contains(t, prompt, "0.850")
	assert.Contains(t, prompt, "uncertain: needs further analysis")
}

func TestQuickPromptIsSharedByBothInvocationStyles(t *testing.T) {
	builder := core.NewPromptBuilder()
	email := &core.EmailInput{Subject: "A", Content: "B"}
	result := &core.ClassifierResult{Confidence: 0.9}

	viaBuilder := builder.Build(email, result, core.AnalysisQuick)
	direct := core.QuickPrompt("A B", 0.9)

	assert.Equal(t, direct, viaBuilder)
}

func TestDetailedPromptSpamLabel(t *testing.T) {
	builder := core.NewPromptBuilder()
	email := &core.EmailInput{Subject: "s", Content: "c"}
	result := &core.ClassifierResult{
		IsSpam:        true,
		Confidence:    0.65,
		Probabilities: map[string]float64{"normal": 0.35, "spam": 0.65},
	}

	prompt := builder.Build(email, result, core.AnalysisDetailed)
	assert.Contains(t, prompt, "spam (confidence: 0.650)")
}
