package classifier

import (
	"context"
	"strings"
	"time"

	"github.com/mikey/spam-gateway/internal/core"
	"go.uber.org/zap"
)

// Keyword lists for the heuristic classifier. Deliberately blunt: this
// adapter exists so the gateway runs end-to-end without a model server,
// not to compete with the real classifier.
var (
	spamKeywords = []string{
		"buy now", "click here", "free money", "winner", "prize",
		"act now", "limited offer", "viagra", "casino", "lottery",
		"wire transfer", "verify your account", "urgent",
	}
	phishingKeywords = []string{
		"password", "credential", "confirm your identity", "suspended",
		"unusual activity",
	}
)

// KeywordClassifier is a deterministic keyword-scoring implementation of the
// TextClassifier interface, used for development and testing.
type KeywordClassifier struct {
	logger *zap.Logger
}

// NewKeywordClassifier creates a keyword-heuristic classifier
func NewKeywordClassifier(logger *zap.Logger) *KeywordClassifier {
	return &KeywordClassifier{logger: logger}
}

// Classify scores the text against the keyword lists. Each hit pushes the
// spam probability up; the two class probabilities always sum to 1.
func (c *KeywordClassifier) Classify(ctx context.Context, text string) (*core.ClassifierResult, error) {
	start := time.Now()
	lower := strings.ToLower(text)

	hits := 0
	for _, kw := range spamKeywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	for _, kw := range phishingKeywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}

	spamProb := 0.1 + 0.22*float64(hits)
	if spamProb > 0.98 {
		spamProb = 0.98
	}

	isSpam := spamProb >= 0.5
	confidence := spamProb
	label := core.LabelSpam
	if !isSpam {
		confidence = 1 - spamProb
		label = core.LabelNormal
	}

	result := &core.ClassifierResult{
		IsSpam:         isSpam,
		PredictedLabel: label,
		Confidence:     confidence,
		Probabilities: map[string]float64{
			core.LabelNormal: 1 - spamProb,
			core.LabelSpam:   spamProb,
		},
		ProcessingTime: time.Since(start).Seconds(),
		InputLength:    len(text),
	}

	c.logger.Debug("Keyword classification completed",
		zap.Int("keyword_hits", hits),
		zap.Bool("is_spam", isSpam),
		zap.Float64("confidence", confidence))

	return result, nil
}

// ModelName identifies the heuristic
func (c *KeywordClassifier) ModelName() string {
	return "keyword-heuristic"
}
