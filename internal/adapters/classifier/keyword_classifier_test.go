package classifier_test

import (
	"context"
	"testing"

	"github.com/mikey/spam-gateway/internal/adapters/classifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestKeywordClassifierCleanText(t *testing.T) {
	c := classifier.NewKeywordClassifier(zap.NewNop())

	result, err := c.Classify(context.Background(), "Minutes from yesterday's planning meeting")
	require.NoError(t, err)

	assert.False(t, result.IsSpam)
	assert.Equal(t, "normal", result.PredictedLabel)
	assert.InDelta(t, 0.9, result.Confidence, 1e-9)
	assert.InDelta(t, 1.0, result.Probabilities["normal"]+result.Probabilities["spam"], 1e-9)
	assert.Equal(t, len("Minutes from yesterday's planning meeting"), result.InputLength)
}

func TestKeywordClassifierSpamText(t *testing.T) {
	c := classifier.NewKeywordClassifier(zap.NewNop())

	result, err := c.Classify(context.Background(),
		"WINNER! Free money waiting, click here and verify your account now")
	require.NoError(t, err)

	assert.True(t, result.IsSpam)
	assert.Equal(t, "spam", result.PredictedLabel)
	assert.Greater(t, result.Confidence, 0.5)
}

func TestKeywordClassifierMatchingIsCaseInsensitive(t *testing.T) {
	c := classifier.NewKeywordClassifier(zap.NewNop())

	lower, err := c.Classify(context.Background(), "free money for the lottery winner")
	require.NoError(t, err)
	upper, err := c.Classify(context.Background(), "FREE MONEY for the LOTTERY WINNER")
	require.NoError(t, err)

	assert.Equal(t, lower.Confidence, upper.Confidence)
	assert.Equal(t, lower.IsSpam, upper.IsSpam)
}

func TestKeywordClassifierProbabilityCap(t *testing.T) {
	c := classifier.NewKeywordClassifier(zap.NewNop())

	// every keyword at once still caps below certainty
	result, err := c.Classify(context.Background(),
		"buy now click here free money winner prize act now limited offer viagra casino lottery "+
			"wire transfer verify your account urgent password credential confirm your identity "+
			"suspended unusual activity")
	require.NoError(t, err)

	assert.True(t, result.IsSpam)
	assert.LessOrEqual(t, result.Confidence, 0.98)
}
