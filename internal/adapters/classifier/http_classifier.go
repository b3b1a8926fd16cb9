package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mikey/spam-gateway/internal/core"
	"go.uber.org/zap"
)

// HTTPClassifier calls a remote text-classification inference endpoint.
// The endpoint accepts {"text": ...} and returns the ClassifierResult shape.
type HTTPClassifier struct {
	endpoint  string
	modelName string
	client    *http.Client
	logger    *zap.Logger
}

// NewHTTPClassifier creates a classifier backed by a remote inference server
func NewHTTPClassifier(endpoint, modelName string, timeout time.Duration, logger *zap.Logger) *HTTPClassifier {
	return &HTTPClassifier{
		endpoint:  endpoint,
		modelName: modelName,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

type classifyRequest struct {
	Text string `json:"text"`
}

// Classify runs spam classification over raw email text
func (c *HTTPClassifier) Classify(ctx context.Context, text string) (*core.ClassifierResult, error) {
	start := time.Now()

	body, err := json.Marshal(classifyRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to encode classify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classifier request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("classifier returned status %d: %s", resp.StatusCode, string(payload))
	}

	var result core.ClassifierResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode classifier response: %w", err)
	}

	// Fill in request-side measurements the inference server may omit
	if result.ProcessingTime == 0 {
		result.ProcessingTime = time.Since(start).Seconds()
	}
	if result.InputLength == 0 {
		result.InputLength = len(text)
	}

	c.logger.Debug("Remote classification completed",
		zap.Bool("is_spam", result.IsSpam),
		zap.Float64("confidence", result.Confidence),
		zap.Duration("elapsed", time.Since(start)))

	return &result, nil
}

// ModelName identifies the underlying model
func (c *HTTPClassifier) ModelName() string {
	return c.modelName
}
