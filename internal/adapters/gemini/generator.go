package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
)

// Generator is an implementation of the TextGenerator interface using
// Google Gemini
type Generator struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
	logger    *zap.Logger
}

// NewGenerator creates a new Gemini verdict generator
func NewGenerator(
	client *genai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) *Generator {
	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))

	return &Generator{
		client:    client,
		model:     model,
		modelName: modelName,
		logger:    logger,
	}
}

// Generate produces free-form analysis text for a verdict prompt
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from Gemini")
	}

	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])

	g.logger.Debug("Gemini generation completed",
		zap.String("model", g.modelName),
		zap.Int("response_length", len(responseText)))

	return responseText, nil
}

// ModelName identifies the underlying model
func (g *Generator) ModelName() string {
	return g.modelName
}

// Close closes the Gemini client
func (g *Generator) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
