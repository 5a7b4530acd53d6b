package generativeAI

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/FACorreiaa/go-trip-planner/config"
)

var ErrMissingAPIKey = errors.New("gemini api key is not configured")

// AIClient generates text with a Gemini model.
type AIClient struct {
	client *genai.Client
	model  string
}

func NewAIClient(ctx context.Context, cfg config.GeminiConfig) (*AIClient, error) {
	if !cfg.Enabled() {
		return nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &AIClient{
		client: client,
		model:  cfg.Model,
	}, nil
}

func (ai *AIClient) ModelName() string {
	return ai.model
}

// GenerateContent sends prompt as a single-turn request and returns the
// concatenated text of the first candidate.
func (ai *AIClient) GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	result, err := ai.client.Models.GenerateContent(ctx, ai.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	return result.Text(), nil
}
