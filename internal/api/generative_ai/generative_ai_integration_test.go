//go:build integration

package generativeAI

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-trip-planner/config"
)

func integrationConfig(t *testing.T) config.GeminiConfig {
	t.Helper()
	key := os.Getenv("GOOGLE_GEMINI_API_KEY")
	if key == "" {
		t.Skip("Skipping integration test: GOOGLE_GEMINI_API_KEY not set")
	}
	return config.GeminiConfig{APIKey: key, Model: "gemini-2.0-flash", Temperature: 0.2, Timeout: 30 * time.Second}
}

func TestAIClient_GenerateContent_Integration(t *testing.T) {
	cfg := integrationConfig(t)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	client, err := NewAIClient(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash", client.ModelName())

	text, err := client.GenerateContent(ctx,
		`Return STRICTLY a JSON object {"destination": "Lisbon", "days": []} and nothing else.`,
		&genai.GenerateContentConfig{Temperature: genai.Ptr(cfg.Temperature), ResponseMIMEType: "application/json"})
	require.NoError(t, err)
	assert.True(t, strings.Contains(text, "Lisbon"))
}
