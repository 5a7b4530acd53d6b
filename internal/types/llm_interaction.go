package types

import "github.com/google/uuid"

type LlmInteraction struct {
	UserID       uuid.UUID `json:"user_id"`
	Prompt       string    `json:"prompt"`
	ResponseText string    `json:"response_text"`
	ModelUsed    string    `json:"model_used"`
	LatencyMs    int       `json:"latency_ms"`
	Outcome      string    `json:"outcome"`
}
