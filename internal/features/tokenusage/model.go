package tokenusage

import "time"

// TokenUsage is the running total embedded in a conversation thread. Deltas
// are always added to it, never assigned over it.
type TokenUsage struct {
	TotalTokens      int64              `bson:"total_tokens" json:"total_tokens"`
	PromptTokens     int64              `bson:"prompt_tokens" json:"prompt_tokens"`
	CompletionTokens int64              `bson:"completion_tokens" json:"completion_tokens"`
	CachedTokens     int64              `bson:"cached_tokens" json:"cached_tokens"`
	TotalCost        float64            `bson:"total_cost" json:"total_cost"`
	ModelCosts       map[string]float64 `bson:"model_costs,omitempty" json:"model_costs,omitempty"`
	LastUpdated      time.Time          `bson:"last_updated" json:"last_updated"`
}

// UsageDelta is one increment submitted by a conversation turn or a
// suggestion-generation call.
type UsageDelta struct {
	Model            string  `json:"model"`
	Provider         string  `json:"provider,omitempty"`
	PromptTokens     int64   `json:"prompt_tokens"`
	CompletionTokens int64   `json:"completion_tokens"`
	CachedTokens     int64   `json:"cached_tokens"`
	// Cost is the pre-computed cost for this event. When zero it is derived
	// from the static pricing table.
	Cost float64 `json:"cost"`
}
