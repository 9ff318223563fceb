package tokenusage

import (
	"strings"

	"go.uber.org/zap"
)

// modelPrice holds USD prices per million tokens.
type modelPrice struct {
	Input  float64
	Output float64
}

// pricing is the static price table, keyed by lowercase model name. Prices
// are per million tokens.
var pricing = map[string]modelPrice{
	"gpt-4o":                     {Input: 2.50, Output: 10.00},
	"gpt-4o-mini":                {Input: 0.15, Output: 0.60},
	"gpt-4.1":                    {Input: 2.00, Output: 8.00},
	"gpt-4.1-mini":               {Input: 0.40, Output: 1.60},
	"gpt-4.1-nano":               {Input: 0.10, Output: 0.40},
	"o3-mini":                    {Input: 1.10, Output: 4.40},
	"gpt-3.5-turbo":              {Input: 0.50, Output: 1.50},
	"claude-3-5-sonnet-20241022": {Input: 3.00, Output: 15.00},
	"claude-3-5-haiku-20241022":  {Input: 0.80, Output: 4.00},
	"claude-3-opus-20240229":     {Input: 15.00, Output: 75.00},
	"gemini-1.5-pro":             {Input: 1.25, Output: 5.00},
	"gemini-1.5-flash":           {Input: 0.075, Output: 0.30},
	"gemini-2.0-flash":           {Input: 0.10, Output: 0.40},
}

// CalculateModelCost converts token counts into USD using the static price
// table. A model with no pricing data costs zero and logs a warning; missing
// pricing must never block token tracking.
func CalculateModelCost(model string, promptTokens, completionTokens int64, provider string) float64 {
	price, ok := lookupPrice(model)
	if !ok {
		zap.L().Warn("no pricing data for model, recording zero cost",
			zap.String("model", model),
			zap.String("provider", provider))
		return 0
	}

	inputCost := float64(promptTokens) / 1_000_000 * price.Input
	outputCost := float64(completionTokens) / 1_000_000 * price.Output
	return inputCost + outputCost
}

func lookupPrice(model string) (modelPrice, bool) {
	key := strings.ToLower(strings.TrimSpace(model))
	if price, ok := pricing[key]; ok {
		return price, true
	}
	// Dated snapshots ("gpt-4o-2024-08-06") fall back to their base model.
	// Longest prefix wins so "gpt-4o-mini-..." does not resolve to "gpt-4o".
	var best string
	for base := range pricing {
		if strings.HasPrefix(key, base) && len(base) > len(best) {
			best = base
		}
	}
	if best != "" {
		return pricing[best], true
	}
	return modelPrice{}, false
}
