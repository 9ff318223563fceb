// Package openai is the reference Conversation Executor: a streaming chat
// completion against any OpenAI-compatible endpoint. Persisted chat messages
// and token accounting happen here as a consequence of draining the stream,
// which is all the scheduler core relies on.
package openai

import (
	"context"
	"fmt"

	"go-assistant/internal/executor"
	"go-assistant/internal/features/tokenusage"

	openaisdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type Adapter struct {
	usage   tokenusage.Service
	limiter *rate.Limiter
	logger  *zap.Logger
}

// New builds the adapter. rps bounds outbound provider calls across all
// concurrent per-user executions.
func New(usage tokenusage.Service, rps float64, logger *zap.Logger) *Adapter {
	if rps <= 0 {
		rps = 2
	}
	return &Adapter{
		usage:   usage,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		logger:  logger,
	}
}

func (a *Adapter) Execute(ctx context.Context, req executor.Request) (<-chan executor.Chunk, error) {
	if req.AI.APIKey == "" {
		return nil, fmt.Errorf("missing API key for provider %q", req.AI.Provider)
	}

	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait aborted: %w", err)
	}

	opts := []option.RequestOption{option.WithAPIKey(req.AI.APIKey)}
	if req.AI.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(req.AI.BaseURL))
	}
	client := openaisdk.NewClient(opts...)

	out := make(chan executor.Chunk, 16)

	go func() {
		defer close(out)

		stream := client.Chat.Completions.NewStreaming(ctx, openaisdk.ChatCompletionNewParams{
			Model: openaisdk.ChatModel(req.AI.Model),
			Messages: []openaisdk.ChatCompletionMessageParamUnion{
				openaisdk.UserMessage(req.UserText),
			},
			StreamOptions: openaisdk.ChatCompletionStreamOptionsParam{
				IncludeUsage: openaisdk.Bool(true),
			},
		})
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()

			if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
				out <- executor.Chunk{
					Type:    executor.ChunkContent,
					Content: chunk.Choices[0].Delta.Content,
				}
			}

			// The terminal chunk carries the usage totals for the call.
			if chunk.Usage.TotalTokens > 0 {
				delta := tokenusage.UsageDelta{
					Model:            req.AI.Model,
					Provider:         req.AI.Provider,
					PromptTokens:     chunk.Usage.PromptTokens,
					CompletionTokens: chunk.Usage.CompletionTokens,
					CachedTokens:     chunk.Usage.PromptTokensDetails.CachedTokens,
				}
				a.reportUsage(ctx, req, delta)
				out <- executor.Chunk{Type: executor.ChunkUsage, Usage: &delta}
			}
		}

		if err := stream.Err(); err != nil {
			a.logger.Error("conversation stream failed",
				zap.String("request_id", req.RequestID),
				zap.String("thread_id", req.ThreadID),
				zap.Error(err))
			out <- executor.Chunk{Type: executor.ChunkError, Err: err}
		}
	}()

	return out, nil
}

func (a *Adapter) reportUsage(ctx context.Context, req executor.Request, delta tokenusage.UsageDelta) {
	if a.usage == nil {
		return
	}
	if _, err := a.usage.UpdateTokenUsage(ctx, req.ThreadID, delta, ""); err != nil {
		// Token accounting is best effort relative to message delivery.
		a.logger.Warn("failed to record token usage",
			zap.String("request_id", req.RequestID),
			zap.String("thread_id", req.ThreadID),
			zap.Error(err))
	}
}
