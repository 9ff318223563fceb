package execution

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go-assistant/internal/features/prompt"

	"go.uber.org/zap"
)

// BatchProcessor runs one pass over every due prompt. It never returns an
// error: individual prompt failures are folded into their result entry, and
// a pass always yields exactly one result per due prompt.
type BatchProcessor interface {
	ProcessDuePrompts(ctx context.Context) []PromptExecutionResult
	ProcessDuePromptsParallel(ctx context.Context) []PromptExecutionResult
}

type BatchProcessorImpl struct {
	prompts      prompt.Repository
	orchestrator Orchestrator
	logger       *zap.Logger
}

func NewBatchProcessor(prompts prompt.Repository, orchestrator Orchestrator, logger *zap.Logger) BatchProcessor {
	return &BatchProcessorImpl{
		prompts:      prompts,
		orchestrator: orchestrator,
		logger:       logger,
	}
}

func (b *BatchProcessorImpl) ProcessDuePrompts(ctx context.Context) []PromptExecutionResult {
	due := b.findDue(ctx)
	results := make([]PromptExecutionResult, 0, len(due))
	for i := range due {
		results = append(results, b.runOne(ctx, &due[i]))
	}
	return results
}

// ProcessDuePromptsParallel runs every due prompt concurrently. Results come
// back in the due order regardless of completion order.
func (b *BatchProcessorImpl) ProcessDuePromptsParallel(ctx context.Context) []PromptExecutionResult {
	due := b.findDue(ctx)
	results := make([]PromptExecutionResult, len(due))

	var wg sync.WaitGroup
	for i := range due {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = b.runOne(ctx, &due[i])
		}(i)
	}
	wg.Wait()

	return results
}

func (b *BatchProcessorImpl) findDue(ctx context.Context) []prompt.Prompt {
	due, err := b.prompts.FindDue(ctx, time.Now())
	if err != nil {
		b.logger.Error("failed to query due prompts", zap.Error(err))
		return nil
	}
	if len(due) > 0 {
		b.logger.Info("found due prompts", zap.Int("count", len(due)))
	}
	return due
}

// runOne wraps one prompt execution so that neither an error nor a panic can
// take down the pass or swallow the prompt's result entry.
func (b *BatchProcessorImpl) runOne(ctx context.Context, p *prompt.Prompt) (result PromptExecutionResult) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("panic while processing due prompt",
				zap.String("prompt_id", p.ID.Hex()),
				zap.Any("panic", r))
			result = PromptExecutionResult{
				PromptID:     p.ID.Hex(),
				PromptTitle:  p.Title,
				FailureCount: 1,
				Errors:       []string{fmt.Sprintf("internal error: %v", r)},
				ExecutedAt:   time.Now(),
			}
		}
	}()

	res, err := b.orchestrator.ExecuteScheduledPrompt(ctx, p.ID.Hex())
	if err != nil {
		return PromptExecutionResult{
			PromptID:     p.ID.Hex(),
			PromptTitle:  p.Title,
			FailureCount: 1,
			Errors:       []string{err.Error()},
			ExecutedAt:   time.Now(),
		}
	}
	return *res
}
