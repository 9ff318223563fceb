package tokenusage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Service interface {
	// UpdateTokenUsage merges a delta into the thread's running totals and
	// returns the new aggregate. Returns (nil, nil) for an unknown thread.
	UpdateTokenUsage(ctx context.Context, threadID string, delta UsageDelta, userID string) (*TokenUsage, error)
	GetThreadUsage(ctx context.Context, threadID string) (*TokenUsage, error)
}

type ServiceImpl struct {
	Repo   Repository
	Logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &ServiceImpl{
		Repo:   repo,
		Logger: logger,
	}
}

func (s *ServiceImpl) UpdateTokenUsage(ctx context.Context, threadID string, delta UsageDelta, userID string) (*TokenUsage, error) {
	oid, err := primitive.ObjectIDFromHex(threadID)
	if err != nil {
		return nil, fmt.Errorf("invalid thread id: %w", err)
	}

	cost := delta.Cost
	if cost == 0 {
		cost = CalculateModelCost(delta.Model, delta.PromptTokens, delta.CompletionTokens, delta.Provider)
	}

	usage, err := s.Repo.ApplyDelta(ctx, oid, delta, cost)
	if err != nil {
		return nil, fmt.Errorf("failed to merge token usage: %w", err)
	}
	if usage == nil {
		s.Logger.Warn("token usage delta for unknown thread",
			zap.String("thread_id", threadID),
			zap.String("user_id", userID))
		return nil, nil
	}

	s.Logger.Debug("merged token usage",
		zap.String("thread_id", threadID),
		zap.String("model", delta.Model),
		zap.Int64("prompt_tokens", delta.PromptTokens),
		zap.Int64("completion_tokens", delta.CompletionTokens),
		zap.Float64("cost", cost))

	return usage, nil
}

func (s *ServiceImpl) GetThreadUsage(ctx context.Context, threadID string) (*TokenUsage, error) {
	oid, err := primitive.ObjectIDFromHex(threadID)
	if err != nil {
		return nil, fmt.Errorf("invalid thread id: %w", err)
	}
	return s.Repo.GetByThread(ctx, oid)
}
