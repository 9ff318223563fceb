package tokenusage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// fakeRepo reproduces the additive $inc merge in memory.
type fakeRepo struct {
	mu     sync.Mutex
	usages map[primitive.ObjectID]*TokenUsage
}

func newFakeRepo(ids ...primitive.ObjectID) *fakeRepo {
	usages := make(map[primitive.ObjectID]*TokenUsage)
	for _, id := range ids {
		usages[id] = &TokenUsage{ModelCosts: map[string]float64{}}
	}
	return &fakeRepo{usages: usages}
}

func (f *fakeRepo) ApplyDelta(_ context.Context, threadID primitive.ObjectID, delta UsageDelta, cost float64) (*TokenUsage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.usages[threadID]
	if !ok {
		return nil, nil
	}
	u.TotalTokens += delta.PromptTokens + delta.CompletionTokens
	u.PromptTokens += delta.PromptTokens
	u.CompletionTokens += delta.CompletionTokens
	u.CachedTokens += delta.CachedTokens
	u.TotalCost += cost
	if delta.Model != "" {
		u.ModelCosts[modelKey(delta.Model)] += cost
	}
	u.LastUpdated = time.Now()

	out := *u
	return &out, nil
}

func (f *fakeRepo) GetByThread(_ context.Context, threadID primitive.ObjectID) (*TokenUsage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.usages[threadID]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func TestUpdateTokenUsageAdditiveMerge(t *testing.T) {
	threadID := primitive.NewObjectID()
	repo := newFakeRepo(threadID)
	svc := NewService(repo, zap.NewNop())

	_, err := svc.UpdateTokenUsage(context.Background(), threadID.Hex(), UsageDelta{
		Model:            "gpt-4o",
		PromptTokens:     10,
		CompletionTokens: 5,
	}, "")
	require.NoError(t, err)

	usage, err := svc.UpdateTokenUsage(context.Background(), threadID.Hex(), UsageDelta{
		Model:            "gpt-4o",
		PromptTokens:     3,
		CompletionTokens: 2,
	}, "")
	require.NoError(t, err)
	require.NotNil(t, usage)

	assert.Equal(t, int64(13), usage.PromptTokens)
	assert.Equal(t, int64(7), usage.CompletionTokens)
	assert.Equal(t, int64(20), usage.TotalTokens)
}

func TestUpdateTokenUsagePerModelCostMap(t *testing.T) {
	threadID := primitive.NewObjectID()
	repo := newFakeRepo(threadID)
	svc := NewService(repo, zap.NewNop())

	_, err := svc.UpdateTokenUsage(context.Background(), threadID.Hex(), UsageDelta{
		Model:        "gpt-4o",
		PromptTokens: 1_000_000,
	}, "")
	require.NoError(t, err)

	usage, err := svc.UpdateTokenUsage(context.Background(), threadID.Hex(), UsageDelta{
		Model:        "gpt-4.1",
		PromptTokens: 1_000_000,
	}, "")
	require.NoError(t, err)
	require.NotNil(t, usage)

	// Two distinct models keep separate cost entries; note the sanitized key.
	assert.InDelta(t, 2.50, usage.ModelCosts["gpt-4o"], 1e-9)
	assert.InDelta(t, 2.00, usage.ModelCosts["gpt-4_1"], 1e-9)
	assert.InDelta(t, 4.50, usage.TotalCost, 1e-9)
}

func TestUpdateTokenUsageConcurrentSubmitters(t *testing.T) {
	threadID := primitive.NewObjectID()
	repo := newFakeRepo(threadID)
	svc := NewService(repo, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.UpdateTokenUsage(context.Background(), threadID.Hex(), UsageDelta{
				Model:            "gpt-4o-mini",
				PromptTokens:     10,
				CompletionTokens: 5,
			}, "")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	usage, err := svc.GetThreadUsage(context.Background(), threadID.Hex())
	require.NoError(t, err)
	require.NotNil(t, usage)
	assert.Equal(t, int64(200), usage.PromptTokens)
	assert.Equal(t, int64(100), usage.CompletionTokens)
	assert.Equal(t, int64(300), usage.TotalTokens)
}

func TestUpdateTokenUsageUnknownThread(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, zap.NewNop())

	usage, err := svc.UpdateTokenUsage(context.Background(), primitive.NewObjectID().Hex(), UsageDelta{
		Model:        "gpt-4o",
		PromptTokens: 10,
	}, "")
	require.NoError(t, err)
	assert.Nil(t, usage)
}

func TestUpdateTokenUsageInvalidThreadID(t *testing.T) {
	svc := NewService(newFakeRepo(), zap.NewNop())

	_, err := svc.UpdateTokenUsage(context.Background(), "not-an-object-id", UsageDelta{}, "")
	assert.Error(t, err)
}

func TestUpdateTokenUsagePrecomputedCostWins(t *testing.T) {
	threadID := primitive.NewObjectID()
	repo := newFakeRepo(threadID)
	svc := NewService(repo, zap.NewNop())

	usage, err := svc.UpdateTokenUsage(context.Background(), threadID.Hex(), UsageDelta{
		Model:        "gpt-4o",
		PromptTokens: 1_000_000,
		Cost:         0.42,
	}, "")
	require.NoError(t, err)
	require.NotNil(t, usage)
	assert.InDelta(t, 0.42, usage.TotalCost, 1e-9)
}
