package tokenusage

import (
	"context"
	"strings"
	"time"

	"go-assistant/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	// ApplyDelta merges a usage increment into the thread's embedded totals
	// in one atomic update and returns the post-merge aggregate. Concurrent
	// submitters for the same thread must not lose updates.
	ApplyDelta(ctx context.Context, threadID primitive.ObjectID, delta UsageDelta, cost float64) (*TokenUsage, error)
	GetByThread(ctx context.Context, threadID primitive.ObjectID) (*TokenUsage, error)
}

type RepositoryImpl struct {
	collection *mongo.Collection
}

// NewRepository operates on the threads collection: token usage is owned by
// the conversation thread document.
func NewRepository(db *database.MongodbDB) Repository {
	return &RepositoryImpl{
		collection: db.DB.Collection("threads"),
	}
}

func (r *RepositoryImpl) ApplyDelta(ctx context.Context, threadID primitive.ObjectID, delta UsageDelta, cost float64) (*TokenUsage, error) {
	inc := bson.M{
		"usage.total_tokens":      delta.PromptTokens + delta.CompletionTokens,
		"usage.prompt_tokens":     delta.PromptTokens,
		"usage.completion_tokens": delta.CompletionTokens,
		"usage.cached_tokens":     delta.CachedTokens,
		"usage.total_cost":        cost,
	}
	if delta.Model != "" {
		inc["usage.model_costs."+modelKey(delta.Model)] = cost
	}

	update := bson.M{
		"$inc": inc,
		"$set": bson.M{"usage.last_updated": time.Now()},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc struct {
		Usage TokenUsage `bson:"usage"`
	}
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": threadID}, update, opts).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &doc.Usage, nil
}

func (r *RepositoryImpl) GetByThread(ctx context.Context, threadID primitive.ObjectID) (*TokenUsage, error) {
	var doc struct {
		Usage TokenUsage `bson:"usage"`
	}
	err := r.collection.FindOne(ctx, bson.M{"_id": threadID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &doc.Usage, nil
}

// modelKey makes a model name safe as a Mongo field name ("gpt-4.1" would
// otherwise be parsed as a nested path).
func modelKey(model string) string {
	return strings.ReplaceAll(strings.ToLower(model), ".", "_")
}
