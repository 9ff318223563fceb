package aiconfig

import (
	"context"
	"time"

	"go-assistant/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	// ActiveAIConfig returns the user's active AI credential, preferring the
	// default one. (nil, nil) when the user has none.
	ActiveAIConfig(ctx context.Context, userID primitive.ObjectID) (*AIConfig, error)
	ActiveCommerceConfig(ctx context.Context, userID primitive.ObjectID) (*CommerceConfig, error)

	UpsertAIConfig(ctx context.Context, cfg *AIConfig) error
	UpsertCommerceConfig(ctx context.Context, cfg *CommerceConfig) error
	ListAIConfigs(ctx context.Context, userID primitive.ObjectID) ([]AIConfig, error)
}

type RepositoryImpl struct {
	aiCollection       *mongo.Collection
	commerceCollection *mongo.Collection
}

func NewRepository(db *database.MongodbDB) Repository {
	return &RepositoryImpl{
		aiCollection:       db.DB.Collection("ai_configs"),
		commerceCollection: db.DB.Collection("commerce_configs"),
	}
}

func (r *RepositoryImpl) ActiveAIConfig(ctx context.Context, userID primitive.ObjectID) (*AIConfig, error) {
	filter := bson.M{"user_id": userID, "status": StatusActive}
	opts := options.FindOne().SetSort(bson.D{{Key: "is_default", Value: -1}, {Key: "updated_at", Value: -1}})

	var cfg AIConfig
	err := r.aiCollection.FindOne(ctx, filter, opts).Decode(&cfg)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *RepositoryImpl) ActiveCommerceConfig(ctx context.Context, userID primitive.ObjectID) (*CommerceConfig, error) {
	filter := bson.M{"user_id": userID, "status": StatusActive}

	var cfg CommerceConfig
	err := r.commerceCollection.FindOne(ctx, filter).Decode(&cfg)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &cfg, nil
}

func (r *RepositoryImpl) UpsertAIConfig(ctx context.Context, cfg *AIConfig) error {
	now := time.Now()
	cfg.UpdatedAt = now
	if cfg.ID.IsZero() {
		cfg.ID = primitive.NewObjectID()
		cfg.CreatedAt = now
	}

	filter := bson.M{"_id": cfg.ID}
	update := bson.M{"$set": cfg}
	_, err := r.aiCollection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *RepositoryImpl) UpsertCommerceConfig(ctx context.Context, cfg *CommerceConfig) error {
	now := time.Now()
	cfg.UpdatedAt = now
	if cfg.ID.IsZero() {
		cfg.ID = primitive.NewObjectID()
		cfg.CreatedAt = now
	}

	filter := bson.M{"_id": cfg.ID}
	update := bson.M{"$set": cfg}
	_, err := r.commerceCollection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *RepositoryImpl) ListAIConfigs(ctx context.Context, userID primitive.ObjectID) ([]AIConfig, error) {
	cursor, err := r.aiCollection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var configs []AIConfig
	if err = cursor.All(ctx, &configs); err != nil {
		return nil, err
	}
	if configs == nil {
		configs = []AIConfig{}
	}
	return configs, nil
}
