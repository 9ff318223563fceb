package thread

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
	Create(ctx context.Context, thread *Thread) error
	GetByID(ctx context.Context, id string) (*Thread, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]Thread, error)
	ListByPrompt(ctx context.Context, promptID string, limit int64) ([]Thread, error)
}

type RepositoryImpl struct {
	collection *mongo.Collection
}

func NewRepository(db *database.MongodbDB) Repository {
	return &RepositoryImpl{
		collection: db.DB.Collection("threads"),
	}
}

func (r *RepositoryImpl) Create(ctx context.Context, thread *Thread) error {
	if thread.ID.IsZero() {
		thread.ID = primitive.NewObjectID()
	}
	thread.CreatedAt = time.Now()
	thread.UpdatedAt = thread.CreatedAt

	_, err := r.collection.InsertOne(ctx, thread)
	return err
}

func (r *RepositoryImpl) GetByID(ctx context.Context, id string) (*Thread, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var t Thread
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&t)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *RepositoryImpl) ListByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]Thread, error) {
	return r.list(ctx, bson.M{"user_id": userID}, limit)
}

func (r *RepositoryImpl) ListByPrompt(ctx context.Context, promptID string, limit int64) ([]Thread, error) {
	return r.list(ctx, bson.M{"metadata." + MetaScheduledPromptID: promptID}, limit)
}

func (r *RepositoryImpl) list(ctx context.Context, filter bson.M, limit int64) ([]Thread, error) {
	if limit <= 0 {
		limit = 50
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var threads []Thread
	if err = cursor.All(ctx, &threads); err != nil {
		return nil, err
	}

	if threads == nil {
		threads = []Thread{}
	}
	return threads, nil
}
