package execution

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
	CreateLog(ctx context.Context, log *ExecutionLog) error

	// FinalizeLog closes a run record: terminal status, completion time,
	// duration and outcome message in one update.
	FinalizeLog(ctx context.Context, id primitive.ObjectID, status LogStatus, successMsg, errorMsg string) error

	ListByPrompt(ctx context.Context, promptID primitive.ObjectID, limit int64) ([]ExecutionLog, error)
	ListByBusiness(ctx context.Context, business string, limit int64) ([]ExecutionLog, error)
}

type RepositoryImpl struct {
	collection *mongo.Collection
}

func NewRepository(db *database.MongodbDB) Repository {
	return &RepositoryImpl{
		collection: db.DB.Collection("execution_logs"),
	}
}

func (r *RepositoryImpl) CreateLog(ctx context.Context, log *ExecutionLog) error {
	if log.ID.IsZero() {
		log.ID = primitive.NewObjectID()
	}
	if log.StartedAt.IsZero() {
		log.StartedAt = time.Now()
	}
	log.Status = LogRunning

	_, err := r.collection.InsertOne(ctx, log)
	return err
}

func (r *RepositoryImpl) FinalizeLog(ctx context.Context, id primitive.ObjectID, status LogStatus, successMsg, errorMsg string) error {
	now := time.Now()

	var started struct {
		StartedAt time.Time `bson:"started_at"`
	}
	duration := int64(0)
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&started); err == nil {
		duration = now.Sub(started.StartedAt).Milliseconds()
	}

	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"status":          status,
			"completed_at":    now,
			"duration_ms":     duration,
			"success_message": successMsg,
			"error_message":   errorMsg,
		}},
	)
	return err
}

func (r *RepositoryImpl) ListByPrompt(ctx context.Context, promptID primitive.ObjectID, limit int64) ([]ExecutionLog, error) {
	return r.list(ctx, bson.M{"prompt_id": promptID}, limit)
}

func (r *RepositoryImpl) ListByBusiness(ctx context.Context, business string, limit int64) ([]ExecutionLog, error) {
	return r.list(ctx, bson.M{"business": business}, limit)
}

func (r *RepositoryImpl) list(ctx context.Context, filter bson.M, limit int64) ([]ExecutionLog, error) {
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.M{"started_at": -1}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	logs := make([]ExecutionLog, 0)
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
