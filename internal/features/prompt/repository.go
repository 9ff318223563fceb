package prompt

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
	Create(ctx context.Context, p *Prompt) error
	GetByID(ctx context.Context, id string) (*Prompt, error)
	List(ctx context.Context, business string, filter map[string]interface{}) ([]Prompt, error)
	Update(ctx context.Context, p *Prompt) error
	SoftDelete(ctx context.Context, id string) error

	// FindDue returns active scheduled prompts whose next execution has
	// elapsed (or was never computed) and which are not currently running.
	FindDue(ctx context.Context, now time.Time) ([]Prompt, error)

	// ClaimForExecution atomically flips execution_status to running, but
	// only if it is not already running. Reports whether the claim won.
	ClaimForExecution(ctx context.Context, id primitive.ObjectID) (bool, error)

	// FinalizeRun releases the claim: execution_status back to idle,
	// last_executed and next_execution persisted in the same update.
	FinalizeRun(ctx context.Context, id primitive.ObjectID, lastExecuted time.Time, next *time.Time) error
}

type RepositoryImpl struct {
	collection *mongo.Collection
}

func NewRepository(db *database.MongodbDB) Repository {
	return &RepositoryImpl{
		collection: db.DB.Collection("prompts"),
	}
}

func (r *RepositoryImpl) Create(ctx context.Context, p *Prompt) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt

	_, err := r.collection.InsertOne(ctx, p)
	return err
}

func (r *RepositoryImpl) GetByID(ctx context.Context, id string) (*Prompt, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var p Prompt
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&p)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *RepositoryImpl) List(ctx context.Context, business string, filter map[string]interface{}) ([]Prompt, error) {
	query := bson.M{
		"business": business,
		"status":   bson.M{"$ne": StatusDeleted},
	}
	for k, v := range filter {
		query[k] = v
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var prompts []Prompt
	if err = cursor.All(ctx, &prompts); err != nil {
		return nil, err
	}
	if prompts == nil {
		prompts = []Prompt{}
	}
	return prompts, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, p *Prompt) error {
	p.UpdatedAt = time.Now()
	filter := bson.M{"_id": p.ID}
	update := bson.M{"$set": p}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}

// SoftDelete flips the status; prompt rows are never physically removed.
func (r *RepositoryImpl) SoftDelete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	update := bson.M{
		"$set": bson.M{
			"status":     StatusDeleted,
			"updated_at": time.Now(),
		},
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	return err
}

func (r *RepositoryImpl) FindDue(ctx context.Context, now time.Time) ([]Prompt, error) {
	// next_execution == nil covers freshly created/edited prompts whose
	// schedule has not been computed yet; the orchestrator resolves them
	// lazily.
	filter := bson.M{
		"status":           StatusActive,
		"is_scheduled":     true,
		"execution_status": bson.M{"$ne": ExecutionRunning},
		"$or": []bson.M{
			{"next_execution": nil},
			{"next_execution": bson.M{"$lte": now}},
		},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var prompts []Prompt
	if err = cursor.All(ctx, &prompts); err != nil {
		return nil, err
	}
	if prompts == nil {
		prompts = []Prompt{}
	}
	return prompts, nil
}

func (r *RepositoryImpl) ClaimForExecution(ctx context.Context, id primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"_id":              id,
		"execution_status": bson.M{"$ne": ExecutionRunning},
	}
	update := bson.M{
		"$set": bson.M{
			"execution_status": ExecutionRunning,
			"updated_at":       time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

func (r *RepositoryImpl) FinalizeRun(ctx context.Context, id primitive.ObjectID, lastExecuted time.Time, next *time.Time) error {
	update := bson.M{
		"$set": bson.M{
			"execution_status": ExecutionIdle,
			"last_executed":    lastExecuted,
			"next_execution":   next,
			"updated_at":       time.Now(),
		},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}
