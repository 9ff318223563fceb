package prompt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type memRepo struct {
	prompts map[string]*Prompt
}

func newMemRepo() *memRepo {
	return &memRepo{prompts: make(map[string]*Prompt)}
}

func (r *memRepo) Create(ctx context.Context, p *Prompt) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	copied := *p
	r.prompts[p.ID.Hex()] = &copied
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, id string) (*Prompt, error) {
	p, ok := r.prompts[id]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (r *memRepo) List(ctx context.Context, business string, filter map[string]interface{}) ([]Prompt, error) {
	return nil, nil
}

func (r *memRepo) Update(ctx context.Context, p *Prompt) error {
	copied := *p
	r.prompts[p.ID.Hex()] = &copied
	return nil
}

func (r *memRepo) SoftDelete(ctx context.Context, id string) error {
	if p, ok := r.prompts[id]; ok {
		p.Status = StatusDeleted
	}
	return nil
}

func (r *memRepo) FindDue(ctx context.Context, now time.Time) ([]Prompt, error) {
	return nil, nil
}

func (r *memRepo) ClaimForExecution(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return true, nil
}

func (r *memRepo) FinalizeRun(ctx context.Context, id primitive.ObjectID, lastExecuted time.Time, next *time.Time) error {
	return nil
}

func newTestService(repo Repository) Service {
	return NewService(repo, zap.NewNop())
}

func validPrompt() *Prompt {
	return &Prompt{
		Title:        "Morning digest",
		Description:  "Summarize yesterday's orders",
		IsScheduled:  true,
		Frequency:    FrequencyDaily,
		ScheduleTime: "09:00",
		Timezone:     "UTC",
	}
}

func TestCreatePromptComputesSchedule(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)

	p := validPrompt()
	require.NoError(t, svc.CreatePrompt(context.Background(), p))

	assert.Equal(t, StatusActive, p.Status)
	assert.Equal(t, ExecutionIdle, p.ExecutionStatus)
	require.NotNil(t, p.NextExecution)
	assert.True(t, p.NextExecution.After(time.Now()))
}

func TestCreatePromptValidation(t *testing.T) {
	svc := newTestService(newMemRepo())

	p := validPrompt()
	p.Title = ""
	assert.Error(t, svc.CreatePrompt(context.Background(), p))

	p = validPrompt()
	p.Description = ""
	assert.Error(t, svc.CreatePrompt(context.Background(), p))
}

func TestCreatePromptAppliesScheduleDefaults(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)

	p := validPrompt()
	p.Frequency = FrequencyWeekly
	p.SelectedWeekdays = nil
	require.NoError(t, svc.CreatePrompt(context.Background(), p))
	assert.Equal(t, []int{1}, p.SelectedWeekdays)

	p = validPrompt()
	p.Frequency = FrequencyHourly
	p.HourlyInterval = 0
	require.NoError(t, svc.CreatePrompt(context.Background(), p))
	assert.Equal(t, 1, p.HourlyInterval)
}

func TestUpdatePromptRecomputesOnScheduleChange(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)

	p := validPrompt()
	require.NoError(t, svc.CreatePrompt(context.Background(), p))
	original := *p.NextExecution

	// A title-only edit keeps the stored next execution.
	edit := *p
	edit.Title = "Evening digest"
	require.NoError(t, svc.UpdatePrompt(context.Background(), &edit))
	require.NotNil(t, edit.NextExecution)
	assert.Equal(t, original, *edit.NextExecution)

	// Changing the slot time forces a recompute.
	edit2 := edit
	edit2.ScheduleTime = "18:45"
	require.NoError(t, svc.UpdatePrompt(context.Background(), &edit2))
	require.NotNil(t, edit2.NextExecution)
	assert.NotEqual(t, original, *edit2.NextExecution)
	assert.Equal(t, 18, edit2.NextExecution.UTC().Hour())
}

func TestUpdatePromptPreservesOrchestrationState(t *testing.T) {
	repo := newMemRepo()
	svc := newTestService(repo)

	p := validPrompt()
	require.NoError(t, svc.CreatePrompt(context.Background(), p))

	// Simulate a run in flight.
	stored := repo.prompts[p.ID.Hex()]
	stored.ExecutionStatus = ExecutionRunning
	ran := time.Now().Add(-time.Hour)
	stored.LastExecuted = &ran
	stored.Business = "biz-7"

	edit := *p
	edit.Title = "Renamed"
	edit.Business = "spoofed"
	edit.ExecutionStatus = ExecutionIdle
	require.NoError(t, svc.UpdatePrompt(context.Background(), &edit))

	assert.Equal(t, "biz-7", edit.Business)
	assert.Equal(t, ExecutionRunning, edit.ExecutionStatus)
	require.NotNil(t, edit.LastExecuted)
}

func TestUpdatePromptUnknownID(t *testing.T) {
	svc := newTestService(newMemRepo())

	p := validPrompt()
	p.ID = primitive.NewObjectID()
	assert.Error(t, svc.UpdatePrompt(context.Background(), p))
}

func TestPreviewScheduleIgnoresStoredStatus(t *testing.T) {
	svc := newTestService(newMemRepo())

	p := validPrompt()
	p.Status = StatusInactive
	p.IsScheduled = false

	next := svc.PreviewSchedule(p)
	require.NotNil(t, next)
	assert.True(t, next.After(time.Now()))
	// Preview must not mutate the definition it was given.
	assert.Equal(t, StatusInactive, p.Status)
	assert.False(t, p.IsScheduled)
}
