package prompt

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"go.uber.org/zap"
)

type Service interface {
	CreatePrompt(ctx context.Context, p *Prompt) error
	GetPrompt(ctx context.Context, id string) (*Prompt, error)
	ListPrompts(ctx context.Context, business string, filter map[string]interface{}) ([]Prompt, error)
	UpdatePrompt(ctx context.Context, p *Prompt) error
	DeletePrompt(ctx context.Context, id string) error

	// PreviewSchedule computes the next run for an unsaved definition, used
	// by editing flows to show the effect of a change before saving.
	PreviewSchedule(p *Prompt) *time.Time
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

func (s *ServiceImpl) CreatePrompt(ctx context.Context, p *Prompt) error {
	if p.Title == "" {
		return fmt.Errorf("prompt title is required")
	}
	if p.Description == "" {
		return fmt.Errorf("prompt description is required")
	}

	if p.Status == "" {
		p.Status = StatusActive
	}
	p.ExecutionStatus = ExecutionIdle
	p.LastExecuted = nil
	applyScheduleDefaults(p)

	p.NextExecution = NextExecution(p, time.Now())

	if err := s.Repo.Create(ctx, p); err != nil {
		return fmt.Errorf("failed to create prompt: %w", err)
	}

	s.Logger.Info("prompt created",
		zap.String("prompt_id", p.ID.Hex()),
		zap.String("frequency", string(p.Frequency)),
		zap.Bool("scheduled", p.IsScheduled))
	return nil
}

func (s *ServiceImpl) GetPrompt(ctx context.Context, id string) (*Prompt, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *ServiceImpl) ListPrompts(ctx context.Context, business string, filter map[string]interface{}) ([]Prompt, error) {
	return s.Repo.List(ctx, business, filter)
}

func (s *ServiceImpl) UpdatePrompt(ctx context.Context, p *Prompt) error {
	existing, err := s.Repo.GetByID(ctx, p.ID.Hex())
	if err != nil {
		return fmt.Errorf("failed to load prompt: %w", err)
	}
	if existing == nil {
		return fmt.Errorf("prompt not found")
	}

	// Orchestration state is owned by the executor, not the edit flow.
	p.CreatedAt = existing.CreatedAt
	p.Business = existing.Business
	p.LastExecuted = existing.LastExecuted
	p.ExecutionStatus = existing.ExecutionStatus
	p.NextExecution = existing.NextExecution

	applyScheduleDefaults(p)

	if scheduleChanged(existing, p) {
		p.NextExecution = NextExecution(p, time.Now())
		p.ExecutionStatus = ExecutionIdle
		s.Logger.Info("prompt schedule recomputed",
			zap.String("prompt_id", p.ID.Hex()),
			zap.Timep("next_execution", p.NextExecution))
	}

	if err := s.Repo.Update(ctx, p); err != nil {
		return fmt.Errorf("failed to update prompt: %w", err)
	}
	return nil
}

func (s *ServiceImpl) DeletePrompt(ctx context.Context, id string) error {
	return s.Repo.SoftDelete(ctx, id)
}

func (s *ServiceImpl) PreviewSchedule(p *Prompt) *time.Time {
	preview := *p
	// Preview evaluates the schedule regardless of the stored status.
	preview.Status = StatusActive
	preview.IsScheduled = true
	applyScheduleDefaults(&preview)
	return NextExecution(&preview, time.Now())
}

func applyScheduleDefaults(p *Prompt) {
	if p.Frequency == FrequencyWeekly && p.SelectedWeekdays == nil {
		p.SelectedWeekdays = []int{1} // Monday
	}
	if p.Frequency == FrequencyHourly && p.HourlyInterval <= 0 {
		p.HourlyInterval = 1
	}
}

// scheduleView is the subset of prompt fields whose change forces a
// next-execution recompute.
type scheduleView struct {
	Status           Status
	IsScheduled      bool
	Frequency        Frequency
	ScheduleTime     string
	Timezone         string
	StartDate        *time.Time
	EndDate          *time.Time
	HourlyInterval   int
	SelectedWeekdays []int
	DayOfMonth       int
	StartMonth       int
	EndMonth         int
	SelectedYear     int
	SelectedMonth    int
	SelectedDay      int
	SpecificDates    []string
}

func scheduleChanged(old, new *Prompt) bool {
	return !reflect.DeepEqual(viewOf(old), viewOf(new))
}

func viewOf(p *Prompt) scheduleView {
	return scheduleView{
		Status:           p.Status,
		IsScheduled:      p.IsScheduled,
		Frequency:        p.Frequency,
		ScheduleTime:     p.ScheduleTime,
		Timezone:         p.Timezone,
		StartDate:        p.StartDate,
		EndDate:          p.EndDate,
		HourlyInterval:   p.HourlyInterval,
		SelectedWeekdays: p.SelectedWeekdays,
		DayOfMonth:       p.DayOfMonth,
		StartMonth:       p.StartMonth,
		EndMonth:         p.EndMonth,
		SelectedYear:     p.SelectedYear,
		SelectedMonth:    p.SelectedMonth,
		SelectedDay:      p.SelectedDay,
		SpecificDates:    p.SpecificDates,
	}
}
