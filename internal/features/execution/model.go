package execution

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LogStatus string

const (
	LogRunning   LogStatus = "running"
	LogCompleted LogStatus = "completed"
	LogFailed    LogStatus = "failed"
)

// ExecutionLog is one persisted run record for a scheduled prompt. The
// prompt title and text are snapshotted so the record stays meaningful if
// the prompt is later edited or deleted.
type ExecutionLog struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PromptID primitive.ObjectID `bson:"prompt_id" json:"prompt_id"`
	Business string             `bson:"business" json:"business"`

	PromptTitle string `bson:"prompt_title" json:"prompt_title"`
	PromptText  string `bson:"prompt_text,omitempty" json:"prompt_text,omitempty"`

	Status         LogStatus  `bson:"status" json:"status"`
	StartedAt      time.Time  `bson:"started_at" json:"started_at"`
	CompletedAt    *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	DurationMs     int64      `bson:"duration_ms,omitempty" json:"duration_ms,omitempty"`
	SuccessMessage string     `bson:"success_message,omitempty" json:"success_message,omitempty"`
	ErrorMessage   string     `bson:"error_message,omitempty" json:"error_message,omitempty"`
}

// PromptExecutionResult summarizes one prompt's run across its audience.
// The batch pass returns exactly one per due prompt.
type PromptExecutionResult struct {
	PromptID     string    `json:"prompt_id"`
	PromptTitle  string    `json:"prompt_title"`
	SuccessCount int       `json:"success_count"`
	FailureCount int       `json:"failure_count"`
	Errors       []string  `json:"errors,omitempty"`
	ExecutedAt   time.Time `json:"executed_at"`
}

// Failed reports whether the run as a whole should be recorded as failed.
func (r *PromptExecutionResult) Failed() bool {
	return r.FailureCount > 0 || len(r.Errors) > 0
}
