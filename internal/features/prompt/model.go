package prompt

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusDeleted  Status = "deleted"
)

type Frequency string

const (
	FrequencyHourly  Frequency = "hourly"
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
	FrequencySpecial Frequency = "special"
)

type ExecutionStatus string

const (
	ExecutionIdle      ExecutionStatus = "idle"
	ExecutionRunning   ExecutionStatus = "running"
	ExecutionCompleted ExecutionStatus = "completed"
	ExecutionFailed    ExecutionStatus = "failed"
)

// DeliveryOptions flags which channels receive the result of a run.
type DeliveryOptions struct {
	AIChat   bool `bson:"ai_chat" json:"ai_chat"`
	Notifier bool `bson:"notifier" json:"notifier"`
	Email    bool `bson:"email" json:"email"`
	Chat     bool `bson:"chat" json:"chat"`
}

// Prompt is a recurring or one-off instruction to run against the AI agent
// for a set of target users.
type Prompt struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"` // the literal prompt text
	Status      Status             `bson:"status" json:"status"`
	PromptGroup string             `bson:"prompt_group,omitempty" json:"prompt_group,omitempty"`

	IsScheduled  bool      `bson:"is_scheduled" json:"is_scheduled"`
	Frequency    Frequency `bson:"frequency,omitempty" json:"frequency,omitempty"`
	ScheduleTime string    `bson:"schedule_time,omitempty" json:"schedule_time,omitempty"` // "HH:MM"
	Timezone     string    `bson:"timezone,omitempty" json:"timezone,omitempty"`           // IANA name

	StartDate *time.Time `bson:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate   *time.Time `bson:"end_date,omitempty" json:"end_date,omitempty"`

	HourlyInterval   int   `bson:"hourly_interval,omitempty" json:"hourly_interval,omitempty"`
	SelectedWeekdays []int `bson:"selected_weekdays,omitempty" json:"selected_weekdays,omitempty"` // 0=Sunday .. 6=Saturday
	DayOfMonth       int   `bson:"day_of_month,omitempty" json:"day_of_month,omitempty"`
	StartMonth       int   `bson:"start_month,omitempty" json:"start_month,omitempty"`
	// EndMonth is stored but takes no part in the yearly calculation; the
	// product meaning of a [start_month, end_month] span is still unsettled.
	EndMonth      int      `bson:"end_month,omitempty" json:"end_month,omitempty"`
	SelectedYear  int      `bson:"selected_year,omitempty" json:"selected_year,omitempty"`
	SelectedMonth int      `bson:"selected_month,omitempty" json:"selected_month,omitempty"`
	SelectedDay   int      `bson:"selected_day,omitempty" json:"selected_day,omitempty"`
	SpecificDates []string `bson:"specific_dates,omitempty" json:"specific_dates,omitempty"` // ISO dates

	DeliveryOptions DeliveryOptions `bson:"delivery_options" json:"delivery_options"`

	// Exactly one of TargetAllUsers / non-empty TargetUserIDs determines the
	// audience; TargetAllUsers wins when both are set.
	TargetAllUsers bool     `bson:"target_all_users" json:"target_all_users"`
	TargetUserIDs  []string `bson:"target_user_ids,omitempty" json:"target_user_ids,omitempty"`

	ExecutionStatus ExecutionStatus `bson:"execution_status" json:"execution_status"`
	LastExecuted    *time.Time      `bson:"last_executed,omitempty" json:"last_executed,omitempty"`
	NextExecution   *time.Time      `bson:"next_execution,omitempty" json:"next_execution,omitempty"`

	CreatedBy primitive.ObjectID `bson:"created_by,omitempty" json:"created_by,omitempty"`
	Business  string             `bson:"business" json:"business"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
