package thread

import (
	"time"

	"go-assistant/internal/features/tokenusage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Thread is one conversation between a user and the assistant. Threads
// created by the scheduler carry metadata linking them back to the
// originating prompt so they stay traceable from the chat UI.
type Thread struct {
	ID        primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	Business  string                 `bson:"business" json:"business"`
	UserID    primitive.ObjectID     `bson:"user_id" json:"user_id"`
	Title     string                 `bson:"title" json:"title"`
	Metadata  map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
	Usage     tokenusage.TokenUsage  `bson:"usage" json:"usage"`
	CreatedAt time.Time              `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time              `bson:"updated_at" json:"updated_at"`
}

// Metadata keys set on scheduler-created threads.
const (
	MetaScheduledPromptID = "scheduled_prompt_id"
	MetaPromptTitle       = "prompt_title"
)
