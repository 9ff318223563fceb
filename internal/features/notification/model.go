package notification

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationType string

const (
	NotificationTypeInfo    NotificationType = "info"
	NotificationTypeSuccess NotificationType = "success"
	NotificationTypeWarning NotificationType = "warning"
	NotificationTypeError   NotificationType = "error"
)

// GroupScheduled tags notifications emitted by the scheduled-prompt engine.
const GroupScheduled = "scheduled_prompt"

type Notification struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	Title    string             `bson:"title" json:"title"`
	Message  string             `bson:"message" json:"message"`
	Type     NotificationType   `bson:"type" json:"type"`
	Group    string             `bson:"group,omitempty" json:"group,omitempty"`
	// ThreadID links the notification to the conversation it announces.
	ThreadID  primitive.ObjectID `bson:"thread_id,omitempty" json:"thread_id,omitempty"`
	IsRead    bool               `bson:"is_read" json:"is_read"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	ReadAt    *time.Time         `bson:"read_at,omitempty" json:"read_at,omitempty"`
}
