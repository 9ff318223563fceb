package aiconfig

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AIConfig is a user's stored AI provider credential. Scheduled executions
// require an active one; without it the user's run fails with an actionable
// message.
type AIConfig struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Provider  string             `bson:"provider" json:"provider"` // openai, anthropic, google
	Model     string             `bson:"model" json:"model"`
	APIKey    string             `bson:"api_key" json:"-"`
	BaseURL   string             `bson:"base_url,omitempty" json:"base_url,omitempty"`
	IsDefault bool               `bson:"is_default" json:"is_default"`
	Status    string             `bson:"status" json:"status"` // active, inactive
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// CommerceConfig is a user's external commerce (WooCommerce) API credential.
type CommerceConfig struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID         primitive.ObjectID `bson:"user_id" json:"user_id"`
	BaseURL        string             `bson:"base_url" json:"base_url"`
	ConsumerKey    string             `bson:"consumer_key" json:"-"`
	ConsumerSecret string             `bson:"consumer_secret" json:"-"`
	Status         string             `bson:"status" json:"status"` // active, inactive
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

const StatusActive = "active"
