package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContextKey string

const (
	// BusinessKey carries the tenant (business number) through request and
	// batch contexts. Every repository scopes its queries by it.
	BusinessKey ContextKey = "business"
)

// User is a member of a business tenant. The directory exposes at minimum
// id, display name parts and email; the scheduler resolves prompt audiences
// against it.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Business  string             `bson:"business" json:"business"`
	Username  string             `bson:"username" json:"username"`
	Email     string             `bson:"email" json:"email"`
	FirstName string             `bson:"first_name,omitempty" json:"first_name,omitempty"`
	LastName  string             `bson:"last_name,omitempty" json:"last_name,omitempty"`
	Status    string             `bson:"status" json:"status"` // active, inactive, suspended
	Roles     []string           `bson:"roles,omitempty" json:"roles,omitempty"`
	LastLogin *time.Time         `bson:"last_login,omitempty" json:"last_login,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// DisplayName returns the best human-readable label for a user.
func (u *User) DisplayName() string {
	if u.FirstName != "" || u.LastName != "" {
		if u.FirstName == "" {
			return u.LastName
		}
		if u.LastName == "" {
			return u.FirstName
		}
		return u.FirstName + " " + u.LastName
	}
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}
