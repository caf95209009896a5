// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an identity account. It carries only what the
// authentication layer needs; everything a freelancer edits about
// themselves lives in the Profile document.
//
// Auth fields:
//   - Email: what the user types to sign in (stored lowercase, unique)
//   - AuthMethod: password, google
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName string             `bson:"full_name" json:"full_name"`

	Email      string `bson:"email" json:"email"`             // login identifier (lowercase)
	AuthMethod string `bson:"auth_method" json:"auth_method"` // password, google

	// Password auth fields
	PasswordHash *string `bson:"password_hash,omitempty" json:"-"` // bcrypt hash (never in JSON)

	// Populated from Google userinfo for google auth accounts.
	AvatarURL string `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`

	Status string `bson:"status,omitempty" json:"status,omitempty"` // active, disabled

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Auth methods
const (
	AuthMethodPassword = "password"
	AuthMethodGoogle   = "google"
)

// User statuses
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// IsValidAuthMethod checks if an auth method is one this application supports.
func IsValidAuthMethod(method string) bool {
	return method == AuthMethodPassword || method == AuthMethodGoogle
}
