package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the closed set of user roles. Role is assigned at creation and
// never changes afterwards.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleTrainer Role = "TRAINER"
	RoleClient  Role = "CLIENT"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTrainer, RoleClient:
		return true
	}
	return false
}

// User represents an account in the system (admin, trainer, or client).
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"` // Unique
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Role         Role               `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Principal is the authenticated identity attached to a request after
// token verification.
type Principal struct {
	ID    primitive.ObjectID
	Email string
	Role  Role
}
