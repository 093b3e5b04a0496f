package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClientProfile holds the trainer-facing profile of a client. It is
// one-to-one with a User whose role is CLIENT and is owned by exactly
// one trainer.
type ClientProfile struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	TrainerID primitive.ObjectID `bson:"trainerId" json:"trainerId"` // Owning trainer
	Email     string             `bson:"email" json:"email"`         // Denormalized from the User; kept in sync transactionally
	FirstName string             `bson:"firstName" json:"firstName"`
	LastName  string             `bson:"lastName" json:"lastName"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
