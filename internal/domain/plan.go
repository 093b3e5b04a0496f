package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Plan is a titled, freeform workout/training note-set for a client.
type Plan struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID  primitive.ObjectID `bson:"clientId" json:"clientId"`
	Title     string             `bson:"title" json:"title"`
	Notes     string             `bson:"notes" json:"notes"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
