package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CheckIn is a dated body-metric record (weight/waist/notes) for a client.
// Date is normalized to UTC midnight; a client can have at most one
// check-in per calendar date.
type CheckIn struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID  primitive.ObjectID `bson:"clientId" json:"clientId"`
	Date      time.Time          `bson:"date" json:"date"`
	WeightKg  *float64           `bson:"weightKg,omitempty" json:"weightKg"`
	WaistCm   *float64           `bson:"waistCm,omitempty" json:"waistCm"`
	Notes     *string            `bson:"notes,omitempty" json:"notes"`
	PhotoKey  string             `bson:"photoKey,omitempty" json:"-"` // S3 object key, internal use
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
