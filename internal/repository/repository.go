package repository

import (
	"context"

	"coachtrack/fitness-api/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound = RepositoryError("not found")
	ErrConflict = RepositoryError("unique constraint violation")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// TxRunner runs fn inside a single storage transaction. Writes issued
// through the fn context are committed together or not at all.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository defines the interface for interacting with user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	UpdateEmail(ctx context.Context, id primitive.ObjectID, email string) error
}

// ClientRepository defines the interface for interacting with client profiles.
type ClientRepository interface {
	Create(ctx context.Context, profile *domain.ClientProfile) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ClientProfile, error)
	ListAll(ctx context.Context) ([]domain.ClientProfile, error)
	ListByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.ClientProfile, error)
	Update(ctx context.Context, id primitive.ObjectID, firstName, lastName, email string) (*domain.ClientProfile, error)
}

// PlanRepository defines the interface for interacting with workout plans.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Plan, error)
	ListByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Plan, error)
	Update(ctx context.Context, plan *domain.Plan) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CheckInRepository defines the interface for interacting with check-ins.
// Create and Update return ErrConflict when the (clientId, date) pair is
// already taken.
type CheckInRepository interface {
	Create(ctx context.Context, checkIn *domain.CheckIn) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CheckIn, error)
	ListByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.CheckIn, error)
	Update(ctx context.Context, checkIn *domain.CheckIn) error
	SetPhotoKey(ctx context.Context, id primitive.ObjectID, photoKey string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
