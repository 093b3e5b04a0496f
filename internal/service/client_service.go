package service

import (
	"context"
	"errors"

	"coachtrack/fitness-api/internal/apperror"
	"coachtrack/fitness-api/internal/domain"
	"coachtrack/fitness-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// CreateClientInput carries the validated payload for creating a client.
// TrainerID is only legal for admin principals; trainers always own the
// clients they create.
type CreateClientInput struct {
	Email        string
	TempPassword string
	FirstName    string
	LastName     string
	TrainerID    *primitive.ObjectID
}

// UpdateClientInput carries the patch payload; nil fields are left
// untouched. Email is only legal for admin principals.
type UpdateClientInput struct {
	Email     *string
	FirstName *string
	LastName  *string
}

// ClientService manages client profiles under the ownership-scoping rules.
type ClientService interface {
	List(ctx context.Context, principal domain.Principal) ([]domain.ClientProfile, error)
	Create(ctx context.Context, principal domain.Principal, input CreateClientInput) (*domain.ClientProfile, error)
	Get(ctx context.Context, principal domain.Principal, clientID primitive.ObjectID) (*domain.ClientProfile, error)
	Update(ctx context.Context, principal domain.Principal, clientID primitive.ObjectID, input UpdateClientInput) (*domain.ClientProfile, error)
}

// clientService implements the ClientService interface.
type clientService struct {
	userRepo   repository.UserRepository
	clientRepo repository.ClientRepository
	access     *AccessPolicy
	tx         repository.TxRunner
}

// NewClientService creates a new instance of clientService.
func NewClientService(
	userRepo repository.UserRepository,
	clientRepo repository.ClientRepository,
	access *AccessPolicy,
	tx repository.TxRunner,
) ClientService {
	return &clientService{
		userRepo:   userRepo,
		clientRepo: clientRepo,
		access:     access,
		tx:         tx,
	}
}

// List returns the client profiles visible to the principal: a trainer's
// own roster, or every profile for an admin. The filter is the collection
// form of the same ownership rule AccessPolicy applies to point lookups.
func (s *clientService) List(ctx context.Context, principal domain.Principal) ([]domain.ClientProfile, error) {
	var (
		profiles []domain.ClientProfile
		err      error
	)
	switch principal.Role {
	case domain.RoleTrainer:
		profiles, err = s.clientRepo.ListByTrainerID(ctx, principal.ID)
	case domain.RoleAdmin:
		profiles, err = s.clientRepo.ListAll(ctx)
	default:
		return nil, apperror.Forbidden("Insufficient role")
	}
	if err != nil {
		return nil, apperror.Internal("Failed to list clients", err)
	}
	return profiles, nil
}

// Create provisions a new client: a User with role CLIENT plus its
// ClientProfile, created in one transaction so a concurrent reader never
// observes half a pair.
func (s *clientService) Create(ctx context.Context, principal domain.Principal, input CreateClientInput) (*domain.ClientProfile, error) {
	var trainerID primitive.ObjectID
	switch principal.Role {
	case domain.RoleTrainer:
		// A supplied trainer id is rejected outright, not silently overridden.
		if input.TrainerID != nil {
			return nil, apperror.Validation("trainerId is not allowed for trainers")
		}
		trainerID = principal.ID
	case domain.RoleAdmin:
		if input.TrainerID == nil {
			return nil, apperror.Validation("trainerId is required")
		}
		trainerID = *input.TrainerID
	default:
		return nil, apperror.Forbidden("Insufficient role")
	}

	_, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err == nil {
		return nil, apperror.Conflict("Email already in use")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Internal("Failed to check email", err)
	}

	if _, err := s.userRepo.GetByID(ctx, trainerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Trainer not found")
		}
		return nil, apperror.Internal("Failed to look up trainer", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(input.TempPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal("Failed to hash password", err)
	}

	profile := &domain.ClientProfile{
		TrainerID: trainerID,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	}

	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		user := &domain.User{
			Email:        input.Email,
			PasswordHash: string(passwordHash),
			Role:         domain.RoleClient,
		}
		userID, err := s.userRepo.Create(txCtx, user)
		if err != nil {
			return err
		}
		profile.UserID = userID
		_, err = s.clientRepo.Create(txCtx, profile)
		return err
	})
	if err != nil {
		// Lost the race against a concurrent signup for the same email.
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperror.Conflict("Email already in use")
		}
		return nil, apperror.Internal("Failed to create client", err)
	}

	return profile, nil
}

// Get resolves a single client profile through the access policy.
func (s *clientService) Get(ctx context.Context, principal domain.Principal, clientID primitive.ObjectID) (*domain.ClientProfile, error) {
	return s.access.ResolveClient(ctx, principal, clientID)
}

// Update patches a client profile. Email reassignment is admin-only and
// rejected for trainers before any ownership lookup; when the email does
// change, the User and the profile's denormalized copy are written in
// one transaction.
func (s *clientService) Update(ctx context.Context, principal domain.Principal, clientID primitive.ObjectID, input UpdateClientInput) (*domain.ClientProfile, error) {
	if input.Email == nil && input.FirstName == nil && input.LastName == nil {
		return nil, apperror.Validation("At least one field is required")
	}

	if principal.Role == domain.RoleTrainer && input.Email != nil {
		return nil, apperror.Validation("Email update not allowed")
	}

	profile, err := s.access.ResolveClient(ctx, principal, clientID)
	if err != nil {
		return nil, err
	}

	email := profile.Email
	emailChanged := principal.Role == domain.RoleAdmin && input.Email != nil && *input.Email != profile.Email
	if emailChanged {
		email = *input.Email
		if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
			return nil, apperror.Conflict("Email already in use")
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Internal("Failed to check email", err)
		}
	}

	firstName := profile.FirstName
	if input.FirstName != nil {
		firstName = *input.FirstName
	}
	lastName := profile.LastName
	if input.LastName != nil {
		lastName = *input.LastName
	}

	var updated *domain.ClientProfile
	err = s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		if emailChanged {
			if err := s.userRepo.UpdateEmail(txCtx, profile.UserID, email); err != nil {
				return err
			}
		}
		var err error
		updated, err = s.clientRepo.Update(txCtx, profile.ID, firstName, lastName, email)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperror.Conflict("Email already in use")
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Client not found")
		}
		return nil, apperror.Internal("Failed to update client", err)
	}

	return updated, nil
}
