package service

import (
	"context"

	"coachtrack/fitness-api/internal/apperror"
	"coachtrack/fitness-api/internal/domain"
	"coachtrack/fitness-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccessPolicy is the single enforcement point for client ownership.
// Every plan, check-in, and photo operation resolves its client through
// this policy before disclosing or mutating anything.
type AccessPolicy struct {
	clientRepo repository.ClientRepository
}

// NewAccessPolicy creates a new AccessPolicy.
func NewAccessPolicy(clientRepo repository.ClientRepository) *AccessPolicy {
	return &AccessPolicy{clientRepo: clientRepo}
}

// ResolveClient looks up the client profile and decides whether the
// principal may act on it. Ownership denial is reported as NOT_FOUND,
// identical to a missing id, so a trainer probing another trainer's
// client learns nothing about its existence. The profile is re-read from
// storage on every call; decisions are never cached.
func (p *AccessPolicy) ResolveClient(ctx context.Context, principal domain.Principal, clientID primitive.ObjectID) (*domain.ClientProfile, error) {
	profile, err := p.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, apperror.NotFound("Client not found")
		}
		return nil, apperror.Internal("Failed to resolve client", err)
	}

	switch principal.Role {
	case domain.RoleAdmin:
		// Admins are unrestricted.
	case domain.RoleTrainer:
		if profile.TrainerID != principal.ID {
			return nil, apperror.NotFound("Client not found")
		}
	case domain.RoleClient:
		// No client self-service paths exist; masked like a missing id.
		return nil, apperror.NotFound("Client not found")
	default:
		return nil, apperror.Forbidden("Insufficient role")
	}

	return profile, nil
}
