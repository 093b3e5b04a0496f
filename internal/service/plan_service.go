package service

import (
	"context"
	"errors"

	"coachtrack/fitness-api/internal/apperror"
	"coachtrack/fitness-api/internal/domain"
	"coachtrack/fitness-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreatePlanInput carries the validated payload for creating a plan.
type CreatePlanInput struct {
	Title string
	Notes string
}

// UpdatePlanInput carries the patch payload; nil fields are left
// untouched. ClearNotes resets notes to empty (wire null).
type UpdatePlanInput struct {
	Title      *string
	Notes      *string
	ClearNotes bool
}

// PlanService manages workout plans. Every operation resolves the owning
// client through the access policy first.
type PlanService interface {
	ListForClient(ctx context.Context, principal domain.Principal, clientID primitive.ObjectID) ([]domain.Plan, error)
	Create(ctx context.Context, principal domain.Principal, clientID primitive.ObjectID, input CreatePlanInput) (*domain.Plan, error)
	Update(ctx context.Context, principal domain.Principal, planID primitive.ObjectID, input UpdatePlanInput) (*domain.Plan, error)
	Delete(ctx context.Context, principal domain.Principal, planID primitive.ObjectID) error
}

// planService implements the PlanService interface.
type planService struct {
	planRepo repository.PlanRepository
	access   *AccessPolicy
}

// NewPlanService creates a new instance of planService.
func NewPlanService(planRepo repository.PlanRepository, access *AccessPolicy) PlanService {
	return &planService{
		planRepo: planRepo,
		access:   access,
	}
}

// ListForClient returns the client's plans, newest first.
func (s *planService) ListForClient(ctx context.Context, principal domain.Principal, clientID primitive.ObjectID) ([]domain.Plan, error) {
	if _, err := s.access.ResolveClient(ctx, principal, clientID); err != nil {
		return nil, err
	}
	plans, err := s.planRepo.ListByClientID(ctx, clientID)
	if err != nil {
		return nil, apperror.Internal("Failed to list plans", err)
	}
	return plans, nil
}

// Create adds a plan for the client.
func (s *planService) Create(ctx context.Context, principal domain.Principal, clientID primitive.ObjectID, input CreatePlanInput) (*domain.Plan, error) {
	if _, err := s.access.ResolveClient(ctx, principal, clientID); err != nil {
		return nil, err
	}

	plan := &domain.Plan{
		ClientID: clientID,
		Title:    input.Title,
		Notes:    input.Notes,
	}
	if _, err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, apperror.Internal("Failed to create plan", err)
	}
	return plan, nil
}

// Update patches a plan after resolving access through its owning client.
func (s *planService) Update(ctx context.Context, principal domain.Principal, planID primitive.ObjectID, input UpdatePlanInput) (*domain.Plan, error) {
	if input.Title == nil && input.Notes == nil && !input.ClearNotes {
		return nil, apperror.Validation("At least one field is required")
	}

	plan, err := s.getAccessiblePlan(ctx, principal, planID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		plan.Title = *input.Title
	}
	if input.ClearNotes {
		plan.Notes = ""
	} else if input.Notes != nil {
		plan.Notes = *input.Notes
	}

	if err := s.planRepo.Update(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Plan not found")
		}
		return nil, apperror.Internal("Failed to update plan", err)
	}
	return plan, nil
}

// Delete removes a plan after resolving access through its owning client.
func (s *planService) Delete(ctx context.Context, principal domain.Principal, planID primitive.ObjectID) error {
	plan, err := s.getAccessiblePlan(ctx, principal, planID)
	if err != nil {
		return err
	}

	if err := s.planRepo.Delete(ctx, plan.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("Plan not found")
		}
		return apperror.Internal("Failed to delete plan", err)
	}
	return nil
}

func (s *planService) getAccessiblePlan(ctx context.Context, principal domain.Principal, planID primitive.ObjectID) (*domain.Plan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Plan not found")
		}
		return nil, apperror.Internal("Failed to look up plan", err)
	}
	if _, err := s.access.ResolveClient(ctx, principal, plan.ClientID); err != nil {
		return nil, err
	}
	return plan, nil
}
