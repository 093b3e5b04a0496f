package service

import (
	"context"
	"time"

	"coachtrack/fitness-api/internal/domain"
	"coachtrack/fitness-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. They mirror the mongo layer's contract:
// ids assigned on create, ErrNotFound for missing ids, ErrConflict for
// unique constraint violations.

type memUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (r *memUserRepo) seed(email string, passwordHash string, role domain.Role) *domain.User {
	user := &domain.User{
		ID:           primitive.NewObjectID(),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	r.users[user.ID] = user
	return user
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	r.users[user.ID] = &stored
	return user.ID, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *memUserRepo) UpdateEmail(_ context.Context, id primitive.ObjectID, email string) error {
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	for _, existing := range r.users {
		if existing.ID != id && existing.Email == email {
			return repository.ErrConflict
		}
	}
	user.Email = email
	user.UpdatedAt = time.Now().UTC()
	return nil
}

type memClientRepo struct {
	profiles map[primitive.ObjectID]*domain.ClientProfile
	order    []primitive.ObjectID
}

func newMemClientRepo() *memClientRepo {
	return &memClientRepo{profiles: make(map[primitive.ObjectID]*domain.ClientProfile)}
}

func (r *memClientRepo) seed(userID, trainerID primitive.ObjectID, email, firstName, lastName string) *domain.ClientProfile {
	profile := &domain.ClientProfile{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		TrainerID: trainerID,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	r.profiles[profile.ID] = profile
	r.order = append(r.order, profile.ID)
	return profile
}

func (r *memClientRepo) Create(_ context.Context, profile *domain.ClientProfile) (primitive.ObjectID, error) {
	profile.ID = primitive.NewObjectID()
	profile.CreatedAt = time.Now().UTC()
	profile.UpdatedAt = profile.CreatedAt
	stored := *profile
	r.profiles[profile.ID] = &stored
	r.order = append(r.order, profile.ID)
	return profile.ID, nil
}

func (r *memClientRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.ClientProfile, error) {
	profile, ok := r.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *profile
	return &copied, nil
}

func (r *memClientRepo) ListAll(_ context.Context) ([]domain.ClientProfile, error) {
	profiles := make([]domain.ClientProfile, 0, len(r.order))
	for _, id := range r.order {
		profiles = append(profiles, *r.profiles[id])
	}
	return profiles, nil
}

func (r *memClientRepo) ListByTrainerID(_ context.Context, trainerID primitive.ObjectID) ([]domain.ClientProfile, error) {
	var profiles []domain.ClientProfile
	for _, id := range r.order {
		if r.profiles[id].TrainerID == trainerID {
			profiles = append(profiles, *r.profiles[id])
		}
	}
	return profiles, nil
}

func (r *memClientRepo) Update(_ context.Context, id primitive.ObjectID, firstName, lastName, email string) (*domain.ClientProfile, error) {
	profile, ok := r.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	profile.FirstName = firstName
	profile.LastName = lastName
	profile.Email = email
	profile.UpdatedAt = time.Now().UTC()
	copied := *profile
	return &copied, nil
}

type memPlanRepo struct {
	plans map[primitive.ObjectID]*domain.Plan
	order []primitive.ObjectID
}

func newMemPlanRepo() *memPlanRepo {
	return &memPlanRepo{plans: make(map[primitive.ObjectID]*domain.Plan)}
}

func (r *memPlanRepo) Create(_ context.Context, plan *domain.Plan) (primitive.ObjectID, error) {
	plan.ID = primitive.NewObjectID()
	plan.CreatedAt = time.Now().UTC()
	plan.UpdatedAt = plan.CreatedAt
	stored := *plan
	r.plans[plan.ID] = &stored
	r.order = append(r.order, plan.ID)
	return plan.ID, nil
}

func (r *memPlanRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Plan, error) {
	plan, ok := r.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *plan
	return &copied, nil
}

func (r *memPlanRepo) ListByClientID(_ context.Context, clientID primitive.ObjectID) ([]domain.Plan, error) {
	var plans []domain.Plan
	for i := len(r.order) - 1; i >= 0; i-- {
		if r.plans[r.order[i]].ClientID == clientID {
			plans = append(plans, *r.plans[r.order[i]])
		}
	}
	return plans, nil
}

func (r *memPlanRepo) Update(_ context.Context, plan *domain.Plan) error {
	if _, ok := r.plans[plan.ID]; !ok {
		return repository.ErrNotFound
	}
	plan.UpdatedAt = time.Now().UTC()
	stored := *plan
	r.plans[plan.ID] = &stored
	return nil
}

func (r *memPlanRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.plans[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.plans, id)
	return nil
}

type memCheckInRepo struct {
	checkIns map[primitive.ObjectID]*domain.CheckIn
	order    []primitive.ObjectID
}

func newMemCheckInRepo() *memCheckInRepo {
	return &memCheckInRepo{checkIns: make(map[primitive.ObjectID]*domain.CheckIn)}
}

func (r *memCheckInRepo) dateTaken(clientID primitive.ObjectID, date time.Time, exclude primitive.ObjectID) bool {
	for _, checkIn := range r.checkIns {
		if checkIn.ID != exclude && checkIn.ClientID == clientID && checkIn.Date.Equal(date) {
			return true
		}
	}
	return false
}

func (r *memCheckInRepo) Create(_ context.Context, checkIn *domain.CheckIn) (primitive.ObjectID, error) {
	if r.dateTaken(checkIn.ClientID, checkIn.Date, primitive.NilObjectID) {
		return primitive.NilObjectID, repository.ErrConflict
	}
	checkIn.ID = primitive.NewObjectID()
	checkIn.CreatedAt = time.Now().UTC()
	checkIn.UpdatedAt = checkIn.CreatedAt
	stored := *checkIn
	r.checkIns[checkIn.ID] = &stored
	r.order = append(r.order, checkIn.ID)
	return checkIn.ID, nil
}

func (r *memCheckInRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.CheckIn, error) {
	checkIn, ok := r.checkIns[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *checkIn
	return &copied, nil
}

func (r *memCheckInRepo) ListByClientID(_ context.Context, clientID primitive.ObjectID) ([]domain.CheckIn, error) {
	var checkIns []domain.CheckIn
	for i := len(r.order) - 1; i >= 0; i-- {
		stored, ok := r.checkIns[r.order[i]]
		if ok && stored.ClientID == clientID {
			checkIns = append(checkIns, *stored)
		}
	}
	return checkIns, nil
}

func (r *memCheckInRepo) Update(_ context.Context, checkIn *domain.CheckIn) error {
	if _, ok := r.checkIns[checkIn.ID]; !ok {
		return repository.ErrNotFound
	}
	if r.dateTaken(checkIn.ClientID, checkIn.Date, checkIn.ID) {
		return repository.ErrConflict
	}
	checkIn.UpdatedAt = time.Now().UTC()
	stored := *checkIn
	r.checkIns[checkIn.ID] = &stored
	return nil
}

func (r *memCheckInRepo) SetPhotoKey(_ context.Context, id primitive.ObjectID, photoKey string) error {
	checkIn, ok := r.checkIns[id]
	if !ok {
		return repository.ErrNotFound
	}
	checkIn.PhotoKey = photoKey
	checkIn.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memCheckInRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.checkIns[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.checkIns, id)
	return nil
}

// memTxRunner runs the callback directly; the fakes have no transactions.
type memTxRunner struct{}

func (memTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memStorage fakes the presigned URL provider and records deletions.
type memStorage struct {
	deleted []string
}

func (s *memStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, _ string, _ time.Duration) (string, error) {
	return "https://storage.test/upload/" + objectKey, nil
}

func (s *memStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://storage.test/download/" + objectKey, nil
}

func (s *memStorage) DeleteObject(_ context.Context, objectKey string) error {
	s.deleted = append(s.deleted, objectKey)
	return nil
}
