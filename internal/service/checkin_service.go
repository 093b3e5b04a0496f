package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"coachtrack/fitness-api/internal/apperror"
	"coachtrack/fitness-api/internal/domain"
	"coachtrack/fitness-api/internal/repository"
	"coachtrack/fitness-api/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateCheckInInput carries the validated payload for creating a check-in.
type CreateCheckInInput struct {
	Date     string
	WeightKg *float64
	WaistCm  *float64
	Notes    *string
}

// UpdateCheckInInput carries the patch payload; nil fields are left
// untouched, Clear* fields null out the stored value.
type UpdateCheckInInput struct {
	Date          *string
	WeightKg      *float64
	ClearWeightKg bool
	WaistCm       *float64
	ClearWaistCm  bool
	Notes         *string
	ClearNotes    bool
}

// PhotoUpload is a presigned slot for uploading a progress photo.
type PhotoUpload struct {
	UploadURL string
	ObjectKey string
	ExpiresAt time.Time
}

// CheckInService manages body-metric check-ins. Every operation resolves
// the owning client through the access policy first.
type CheckInService interface {
	ListForClient(ctx context.Context, principal domain.Principal, clientID primitive.ObjectID) ([]domain.CheckIn, error)
	Create(ctx context.Context, principal domain.Principal, clientID primitive.ObjectID, input CreateCheckInInput) (*domain.CheckIn, error)
	Update(ctx context.Context, principal domain.Principal, checkInID primitive.ObjectID, input UpdateCheckInInput) (*domain.CheckIn, error)
	Delete(ctx context.Context, principal domain.Principal, checkInID primitive.ObjectID) error
	CreatePhotoUpload(ctx context.Context, principal domain.Principal, checkInID primitive.ObjectID, fileName, contentType string) (*PhotoUpload, error)
	GetPhotoDownloadURL(ctx context.Context, principal domain.Principal, checkInID primitive.ObjectID) (string, error)
}

// checkInService implements the CheckInService interface.
type checkInService struct {
	checkInRepo repository.CheckInRepository
	access      *AccessPolicy
	fileStorage storage.FileStorage
}

// NewCheckInService creates a new instance of checkInService.
func NewCheckInService(
	checkInRepo repository.CheckInRepository,
	access *AccessPolicy,
	fileStorage storage.FileStorage,
) CheckInService {
	return &checkInService{
		checkInRepo: checkInRepo,
		access:      access,
		fileStorage: fileStorage,
	}
}

// parseCheckInDate accepts a calendar date ("2025-01-05") or a full
// timestamp and normalizes it to UTC midnight, the granularity at which
// the per-client uniqueness constraint applies.
func parseCheckInDate(value string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, apperror.Validation("Invalid date format")
}

// ListForClient returns the client's check-ins, newest date first.
func (s *checkInService) ListForClient(ctx context.Context, principal domain.Principal, clientID primitive.ObjectID) ([]domain.CheckIn, error) {
	if _, err := s.access.ResolveClient(ctx, principal, clientID); err != nil {
		return nil, err
	}
	checkIns, err := s.checkInRepo.ListByClientID(ctx, clientID)
	if err != nil {
		return nil, apperror.Internal("Failed to list check-ins", err)
	}
	return checkIns, nil
}

// Create adds a check-in for the client. A second check-in on the same
// date is a conflict, never an overwrite.
func (s *checkInService) Create(ctx context.Context, principal domain.Principal, clientID primitive.ObjectID, input CreateCheckInInput) (*domain.CheckIn, error) {
	if _, err := s.access.ResolveClient(ctx, principal, clientID); err != nil {
		return nil, err
	}

	date, err := parseCheckInDate(input.Date)
	if err != nil {
		return nil, err
	}

	checkIn := &domain.CheckIn{
		ClientID: clientID,
		Date:     date,
		WeightKg: input.WeightKg,
		WaistCm:  input.WaistCm,
		Notes:    input.Notes,
	}
	if _, err := s.checkInRepo.Create(ctx, checkIn); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperror.Conflict("Check-in already exists")
		}
		return nil, apperror.Internal("Failed to create check-in", err)
	}
	return checkIn, nil
}

// Update patches a check-in after resolving access through its owning client.
func (s *checkInService) Update(ctx context.Context, principal domain.Principal, checkInID primitive.ObjectID, input UpdateCheckInInput) (*domain.CheckIn, error) {
	if input.Date == nil &&
		input.WeightKg == nil && !input.ClearWeightKg &&
		input.WaistCm == nil && !input.ClearWaistCm &&
		input.Notes == nil && !input.ClearNotes {
		return nil, apperror.Validation("At least one field is required")
	}

	checkIn, err := s.getAccessibleCheckIn(ctx, principal, checkInID)
	if err != nil {
		return nil, err
	}

	if input.Date != nil {
		date, err := parseCheckInDate(*input.Date)
		if err != nil {
			return nil, err
		}
		checkIn.Date = date
	}
	if input.ClearWeightKg {
		checkIn.WeightKg = nil
	} else if input.WeightKg != nil {
		checkIn.WeightKg = input.WeightKg
	}
	if input.ClearWaistCm {
		checkIn.WaistCm = nil
	} else if input.WaistCm != nil {
		checkIn.WaistCm = input.WaistCm
	}
	if input.ClearNotes {
		checkIn.Notes = nil
	} else if input.Notes != nil {
		checkIn.Notes = input.Notes
	}

	if err := s.checkInRepo.Update(ctx, checkIn); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperror.Conflict("Check-in already exists")
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Check-in not found")
		}
		return nil, apperror.Internal("Failed to update check-in", err)
	}
	return checkIn, nil
}

// Delete removes a check-in after resolving access through its owning client.
func (s *checkInService) Delete(ctx context.Context, principal domain.Principal, checkInID primitive.ObjectID) error {
	checkIn, err := s.getAccessibleCheckIn(ctx, principal, checkInID)
	if err != nil {
		return err
	}

	if err := s.checkInRepo.Delete(ctx, checkIn.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("Check-in not found")
		}
		return apperror.Internal("Failed to delete check-in", err)
	}
	return nil
}

// CreatePhotoUpload issues a presigned PUT URL for the check-in's
// progress photo and records the object key. The client uploads directly
// to object storage; the API never proxies the bytes.
func (s *checkInService) CreatePhotoUpload(ctx context.Context, principal domain.Principal, checkInID primitive.ObjectID, fileName, contentType string) (*PhotoUpload, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apperror.Validation("contentType must be an image type")
	}

	checkIn, err := s.getAccessibleCheckIn(ctx, principal, checkInID)
	if err != nil {
		return nil, err
	}

	objectKey := fmt.Sprintf("checkins/%s/%s%s",
		checkIn.ClientID.Hex(), uuid.NewString(), path.Ext(fileName))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, apperror.Internal("Failed to create upload URL", err)
	}

	if err := s.checkInRepo.SetPhotoKey(ctx, checkIn.ID, objectKey); err != nil {
		return nil, apperror.Internal("Failed to store photo key", err)
	}

	// Remove the replaced object once the new key is recorded. A failed
	// delete leaves an orphan in the bucket, not a broken check-in.
	if old := checkIn.PhotoKey; old != "" && old != objectKey {
		if err := s.fileStorage.DeleteObject(ctx, old); err != nil {
			log.Printf("WARN: Failed to delete replaced photo object %q: %v", old, err)
		}
	}

	return &PhotoUpload{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
		ExpiresAt: time.Now().Add(storage.DefaultPresignedURLExpiry),
	}, nil
}

// GetPhotoDownloadURL issues a presigned GET URL for the check-in's photo.
func (s *checkInService) GetPhotoDownloadURL(ctx context.Context, principal domain.Principal, checkInID primitive.ObjectID) (string, error) {
	checkIn, err := s.getAccessibleCheckIn(ctx, principal, checkInID)
	if err != nil {
		return "", err
	}
	if checkIn.PhotoKey == "" {
		return "", apperror.NotFound("Photo not found")
	}

	downloadURL, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, checkIn.PhotoKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", apperror.Internal("Failed to create download URL", err)
	}
	return downloadURL, nil
}

func (s *checkInService) getAccessibleCheckIn(ctx context.Context, principal domain.Principal, checkInID primitive.ObjectID) (*domain.CheckIn, error) {
	checkIn, err := s.checkInRepo.GetByID(ctx, checkInID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Check-in not found")
		}
		return nil, apperror.Internal("Failed to look up check-in", err)
	}
	if _, err := s.access.ResolveClient(ctx, principal, checkIn.ClientID); err != nil {
		return nil, err
	}
	return checkIn, nil
}
