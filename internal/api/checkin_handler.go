package api

import (
	"net/http"
	"time"

	"coachtrack/fitness-api/internal/apperror"
	"coachtrack/fitness-api/internal/domain"
	"coachtrack/fitness-api/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckInHandler holds the check-in service dependency.
type CheckInHandler struct {
	checkInService service.CheckInService
}

// NewCheckInHandler creates a new CheckInHandler.
func NewCheckInHandler(checkInService service.CheckInService) *CheckInHandler {
	return &CheckInHandler{checkInService: checkInService}
}

// --- Request/Response Structs ---

type CreateCheckInRequest struct {
	Date     string   `json:"date" binding:"required"`
	WeightKg *float64 `json:"weightKg" binding:"omitempty,gt=0"`
	WaistCm  *float64 `json:"waistCm" binding:"omitempty,gt=0"`
	Notes    *string  `json:"notes"`
}

type UpdateCheckInRequest struct {
	Date     Optional[string]  `json:"date"`
	WeightKg Optional[float64] `json:"weightKg"`
	WaistCm  Optional[float64] `json:"waistCm"`
	Notes    Optional[string]  `json:"notes"`
}

type CreatePhotoUploadRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

type CheckInResponse struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"clientId"`
	Date      time.Time `json:"date"`
	WeightKg  *float64  `json:"weightKg"`
	WaistCm   *float64  `json:"waistCm"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type PhotoUploadResponse struct {
	UploadURL string    `json:"uploadUrl"`
	ObjectKey string    `json:"objectKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// MapCheckInToResponse converts a domain CheckIn to its DTO.
func MapCheckInToResponse(checkIn *domain.CheckIn) CheckInResponse {
	if checkIn == nil {
		return CheckInResponse{}
	}
	return CheckInResponse{
		ID:        checkIn.ID.Hex(),
		ClientID:  checkIn.ClientID.Hex(),
		Date:      checkIn.Date,
		WeightKg:  checkIn.WeightKg,
		WaistCm:   checkIn.WaistCm,
		Notes:     checkIn.Notes,
		CreatedAt: checkIn.CreatedAt,
		UpdatedAt: checkIn.UpdatedAt,
	}
}

// MapCheckInsToResponse converts a slice of domain CheckIns.
func MapCheckInsToResponse(checkIns []domain.CheckIn) []CheckInResponse {
	responses := make([]CheckInResponse, len(checkIns))
	for i := range checkIns {
		responses[i] = MapCheckInToResponse(&checkIns[i])
	}
	return responses
}

// --- Handler Methods ---

// ListCheckIns returns a client's check-ins, newest date first.
func (h *CheckInHandler) ListCheckIns(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		respondError(c, err)
		return
	}

	clientID, err := clientIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	checkIns, err := h.checkInService.ListForClient(c.Request.Context(), principal, clientID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapCheckInsToResponse(checkIns))
}

// CreateCheckIn adds a check-in for a client. A duplicate date for the
// same client is a conflict.
func (h *CheckInHandler) CreateCheckIn(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		respondError(c, err)
		return
	}

	clientID, err := clientIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req CreateCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	checkIn, err := h.checkInService.Create(c.Request.Context(), principal, clientID, service.CreateCheckInInput{
		Date:     req.Date,
		WeightKg: req.WeightKg,
		WaistCm:  req.WaistCm,
		Notes:    req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MapCheckInToResponse(checkIn))
}

// UpdateCheckIn patches a check-in. Null metric fields clear the stored
// value; omitted fields are untouched.
func (h *CheckInHandler) UpdateCheckIn(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		respondError(c, err)
		return
	}

	checkInID, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req UpdateCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	input := service.UpdateCheckInInput{}
	if req.Date.Present {
		if !req.Date.Valid {
			respondError(c, apperror.Validation("Invalid date format"))
			return
		}
		input.Date = &req.Date.Value
	}
	if req.WeightKg.Present {
		if req.WeightKg.Valid {
			input.WeightKg = &req.WeightKg.Value
		} else {
			input.ClearWeightKg = true
		}
	}
	if req.WaistCm.Present {
		if req.WaistCm.Valid {
			input.WaistCm = &req.WaistCm.Value
		} else {
			input.ClearWaistCm = true
		}
	}
	if req.Notes.Present {
		if req.Notes.Valid {
			input.Notes = &req.Notes.Value
		} else {
			input.ClearNotes = true
		}
	}

	checkIn, err := h.checkInService.Update(c.Request.Context(), principal, checkInID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapCheckInToResponse(checkIn))
}

// DeleteCheckIn removes a check-in.
func (h *CheckInHandler) DeleteCheckIn(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		respondError(c, err)
		return
	}

	checkInID, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.checkInService.Delete(c.Request.Context(), principal, checkInID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// CreatePhotoUpload issues a presigned PUT URL for the check-in's
// progress photo.
func (h *CheckInHandler) CreatePhotoUpload(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		respondError(c, err)
		return
	}

	checkInID, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req CreatePhotoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	upload, err := h.checkInService.CreatePhotoUpload(c.Request.Context(), principal, checkInID, req.FileName, req.ContentType)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, PhotoUploadResponse{
		UploadURL: upload.UploadURL,
		ObjectKey: upload.ObjectKey,
		ExpiresAt: upload.ExpiresAt,
	})
}

// GetPhotoDownload issues a presigned GET URL for the check-in's photo.
func (h *CheckInHandler) GetPhotoDownload(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		respondError(c, err)
		return
	}

	checkInID, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	downloadURL, err := h.checkInService.GetPhotoDownloadURL(c.Request.Context(), principal, checkInID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"downloadUrl": downloadURL})
}
