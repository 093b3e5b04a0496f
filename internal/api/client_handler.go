package api

import (
	"net/http"
	"net/mail"
	"time"

	"coachtrack/fitness-api/internal/apperror"
	"coachtrack/fitness-api/internal/domain"
	"coachtrack/fitness-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClientHandler holds the client service dependency.
type ClientHandler struct {
	clientService service.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// --- Request/Response Structs ---

type CreateClientRequest struct {
	Email        string  `json:"email" binding:"required,email"`
	TempPassword string  `json:"tempPassword" binding:"required,min=6"`
	FirstName    string  `json:"firstName" binding:"required,min=1"`
	LastName     string  `json:"lastName" binding:"required,min=1"`
	TrainerID    *string `json:"trainerId"`
}

type UpdateClientRequest struct {
	Email     Optional[string] `json:"email"`
	FirstName Optional[string] `json:"firstName"`
	LastName  Optional[string] `json:"lastName"`
}

// ClientResponse is the wire shape of a client profile.
type ClientResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
}

// MapClientToResponse converts a domain ClientProfile to its DTO.
func MapClientToResponse(profile *domain.ClientProfile) ClientResponse {
	if profile == nil {
		return ClientResponse{}
	}
	return ClientResponse{
		ID:        profile.ID.Hex(),
		UserID:    profile.UserID.Hex(),
		Email:     profile.Email,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		CreatedAt: profile.CreatedAt,
	}
}

// MapClientsToResponse converts a slice of domain ClientProfiles.
func MapClientsToResponse(profiles []domain.ClientProfile) []ClientResponse {
	responses := make([]ClientResponse, len(profiles))
	for i := range profiles {
		responses[i] = MapClientToResponse(&profiles[i])
	}
	return responses
}

// --- Handler Methods ---

// ListClients returns the client profiles visible to the principal.
func (h *ClientHandler) ListClients(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		respondError(c, err)
		return
	}

	profiles, err := h.clientService.List(c.Request.Context(), principal)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapClientsToResponse(profiles))
}

// CreateClient provisions a new client account and profile.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	input := service.CreateClientInput{
		Email:        req.Email,
		TempPassword: req.TempPassword,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}
	if req.TrainerID != nil {
		trainerID, err := primitive.ObjectIDFromHex(*req.TrainerID)
		if err != nil {
			respondError(c, apperror.Validation("Invalid trainerId format"))
			return
		}
		input.TrainerID = &trainerID
	}

	profile, err := h.clientService.Create(c.Request.Context(), principal, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MapClientToResponse(profile))
}

// GetClient returns one client profile, subject to ownership scoping.
func (h *ClientHandler) GetClient(c *gin.Context) {
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

	profile, err := h.clientService.Get(c.Request.Context(), principal, clientID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapClientToResponse(profile))
}

// UpdateClient patches a client profile, subject to ownership scoping.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
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

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	// Fields are patchable but not nullable.
	input := service.UpdateClientInput{}
	if req.Email.Present {
		if !req.Email.Valid {
			respondError(c, apperror.Validation("email must not be null"))
			return
		}
		if _, err := mail.ParseAddress(req.Email.Value); err != nil {
			respondError(c, apperror.Validation("email must be a valid email"))
			return
		}
		input.Email = &req.Email.Value
	}
	if req.FirstName.Present {
		if !req.FirstName.Valid || req.FirstName.Value == "" {
			respondError(c, apperror.Validation("firstName must not be empty"))
			return
		}
		input.FirstName = &req.FirstName.Value
	}
	if req.LastName.Present {
		if !req.LastName.Valid || req.LastName.Value == "" {
			respondError(c, apperror.Validation("lastName must not be empty"))
			return
		}
		input.LastName = &req.LastName.Value
	}

	profile, err := h.clientService.Update(c.Request.Context(), principal, clientID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapClientToResponse(profile))
}

// clientIDParam parses the :clientId path parameter.
func clientIDParam(c *gin.Context) (primitive.ObjectID, error) {
	clientID, err := primitive.ObjectIDFromHex(c.Param("clientId"))
	if err != nil {
		return primitive.NilObjectID, apperror.Validation("Invalid client ID format")
	}
	return clientID, nil
}

// idParam parses the :id path parameter.
func idParam(c *gin.Context) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return primitive.NilObjectID, apperror.Validation("Invalid ID format")
	}
	return id, nil
}
