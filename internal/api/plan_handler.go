package api

import (
	"net/http"
	"time"

	"coachtrack/fitness-api/internal/apperror"
	"coachtrack/fitness-api/internal/domain"
	"coachtrack/fitness-api/internal/service"

	"github.com/gin-gonic/gin"
)

// PlanHandler holds the plan service dependency.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- Request/Response Structs ---

type CreatePlanRequest struct {
	Title string `json:"title" binding:"required,min=2"`
	Notes string `json:"notes"`
}

type UpdatePlanRequest struct {
	Title Optional[string] `json:"title"`
	Notes Optional[string] `json:"notes"`
}

type PlanResponse struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"clientId"`
	Title     string    `json:"title"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MapPlanToResponse converts a domain Plan to its DTO.
func MapPlanToResponse(plan *domain.Plan) PlanResponse {
	if plan == nil {
		return PlanResponse{}
	}
	return PlanResponse{
		ID:        plan.ID.Hex(),
		ClientID:  plan.ClientID.Hex(),
		Title:     plan.Title,
		Notes:     plan.Notes,
		CreatedAt: plan.CreatedAt,
		UpdatedAt: plan.UpdatedAt,
	}
}

// MapPlansToResponse converts a slice of domain Plans.
func MapPlansToResponse(plans []domain.Plan) []PlanResponse {
	responses := make([]PlanResponse, len(plans))
	for i := range plans {
		responses[i] = MapPlanToResponse(&plans[i])
	}
	return responses
}

// --- Handler Methods ---

// ListPlans returns a client's plans, newest first.
func (h *PlanHandler) ListPlans(c *gin.Context) {
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

	plans, err := h.planService.ListForClient(c.Request.Context(), principal, clientID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapPlansToResponse(plans))
}

// CreatePlan adds a plan for a client.
func (h *PlanHandler) CreatePlan(c *gin.Context) {
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

	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	plan, err := h.planService.Create(c.Request.Context(), principal, clientID, service.CreatePlanInput{
		Title: req.Title,
		Notes: req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MapPlanToResponse(plan))
}

// UpdatePlan patches a plan.
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		respondError(c, err)
		return
	}

	planID, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	input := service.UpdatePlanInput{}
	if req.Title.Present {
		if !req.Title.Valid || len(req.Title.Value) < 2 {
			respondError(c, apperror.Validation("title must be at least 2 characters"))
			return
		}
		input.Title = &req.Title.Value
	}
	if req.Notes.Present {
		if req.Notes.Valid {
			input.Notes = &req.Notes.Value
		} else {
			input.ClearNotes = true
		}
	}

	plan, err := h.planService.Update(c.Request.Context(), principal, planID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// DeletePlan removes a plan.
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		respondError(c, err)
		return
	}

	planID, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.planService.Delete(c.Request.Context(), principal, planID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
