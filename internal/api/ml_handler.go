package api

import (
	"net/http"

	"coachtrack/fitness-api/internal/service"

	"github.com/gin-gonic/gin"
)

// MLHandler holds the prediction proxy dependency.
type MLHandler struct {
	mlService service.MLService
}

// NewMLHandler creates a new MLHandler.
func NewMLHandler(mlService service.MLService) *MLHandler {
	return &MLHandler{mlService: mlService}
}

// --- Request Structs ---

type PredictFeaturesRequest struct {
	LastWeight    float64 `json:"last_weight" binding:"gte=0"`
	LastWaist     float64 `json:"last_waist" binding:"gte=0"`
	RollingMean7  float64 `json:"rolling_mean_7" binding:"gte=0"`
	RollingMean14 float64 `json:"rolling_mean_14" binding:"gte=0"`
	Delta7        float64 `json:"delta_7"`
	DayOfWeek     int     `json:"day_of_week" binding:"gte=0,lte=6"`
}

type PredictRequest struct {
	Features *PredictFeaturesRequest `json:"features" binding:"required"`
}

// --- Handler Methods ---

// Health proxies the prediction service's liveness endpoint.
func (h *MLHandler) Health(c *gin.Context) {
	health, err := h.mlService.Health(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, health)
}

// PredictWeight forwards the feature vector to the prediction service.
func (h *MLHandler) PredictWeight(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	prediction, err := h.mlService.PredictWeight(c.Request.Context(), service.PredictFeatures{
		LastWeight:    req.Features.LastWeight,
		LastWaist:     req.Features.LastWaist,
		RollingMean7:  req.Features.RollingMean7,
		RollingMean14: req.Features.RollingMean14,
		Delta7:        req.Features.Delta7,
		DayOfWeek:     req.Features.DayOfWeek,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, prediction)
}
