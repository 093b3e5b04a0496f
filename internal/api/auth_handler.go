package api

import (
	"net/http"

	"coachtrack/fitness-api/internal/domain"
	"coachtrack/fitness-api/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// IdentityResponse is the public identity shape: id, email, and role only.
type IdentityResponse struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

type LoginResponse struct {
	AccessToken string           `json:"accessToken"`
	User        IdentityResponse `json:"user"`
}

// --- Handler Methods ---

// Login authenticates credentials and returns a bearer token together
// with the user's identity.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		User: IdentityResponse{
			ID:    user.ID.Hex(),
			Email: user.Email,
			Role:  user.Role,
		},
	})
}

// Me echoes the authenticated principal derived from the bearer token.
func (h *AuthHandler) Me(c *gin.Context) {
	principal, err := principalFromContext(c)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, IdentityResponse{
		ID:    principal.ID.Hex(),
		Email: principal.Email,
		Role:  principal.Role,
	})
}
