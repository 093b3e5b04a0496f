package api

import (
	"fmt"
	"strings"

	"coachtrack/fitness-api/internal/apperror"
	"coachtrack/fitness-api/internal/domain"
	"coachtrack/fitness-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Context key for the authenticated principal
const contextPrincipalKey = "principal"

// AuthMiddleware creates a Gin middleware for JWT bearer authentication.
// On success the request context carries a domain.Principal.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			respondError(c, apperror.Unauthorized("Missing authorization token"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			respondError(c, apperror.Unauthorized("Missing authorization token"))
			return
		}
		tokenString := strings.TrimSpace(parts[1])

		claims := &service.AccessClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			respondError(c, apperror.Unauthorized("Invalid authorization token"))
			return
		}

		userID, err := primitive.ObjectIDFromHex(claims.Subject)
		if err != nil || !claims.Role.Valid() {
			respondError(c, apperror.Unauthorized("Invalid authorization token"))
			return
		}

		c.Set(contextPrincipalKey, domain.Principal{
			ID:    userID,
			Email: claims.Email,
			Role:  claims.Role,
		})
		c.Next()
	}
}

// RoleMiddleware restricts a route group to the given roles.
// Must run AFTER AuthMiddleware.
func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := principalFromContext(c)
		if err != nil {
			respondError(c, apperror.Unauthorized("Missing user context"))
			return
		}

		for _, role := range allowedRoles {
			if principal.Role == role {
				c.Next()
				return
			}
		}

		respondError(c, apperror.Forbidden("Insufficient role"))
	}
}

// principalFromContext returns the authenticated principal set by
// AuthMiddleware.
func principalFromContext(c *gin.Context) (domain.Principal, error) {
	raw, exists := c.Get(contextPrincipalKey)
	if !exists {
		return domain.Principal{}, fmt.Errorf("principal not found in context")
	}
	principal, ok := raw.(domain.Principal)
	if !ok {
		return domain.Principal{}, fmt.Errorf("invalid principal type in context")
	}
	return principal, nil
}
