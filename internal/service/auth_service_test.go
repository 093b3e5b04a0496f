package service

import (
	"context"
	"testing"
	"time"

	"coachtrack/fitness-api/internal/apperror"
	"coachtrack/fitness-api/internal/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test-secret"

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestLoginIssuesToken(t *testing.T) {
	userRepo := newMemUserRepo()
	trainer := userRepo.seed("trainer@example.com", hashPassword(t, "Demo1234!"), domain.RoleTrainer)

	svc := NewAuthService(userRepo, testJWTSecret, time.Hour)

	token, user, err := svc.Login(context.Background(), "trainer@example.com", "Demo1234!")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Empty(t, user.PasswordHash)
	assert.Equal(t, domain.RoleTrainer, user.Role)

	claims := &AccessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	assert.Equal(t, trainer.ID.Hex(), claims.Subject)
	assert.Equal(t, "trainer@example.com", claims.Email)
	assert.Equal(t, domain.RoleTrainer, claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestLoginRejectsBadCredentialsUniformly(t *testing.T) {
	userRepo := newMemUserRepo()
	userRepo.seed("trainer@example.com", hashPassword(t, "Demo1234!"), domain.RoleTrainer)

	svc := NewAuthService(userRepo, testJWTSecret, time.Hour)

	// Unknown email and wrong password must be indistinguishable.
	_, _, unknownErr := svc.Login(context.Background(), "nobody@example.com", "Demo1234!")
	_, _, wrongErr := svc.Login(context.Background(), "trainer@example.com", "wrong-password")

	var unknownAppErr, wrongAppErr *apperror.Error
	require.ErrorAs(t, unknownErr, &unknownAppErr)
	require.ErrorAs(t, wrongErr, &wrongAppErr)
	assert.Equal(t, apperror.CodeUnauthorized, unknownAppErr.Code)
	assert.Equal(t, apperror.CodeUnauthorized, wrongAppErr.Code)
	assert.Equal(t, unknownAppErr.Message, wrongAppErr.Message)
	assert.Equal(t, "Invalid credentials", wrongAppErr.Message)
}
