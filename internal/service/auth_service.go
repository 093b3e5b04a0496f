package service

import (
	"context"
	"errors"
	"time"

	"coachtrack/fitness-api/internal/apperror"
	"coachtrack/fitness-api/internal/domain"
	"coachtrack/fitness-api/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// AuthService authenticates credentials and issues bearer tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (token string, user *domain.User, err error)
}

// authService implements the AuthService interface.
type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = 7 * 24 * time.Hour
	}
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Login verifies the credentials and returns a signed access token. Both
// unknown email and wrong password map to the same UNAUTHORIZED failure.
func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, apperror.Unauthorized("Invalid credentials")
		}
		return "", nil, apperror.Internal("Failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperror.Unauthorized("Invalid credentials")
	}

	token, err := signAccessToken(user, s.jwtSecret, s.jwtExpiration)
	if err != nil {
		return "", nil, apperror.Internal("Failed to generate token", err)
	}

	user.PasswordHash = ""
	return token, user, nil
}

// AccessClaims defines the structure of the JWT payload: subject is the
// user id, plus the email and role needed to rebuild the principal.
type AccessClaims struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

func signAccessToken(user *domain.User, secret string, expiration time.Duration) (string, error) {
	now := time.Now()
	claims := &AccessClaims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
