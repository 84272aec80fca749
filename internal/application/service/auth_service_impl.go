package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/scvp-dev/scvp/internal/config"
	"github.com/scvp-dev/scvp/internal/domain/models"
	"github.com/scvp-dev/scvp/internal/domain/repository"
	"github.com/scvp-dev/scvp/internal/domain/service"
	apperror "github.com/scvp-dev/scvp/pkg/errors"
	"github.com/scvp-dev/scvp/pkg/logger"
)

const sessionIssuer = "scvp"

// SessionClaims represents the claims in the session JWT
type SessionClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// AuthServiceImpl implements the AuthService interface
type AuthServiceImpl struct {
	userRepo repository.UserRepository
	config   *config.AuthConfig
	log      *logger.Logger
}

// NewAuthService creates a new AuthServiceImpl
func NewAuthService(userRepo repository.UserRepository, cfg *config.AuthConfig) service.AuthService {
	return &AuthServiceImpl{
		userRepo: userRepo,
		config:   cfg,
		log:      logger.Get().WithFields(logger.Component("auth_service")),
	}
}

// Register creates a new user with a hashed password
func (s *AuthServiceImpl) Register(ctx context.Context, username string, email *string, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if len(username) < 3 || len(username) > 64 {
		return nil, apperror.ValidationError("username", "must be between 3 and 64 characters")
	}
	if len(password) < s.config.MinPasswordLen {
		return nil, apperror.ValidationError("password", fmt.Sprintf("must be at least %d characters", s.config.MinPasswordLen))
	}

	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict("username already taken", apperror.ErrUserExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.config.BcryptCost)
	if err != nil {
		return nil, apperror.InternalError("failed to hash password", err)
	}

	user := &models.User{
		Username:     username,
		Email:        normalizeEmail(email),
		PasswordHash: string(hash),
		Theme:        models.ThemeLight,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("User registered",
		logger.Username(user.Username),
		logger.UserID(user.ID.String()),
	)

	return user, nil
}

// Login verifies credentials and issues a signed session token.
// Unknown usernames and wrong passwords produce the same error.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, "", apperror.Unauthorized("invalid username or password", apperror.ErrInvalidCredentials)
		}
		return nil, "", err
	}

	if !s.CheckPassword(user, password) {
		return nil, "", apperror.Unauthorized("invalid username or password", apperror.ErrInvalidCredentials)
	}

	token, err := s.generateSessionToken(user)
	if err != nil {
		return nil, "", err
	}

	s.log.Info("User logged in", logger.Username(user.Username))

	return user, token, nil
}

// ResolveSession maps a session token to a user
func (s *AuthServiceImpl) ResolveSession(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.validateSessionToken(token)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apperror.Unauthorized("invalid session token claims", err)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.Unauthorized("session user no longer exists", apperror.ErrSessionExpired)
		}
		return nil, err
	}

	return user, nil
}

// CheckPassword recomputes and compares the stored hash
func (s *AuthServiceImpl) CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// generateSessionToken signs a JWT session token for the user
func (s *AuthServiceImpl) generateSessionToken(user *models.User) (string, error) {
	now := time.Now()
	ttl := time.Duration(s.config.SessionTTLHours) * time.Hour

	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			NotBefore: jwt.NewNumericDate(now),
		},
		UserID:   user.ID.String(),
		Username: user.Username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", apperror.InternalError("failed to sign session token", err)
	}

	return signedToken, nil
}

// validateSessionToken validates a session JWT and returns the claims
func (s *AuthServiceImpl) validateSessionToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil {
		return nil, apperror.Unauthorized("invalid session token", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, apperror.Unauthorized("invalid session token claims", nil)
	}

	return claims, nil
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	trimmed := strings.ToLower(strings.TrimSpace(*email))
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
