package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/scvp-dev/scvp/internal/domain/models"
	"github.com/scvp-dev/scvp/internal/domain/repository"
	"github.com/scvp-dev/scvp/pkg/logger"
)

// UserService handles user profile operations
type UserService struct {
	userRepo repository.UserRepository
	log      *logger.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		log:      logger.Get().WithFields(logger.Component("user_service")),
	}
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

// GetByUsername retrieves a user by username
func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.userRepo.FindByUsername(ctx, username)
}

// ToggleTheme flips the user's theme between light and dark and persists
// the new value
func (s *UserService) ToggleTheme(ctx context.Context, user *models.User) (string, error) {
	next := user.NextTheme()
	if err := s.userRepo.UpdateTheme(ctx, user.ID, next); err != nil {
		return "", err
	}
	user.Theme = next

	s.log.Debug("Theme toggled",
		logger.Username(user.Username),
		logger.String("theme", next),
	)

	return next, nil
}

// List retrieves users with pagination
func (s *UserService) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

// Count returns the total number of users
func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.userRepo.Count(ctx)
}
