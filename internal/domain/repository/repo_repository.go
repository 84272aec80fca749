package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/scvp-dev/scvp/internal/domain/models"
)

// RepoRepository defines the interface for repository data access
type RepoRepository interface {
	// Create creates a new repository
	Create(ctx context.Context, repo *models.Repository) error

	// FindByID finds a repository by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*models.Repository, error)

	// FindByOwner finds all repositories owned by a user, newest first
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Repository, error)

	// ListPublic lists public repositories with pagination
	ListPublic(ctx context.Context, limit, offset int) ([]*models.Repository, error)

	// Update updates a repository
	Update(ctx context.Context, repo *models.Repository) error

	// Touch refreshes a repository's updated_at timestamp
	Touch(ctx context.Context, id uuid.UUID) error

	// Delete deletes a repository by ID, cascading commits and file rows
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByOwnerAndName checks if a repository exists with the given owner and name
	ExistsByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (bool, error)

	// CountByOwner returns the count of repositories owned by a user
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)

	// CountPublic returns the count of public repositories
	CountPublic(ctx context.Context) (int64, error)
}
