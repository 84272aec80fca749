package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/scvp-dev/scvp/internal/domain/models"
)

// CommitRepository defines the interface for commit log access.
// Commits are append-only; there is no update or single-row delete.
type CommitRepository interface {
	// Create appends a new commit row
	Create(ctx context.Context, commit *models.Commit) error

	// FindByRepository returns all commits for a repository, newest first
	FindByRepository(ctx context.Context, repoID uuid.UUID) ([]*models.Commit, error)

	// FindByHash finds a commit by its hash
	FindByHash(ctx context.Context, hash string) (*models.Commit, error)

	// MaxVersion returns the highest version number recorded for a
	// repository, or 0 when no commits exist
	MaxVersion(ctx context.Context, repoID uuid.UUID) (int, error)

	// CountByRepository returns the number of commits for a repository
	CountByRepository(ctx context.Context, repoID uuid.UUID) (int64, error)
}
