package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/scvp-dev/scvp/internal/domain/models"
)

// RepoFileRepository defines the interface for the per-repository file index
type RepoFileRepository interface {
	// Upsert creates or replaces the index row for (repository, path)
	Upsert(ctx context.Context, file *models.RepoFile) error

	// FindByRepository returns all index rows for a repository ordered by path
	FindByRepository(ctx context.Context, repoID uuid.UUID) ([]*models.RepoFile, error)

	// FindByPath finds an index row by repository and relative path
	FindByPath(ctx context.Context, repoID uuid.UUID, path string) (*models.RepoFile, error)

	// DeleteByPath removes the index rows for a path and, for directories,
	// everything beneath it. Returns the number of rows removed.
	DeleteByPath(ctx context.Context, repoID uuid.UUID, path string) (int64, error)
}
