package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/google/uuid"
	"github.com/scvp-dev/scvp/internal/domain/models"
	"github.com/scvp-dev/scvp/internal/domain/repository"
	apperror "github.com/scvp-dev/scvp/pkg/errors"
)

// RepoFileRepoImpl implements the RepoFileRepository interface using GORM
type RepoFileRepoImpl struct {
	db *gorm.DB
}

// NewRepoFileRepository creates a new instance of RepoFileRepoImpl
func NewRepoFileRepository(db *gorm.DB) repository.RepoFileRepository {
	return &RepoFileRepoImpl{db: db}
}

// Upsert creates or replaces the index row for (repository, path)
func (r *RepoFileRepoImpl) Upsert(ctx context.Context, file *models.RepoFile) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "repository_id"}, {Name: "path"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "content_hash", "size", "is_dir", "updated_at",
			}),
		}).
		Create(file).Error
	if err != nil {
		return apperror.DatabaseError("upsert", err)
	}
	return nil
}

// FindByRepository returns all index rows for a repository ordered by path
func (r *RepoFileRepoImpl) FindByRepository(ctx context.Context, repoID uuid.UUID) ([]*models.RepoFile, error) {
	var files []*models.RepoFile
	err := r.db.WithContext(ctx).
		Where("repository_id = ?", repoID).
		Order("path ASC").
		Find(&files).Error
	if err != nil {
		return nil, apperror.DatabaseError("find", err)
	}
	return files, nil
}

// FindByPath finds an index row by repository and relative path
func (r *RepoFileRepoImpl) FindByPath(ctx context.Context, repoID uuid.UUID, path string) (*models.RepoFile, error) {
	var file models.RepoFile
	err := r.db.WithContext(ctx).
		Where("repository_id = ? AND path = ?", repoID, path).
		First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("file", apperror.ErrNotFound)
		}
		return nil, apperror.DatabaseError("find", err)
	}
	return &file, nil
}

// DeleteByPath removes the index rows for a path and, for directories,
// everything beneath it. Returns the number of rows removed.
func (r *RepoFileRepoImpl) DeleteByPath(ctx context.Context, repoID uuid.UUID, path string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("repository_id = ? AND (path = ? OR path LIKE ?)", repoID, path, path+"/%").
		Delete(&models.RepoFile{})
	if result.Error != nil {
		return 0, apperror.DatabaseError("delete", result.Error)
	}
	return result.RowsAffected, nil
}
