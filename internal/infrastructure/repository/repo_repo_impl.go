package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/google/uuid"
	"github.com/scvp-dev/scvp/internal/domain/models"
	"github.com/scvp-dev/scvp/internal/domain/repository"
	apperror "github.com/scvp-dev/scvp/pkg/errors"
)

// RepoRepoImpl implements the RepoRepository interface using GORM
type RepoRepoImpl struct {
	db *gorm.DB
}

// NewRepoRepository creates a new instance of RepoRepoImpl
func NewRepoRepository(db *gorm.DB) repository.RepoRepository {
	return &RepoRepoImpl{db: db}
}

// Create creates a new repository in the database
func (r *RepoRepoImpl) Create(ctx context.Context, repo *models.Repository) error {
	if err := r.db.WithContext(ctx).Create(repo).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.Conflict("repository already exists", apperror.ErrRepositoryExists)
		}
		return apperror.DatabaseError("create", err)
	}
	return nil
}

// FindByID retrieves a repository by its ID
func (r *RepoRepoImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Repository, error) {
	var repo models.Repository
	err := r.db.WithContext(ctx).Preload("Owner").First(&repo, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("repository", apperror.ErrNotFound)
		}
		return nil, apperror.DatabaseError("find", err)
	}
	return &repo, nil
}

// FindByOwner finds all repositories owned by a user, newest first
func (r *RepoRepoImpl) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Repository, error) {
	var repos []*models.Repository
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&repos).Error
	if err != nil {
		return nil, apperror.DatabaseError("find", err)
	}
	return repos, nil
}

// ListPublic lists public repositories with pagination
func (r *RepoRepoImpl) ListPublic(ctx context.Context, limit, offset int) ([]*models.Repository, error) {
	var repos []*models.Repository
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("is_public = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&repos).Error
	if err != nil {
		return nil, apperror.DatabaseError("list", err)
	}
	return repos, nil
}

// Update updates a repository
func (r *RepoRepoImpl) Update(ctx context.Context, repo *models.Repository) error {
	result := r.db.WithContext(ctx).Save(repo)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return apperror.Conflict("repository name already exists", apperror.ErrRepositoryExists)
		}
		return apperror.DatabaseError("update", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("repository", apperror.ErrNotFound)
	}
	return nil
}

// Touch refreshes a repository's updated_at timestamp
func (r *RepoRepoImpl) Touch(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.Repository{}).
		Where("id = ?", id).
		Update("updated_at", time.Now())
	if result.Error != nil {
		return apperror.DatabaseError("update", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("repository", apperror.ErrNotFound)
	}
	return nil
}

// Delete deletes a repository by ID, cascading commits and file rows
func (r *RepoRepoImpl) Delete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("repository_id = ?", id).Delete(&models.Commit{}).Error; err != nil {
			return err
		}
		if err := tx.Where("repository_id = ?", id).Delete(&models.RepoFile{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Repository{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("repository", apperror.ErrNotFound)
		}
		return apperror.DatabaseError("delete", err)
	}
	return nil
}

// ExistsByOwnerAndName checks if a repository exists with the given owner and name
func (r *RepoRepoImpl) ExistsByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Repository{}).
		Where("owner_id = ? AND name = ?", ownerID, name).
		Count(&count).Error
	if err != nil {
		return false, apperror.DatabaseError("count", err)
	}
	return count > 0, nil
}

// CountByOwner returns the count of repositories owned by a user
func (r *RepoRepoImpl) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Repository{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	if err != nil {
		return 0, apperror.DatabaseError("count", err)
	}
	return count, nil
}

// CountPublic returns the count of public repositories
func (r *RepoRepoImpl) CountPublic(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Repository{}).
		Where("is_public = ?", true).
		Count(&count).Error
	if err != nil {
		return 0, apperror.DatabaseError("count", err)
	}
	return count, nil
}
