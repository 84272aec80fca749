package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/google/uuid"
	"github.com/scvp-dev/scvp/internal/domain/models"
	"github.com/scvp-dev/scvp/internal/domain/repository"
	apperror "github.com/scvp-dev/scvp/pkg/errors"
)

// CommitRepoImpl implements the CommitRepository interface using GORM
type CommitRepoImpl struct {
	db *gorm.DB
}

// NewCommitRepository creates a new instance of CommitRepoImpl
func NewCommitRepository(db *gorm.DB) repository.CommitRepository {
	return &CommitRepoImpl{db: db}
}

// Create appends a new commit row
func (r *CommitRepoImpl) Create(ctx context.Context, commit *models.Commit) error {
	if err := r.db.WithContext(ctx).Create(commit).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.Conflict("commit version already recorded", apperror.ErrDatabaseError)
		}
		return apperror.DatabaseError("create", err)
	}
	return nil
}

// FindByRepository returns all commits for a repository, newest first
func (r *CommitRepoImpl) FindByRepository(ctx context.Context, repoID uuid.UUID) ([]*models.Commit, error) {
	var commits []*models.Commit
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("repository_id = ?", repoID).
		Order("version_number DESC").
		Find(&commits).Error
	if err != nil {
		return nil, apperror.DatabaseError("find", err)
	}
	return commits, nil
}

// FindByHash finds a commit by its hash
func (r *CommitRepoImpl) FindByHash(ctx context.Context, hash string) (*models.Commit, error) {
	var commit models.Commit
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("hash = ?", hash).
		First(&commit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("commit", apperror.ErrNotFound)
		}
		return nil, apperror.DatabaseError("find", err)
	}
	return &commit, nil
}

// MaxVersion returns the highest version number recorded for a repository,
// or 0 when no commits exist
func (r *CommitRepoImpl) MaxVersion(ctx context.Context, repoID uuid.UUID) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&models.Commit{}).
		Where("repository_id = ?", repoID).
		Select("MAX(version_number)").
		Scan(&max).Error
	if err != nil {
		return 0, apperror.DatabaseError("find", err)
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

// CountByRepository returns the number of commits for a repository
func (r *CommitRepoImpl) CountByRepository(ctx context.Context, repoID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Commit{}).
		Where("repository_id = ?", repoID).
		Count(&count).Error
	if err != nil {
		return 0, apperror.DatabaseError("count", err)
	}
	return count, nil
}
