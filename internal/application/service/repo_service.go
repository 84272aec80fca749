package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/scvp-dev/scvp/internal/domain/models"
	"github.com/scvp-dev/scvp/internal/domain/repository"
	"github.com/scvp-dev/scvp/internal/domain/service"
	apperror "github.com/scvp-dev/scvp/pkg/errors"
	"github.com/scvp-dev/scvp/pkg/logger"
)

const initialCommitMessage = "Initial commit"

// RepoView bundles everything the repository page shows: the row itself,
// the live directory scan and the commit log newest-first.
type RepoView struct {
	Repository *models.Repository
	Entries    []service.TreeEntry
	Commits    []*models.Commit
}

// RepoService orchestrates repository lifecycle operations
type RepoService struct {
	repoRepo  repository.RepoRepository
	fileRepo  repository.RepoFileRepository
	commits   repository.CommitRepository
	commitLog *CommitLog
	storage   service.TreeStorage
	log       *logger.Logger
}

// NewRepoService creates a new RepoService
func NewRepoService(
	repoRepo repository.RepoRepository,
	fileRepo repository.RepoFileRepository,
	commits repository.CommitRepository,
	commitLog *CommitLog,
	storage service.TreeStorage,
) *RepoService {
	return &RepoService{
		repoRepo:  repoRepo,
		fileRepo:  fileRepo,
		commits:   commits,
		commitLog: commitLog,
		storage:   storage,
		log:       logger.Get().WithFields(logger.Component("repo_service")),
	}
}

// Create inserts the repository row, materializes its directory, records
// the initial commit and optionally scaffolds a README. A failure after the
// row insert leaves the directory in place; it is not rolled back.
func (s *RepoService) Create(ctx context.Context, owner *models.User, name, description string, isPublic, generateReadme bool) (*models.Repository, error) {
	name = strings.TrimSpace(name)
	if len(name) < 3 || len(name) > 100 {
		return nil, apperror.ValidationError("name", "must be between 3 and 100 characters")
	}
	if len(description) > 500 {
		return nil, apperror.ValidationError("description", "must be at most 500 characters")
	}

	exists, err := s.repoRepo.ExistsByOwnerAndName(ctx, owner.ID, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict("repository with this name already exists", apperror.ErrRepositoryExists)
	}

	repo := &models.Repository{
		Name:        name,
		Description: description,
		OwnerID:     owner.ID,
		IsPublic:    isPublic,
	}

	if err := s.repoRepo.Create(ctx, repo); err != nil {
		return nil, err
	}

	if _, err := s.storage.EnsureRepoDir(ctx, repo.ID); err != nil {
		return nil, err
	}

	if _, err := s.commitLog.Record(ctx, repo.ID, owner.ID, initialCommitMessage); err != nil {
		return nil, err
	}

	if generateReadme {
		if err := s.storage.ScaffoldReadme(ctx, repo.ID, repo.Name, repo.Description); err != nil {
			return nil, err
		}
		content, err := s.storage.ReadFile(ctx, repo.ID, "README.md")
		if err != nil {
			return nil, err
		}
		if err := upsertFileIndex(ctx, s.fileRepo, repo.ID, "README.md", content); err != nil {
			return nil, err
		}
	}

	s.log.Info("Repository created",
		logger.RepoID(repo.ID.String()),
		logger.Username(owner.Username),
		logger.String("name", repo.Name),
	)

	repo.Owner = *owner
	return repo, nil
}

// Get returns the repository row after a read-access check
func (s *RepoService) Get(ctx context.Context, viewer *models.User, repoID uuid.UUID) (*models.Repository, error) {
	return s.authorizeRead(ctx, viewer, repoID)
}

// View returns the repository with a live directory scan and its commit
// log newest-first
func (s *RepoService) View(ctx context.Context, viewer *models.User, repoID uuid.UUID) (*RepoView, error) {
	repo, err := s.authorizeRead(ctx, viewer, repoID)
	if err != nil {
		return nil, err
	}

	entries, err := s.storage.ScanTree(ctx, repo.ID)
	if err != nil {
		return nil, err
	}

	commits, err := s.commits.FindByRepository(ctx, repo.ID)
	if err != nil {
		return nil, err
	}

	return &RepoView{
		Repository: repo,
		Entries:    entries,
		Commits:    commits,
	}, nil
}

// ListOwn returns all repositories owned by the user, newest first
func (s *RepoService) ListOwn(ctx context.Context, ownerID uuid.UUID) ([]*models.Repository, error) {
	return s.repoRepo.FindByOwner(ctx, ownerID)
}

// ListPublic lists public repositories with pagination
func (s *RepoService) ListPublic(ctx context.Context, limit, offset int) ([]*models.Repository, error) {
	return s.repoRepo.ListPublic(ctx, limit, offset)
}

// CountPublic returns the count of public repositories
func (s *RepoService) CountPublic(ctx context.Context) (int64, error) {
	return s.repoRepo.CountPublic(ctx)
}

// Update changes name, description or visibility. Nil fields are left as is.
func (s *RepoService) Update(ctx context.Context, actor *models.User, repoID uuid.UUID, name, description *string, isPublic *bool) (*models.Repository, error) {
	repo, err := s.authorizeWrite(ctx, actor, repoID)
	if err != nil {
		return nil, err
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if len(trimmed) < 3 || len(trimmed) > 100 {
			return nil, apperror.ValidationError("name", "must be between 3 and 100 characters")
		}
		if trimmed != repo.Name {
			exists, err := s.repoRepo.ExistsByOwnerAndName(ctx, repo.OwnerID, trimmed)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, apperror.Conflict("repository with this name already exists", apperror.ErrRepositoryExists)
			}
		}
		repo.Name = trimmed
	}
	if description != nil {
		if len(*description) > 500 {
			return nil, apperror.ValidationError("description", "must be at most 500 characters")
		}
		repo.Description = *description
	}
	if isPublic != nil {
		repo.IsPublic = *isPublic
	}

	if err := s.repoRepo.Update(ctx, repo); err != nil {
		return nil, err
	}

	return repo, nil
}

// Delete removes the database row first, cascading commits and file rows,
// then the on-disk tree. The two deletions are not transactional.
func (s *RepoService) Delete(ctx context.Context, actor *models.User, repoID uuid.UUID) error {
	repo, err := s.authorizeWrite(ctx, actor, repoID)
	if err != nil {
		return err
	}

	if err := s.repoRepo.Delete(ctx, repo.ID); err != nil {
		return err
	}

	if err := s.storage.DeleteTree(ctx, repo.ID); err != nil {
		s.log.Warn("Repository row deleted but tree removal failed",
			logger.RepoID(repo.ID.String()),
			logger.Error(err),
		)
		return err
	}

	s.commitLog.Release(repo.ID)

	s.log.Info("Repository deleted",
		logger.RepoID(repo.ID.String()),
		logger.Username(actor.Username),
	)

	return nil
}

// Commits returns the commit log newest-first after a read-access check
func (s *RepoService) Commits(ctx context.Context, viewer *models.User, repoID uuid.UUID) ([]*models.Commit, error) {
	repo, err := s.authorizeRead(ctx, viewer, repoID)
	if err != nil {
		return nil, err
	}
	return s.commits.FindByRepository(ctx, repo.ID)
}

// FileIndex returns the maintained file index rows after a read-access check
func (s *RepoService) FileIndex(ctx context.Context, viewer *models.User, repoID uuid.UUID) ([]*models.RepoFile, error) {
	repo, err := s.authorizeRead(ctx, viewer, repoID)
	if err != nil {
		return nil, err
	}
	return s.fileRepo.FindByRepository(ctx, repo.ID)
}

// authorizeRead loads the repository and verifies the viewer may see it.
// Inaccessible private repositories surface as not found, so their
// existence is not leaked.
func (s *RepoService) authorizeRead(ctx context.Context, viewer *models.User, repoID uuid.UUID) (*models.Repository, error) {
	repo, err := s.repoRepo.FindByID(ctx, repoID)
	if err != nil {
		return nil, err
	}

	var viewerID *uuid.UUID
	if viewer != nil {
		viewerID = &viewer.ID
	}
	if !repo.CanRead(viewerID) {
		return nil, apperror.NotFound("repository", apperror.ErrNotFound)
	}
	return repo, nil
}

// authorizeWrite loads the repository and verifies the actor owns it.
// Visibility never grants write access.
func (s *RepoService) authorizeWrite(ctx context.Context, actor *models.User, repoID uuid.UUID) (*models.Repository, error) {
	repo, err := s.authorizeRead(ctx, actor, repoID)
	if err != nil {
		return nil, err
	}
	if actor == nil || !repo.CanWrite(&actor.ID) {
		return nil, apperror.Forbidden("only the repository owner may modify it", apperror.ErrForbidden)
	}
	return repo, nil
}

// upsertFileIndex records or refreshes the index row for a written file
func upsertFileIndex(ctx context.Context, files repository.RepoFileRepository, repoID uuid.UUID, relPath string, content []byte) error {
	sum := sha256.Sum256(content)
	return files.Upsert(ctx, &models.RepoFile{
		RepositoryID: repoID,
		Name:         path.Base(relPath),
		Path:         relPath,
		ContentHash:  hex.EncodeToString(sum[:]),
		Size:         int64(len(content)),
		IsDir:        false,
	})
}
