package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/scvp-dev/scvp/internal/config"
	"github.com/scvp-dev/scvp/internal/domain/models"
	"github.com/scvp-dev/scvp/internal/domain/repository"
	"github.com/scvp-dev/scvp/internal/domain/service"
	apperror "github.com/scvp-dev/scvp/pkg/errors"
	"github.com/scvp-dev/scvp/pkg/logger"
)

// FileService orchestrates file tree mutations. Every file add, edit and
// delete appends a commit; folder creation does not.
type FileService struct {
	repos     *RepoService
	fileRepo  repository.RepoFileRepository
	repoRepo  repository.RepoRepository
	commitLog *CommitLog
	storage   service.TreeStorage
	uploads   *config.UploadConfig
	log       *logger.Logger
}

// NewFileService creates a new FileService
func NewFileService(
	repos *RepoService,
	fileRepo repository.RepoFileRepository,
	repoRepo repository.RepoRepository,
	commitLog *CommitLog,
	storage service.TreeStorage,
	uploads *config.UploadConfig,
) *FileService {
	return &FileService{
		repos:     repos,
		fileRepo:  fileRepo,
		repoRepo:  repoRepo,
		commitLog: commitLog,
		storage:   storage,
		uploads:   uploads,
		log:       logger.Get().WithFields(logger.Component("file_service")),
	}
}

// Upload stores a new file under an optional subdirectory and records a
// commit. The filename must carry an allowed extension.
func (s *FileService) Upload(ctx context.Context, actor *models.User, repoID uuid.UUID, filename, subPath string, content []byte) (string, *models.Commit, error) {
	repo, err := s.repos.authorizeWrite(ctx, actor, repoID)
	if err != nil {
		return "", nil, err
	}

	filename = path.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." || filename == "/" {
		return "", nil, apperror.ValidationError("file", "filename is required")
	}
	if !s.uploads.ExtensionAllowed(path.Ext(filename)) {
		return "", nil, apperror.BadRequest("file type not allowed", apperror.ErrFileTypeNotAllowed)
	}
	if int64(len(content)) > s.uploads.MaxSizeBytes {
		return "", nil, apperror.PayloadTooLarge("file exceeds the maximum upload size", apperror.ErrFileTooLarge)
	}

	relPath := filename
	if trimmed := strings.Trim(strings.TrimSpace(subPath), "/"); trimmed != "" {
		relPath = trimmed + "/" + filename
	}

	commit, err := s.writeAndCommit(ctx, actor, repo, relPath, content, fmt.Sprintf("Uploaded %s", relPath))
	if err != nil {
		return "", nil, err
	}
	return relPath, commit, nil
}

// Edit overwrites an existing file's content and records a commit
func (s *FileService) Edit(ctx context.Context, actor *models.User, repoID uuid.UUID, relPath string, content []byte) (*models.Commit, error) {
	repo, err := s.repos.authorizeWrite(ctx, actor, repoID)
	if err != nil {
		return nil, err
	}

	if int64(len(content)) > s.uploads.MaxSizeBytes {
		return nil, apperror.PayloadTooLarge("file exceeds the maximum upload size", apperror.ErrFileTooLarge)
	}

	// Edits apply to existing files only
	if _, err := s.storage.ReadFile(ctx, repo.ID, relPath); err != nil {
		return nil, err
	}

	return s.writeAndCommit(ctx, actor, repo, relPath, content, fmt.Sprintf("Edited %s", relPath))
}

// Delete removes a file or directory entry and records a commit
func (s *FileService) Delete(ctx context.Context, actor *models.User, repoID uuid.UUID, relPath string) (*models.Commit, error) {
	repo, err := s.repos.authorizeWrite(ctx, actor, repoID)
	if err != nil {
		return nil, err
	}

	if _, err := s.storage.DeleteEntry(ctx, repo.ID, relPath); err != nil {
		return nil, err
	}

	if _, err := s.fileRepo.DeleteByPath(ctx, repo.ID, normalizeRelPath(relPath)); err != nil {
		return nil, err
	}

	commit, err := s.commitLog.Record(ctx, repo.ID, actor.ID, fmt.Sprintf("Deleted %s", normalizeRelPath(relPath)))
	if err != nil {
		return nil, err
	}
	commit.Author = *actor

	if err := s.repoRepo.Touch(ctx, repo.ID); err != nil {
		return nil, err
	}

	s.log.Info("File deleted",
		logger.RepoID(repo.ID.String()),
		logger.FilePath(relPath),
		logger.Version(commit.VersionNumber),
	)

	return commit, nil
}

// Download returns the file's bytes after a read-access check
func (s *FileService) Download(ctx context.Context, viewer *models.User, repoID uuid.UUID, relPath string) ([]byte, string, error) {
	repo, err := s.repos.authorizeRead(ctx, viewer, repoID)
	if err != nil {
		return nil, "", err
	}

	content, err := s.storage.ReadFile(ctx, repo.ID, relPath)
	if err != nil {
		return nil, "", err
	}

	return content, path.Base(normalizeRelPath(relPath)), nil
}

// CreateFolder creates an empty directory. No commit is recorded.
func (s *FileService) CreateFolder(ctx context.Context, actor *models.User, repoID uuid.UUID, name, parent string) (string, error) {
	repo, err := s.repos.authorizeWrite(ctx, actor, repoID)
	if err != nil {
		return "", err
	}

	name = strings.Trim(strings.TrimSpace(name), "/")
	if name == "" || len(name) > 100 {
		return "", apperror.ValidationError("folder_name", "must be between 1 and 100 characters")
	}

	relPath := name
	if trimmed := strings.Trim(strings.TrimSpace(parent), "/"); trimmed != "" {
		relPath = trimmed + "/" + name
	}

	if err := s.storage.CreateDir(ctx, repo.ID, relPath); err != nil {
		return "", err
	}

	err = s.fileRepo.Upsert(ctx, &models.RepoFile{
		RepositoryID: repo.ID,
		Name:         path.Base(relPath),
		Path:         relPath,
		IsDir:        true,
	})
	if err != nil {
		return "", err
	}

	if err := s.repoRepo.Touch(ctx, repo.ID); err != nil {
		return "", err
	}

	return relPath, nil
}

// writeAndCommit is the shared tail of upload and edit: write the bytes,
// refresh the index row, append the commit and bump the repository.
func (s *FileService) writeAndCommit(ctx context.Context, actor *models.User, repo *models.Repository, relPath string, content []byte, message string) (*models.Commit, error) {
	if err := s.storage.WriteFile(ctx, repo.ID, relPath, content); err != nil {
		return nil, err
	}

	if err := upsertFileIndex(ctx, s.fileRepo, repo.ID, normalizeRelPath(relPath), content); err != nil {
		return nil, err
	}

	commit, err := s.commitLog.Record(ctx, repo.ID, actor.ID, message)
	if err != nil {
		return nil, err
	}
	commit.Author = *actor

	if err := s.repoRepo.Touch(ctx, repo.ID); err != nil {
		return nil, err
	}

	s.log.Info("File written",
		logger.RepoID(repo.ID.String()),
		logger.FilePath(relPath),
		logger.Version(commit.VersionNumber),
	)

	return commit, nil
}

// normalizeRelPath converts a request path to the slash-separated relative
// form used by the file index
func normalizeRelPath(relPath string) string {
	return strings.Trim(strings.TrimSpace(relPath), "/")
}
