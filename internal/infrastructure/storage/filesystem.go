package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/scvp-dev/scvp/internal/domain/service"
	apperror "github.com/scvp-dev/scvp/pkg/errors"
)

// FilesystemStorage implements the TreeStorage interface on the local
// filesystem. Each repository's tree lives under basePath/<repoID>/.
type FilesystemStorage struct {
	basePath string
}

// NewFilesystemStorage creates a new filesystem storage instance
func NewFilesystemStorage(basePath string) (*FilesystemStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base path: %w", err)
	}

	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	return &FilesystemStorage{
		basePath: absPath,
	}, nil
}

// BasePath returns the base storage path
func (s *FilesystemStorage) BasePath() string {
	return s.basePath
}

// RepoPath returns the storage path for a repository without creating it
func (s *FilesystemStorage) RepoPath(repoID uuid.UUID) string {
	return filepath.Join(s.basePath, repoID.String())
}

// EnsureRepoDir idempotently creates the repository's root directory and
// returns its storage path
func (s *FilesystemStorage) EnsureRepoDir(_ context.Context, repoID uuid.UUID) (string, error) {
	repoPath := s.RepoPath(repoID)
	if err := os.MkdirAll(repoPath, 0755); err != nil {
		return "", apperror.StorageError("create repository directory", err)
	}
	return repoPath, nil
}

// WriteFile writes the full content to the given relative path, creating
// intermediate directories and overwriting any existing file
func (s *FilesystemStorage) WriteFile(_ context.Context, repoID uuid.UUID, relPath string, data []byte) error {
	fullPath, err := s.resolvePath(repoID, relPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return apperror.StorageError("create parent directory", err)
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return apperror.StorageError("write file", err)
	}
	return nil
}

// ReadFile returns the file's bytes
func (s *FilesystemStorage) ReadFile(_ context.Context, repoID uuid.UUID, relPath string) ([]byte, error) {
	fullPath, err := s.resolvePath(repoID, relPath)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperror.NotFound("file", apperror.ErrNotFound)
		}
		return nil, apperror.StorageError("stat file", err)
	}
	if info.IsDir() {
		return nil, apperror.BadRequest("path is a directory", apperror.ErrInvalidInput)
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, apperror.StorageError("read file", err)
	}
	return data, nil
}

// CreateDir creates an empty directory at the given relative path
func (s *FilesystemStorage) CreateDir(_ context.Context, repoID uuid.UUID, relPath string) error {
	fullPath, err := s.resolvePath(repoID, relPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(fullPath, 0755); err != nil {
		return apperror.StorageError("create directory", err)
	}
	return nil
}

// DeleteEntry removes a file or, recursively, a directory. Returns whether
// the removed entry was a directory.
func (s *FilesystemStorage) DeleteEntry(_ context.Context, repoID uuid.UUID, relPath string) (bool, error) {
	fullPath, err := s.resolvePath(repoID, relPath)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, apperror.NotFound("file", apperror.ErrNotFound)
		}
		return false, apperror.StorageError("stat path", err)
	}

	if info.IsDir() {
		if err := os.RemoveAll(fullPath); err != nil {
			return false, apperror.StorageError("delete directory", err)
		}
		return true, nil
	}

	if err := os.Remove(fullPath); err != nil {
		return false, apperror.StorageError("delete file", err)
	}
	return false, nil
}

// ScanTree walks the repository's tree and returns a flat entry list.
// A missing repository subtree yields an empty list.
func (s *FilesystemStorage) ScanTree(_ context.Context, repoID uuid.UUID) ([]service.TreeEntry, error) {
	repoPath := s.RepoPath(repoID)

	if _, err := os.Stat(repoPath); err != nil {
		if os.IsNotExist(err) {
			return []service.TreeEntry{}, nil
		}
		return nil, apperror.StorageError("stat repository directory", err)
	}

	entries := []service.TreeEntry{}
	err := filepath.WalkDir(repoPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == repoPath {
			return nil
		}

		rel, err := filepath.Rel(repoPath, path)
		if err != nil {
			return err
		}

		entry := service.TreeEntry{
			Name:  d.Name(),
			Path:  filepath.ToSlash(rel),
			IsDir: d.IsDir(),
		}
		if !d.IsDir() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			entry.Size = info.Size()
		}

		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, apperror.StorageError("scan repository tree", err)
	}

	return entries, nil
}

// ScaffoldReadme writes the template README.md at the repository root
func (s *FilesystemStorage) ScaffoldReadme(ctx context.Context, repoID uuid.UUID, name, description string) error {
	content := RenderReadme(name, description, time.Now())
	return s.WriteFile(ctx, repoID, "README.md", []byte(content))
}

// DeleteTree removes the repository's entire subtree
func (s *FilesystemStorage) DeleteTree(_ context.Context, repoID uuid.UUID) error {
	if err := os.RemoveAll(s.RepoPath(repoID)); err != nil {
		return apperror.StorageError("delete repository tree", err)
	}
	return nil
}

// resolvePath maps a repository-relative path to an absolute path under the
// repository's root, rejecting anything that would escape it
func (s *FilesystemStorage) resolvePath(repoID uuid.UUID, relPath string) (string, error) {
	cleaned, err := CleanTreePath(relPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.RepoPath(repoID), filepath.FromSlash(cleaned)), nil
}

// CleanTreePath normalizes a repository-relative path to slash-separated
// form and rejects absolute paths and parent-directory traversal
func CleanTreePath(relPath string) (string, error) {
	p := strings.TrimSpace(relPath)
	p = strings.Trim(p, "/")
	if p == "" || p == "." {
		return "", apperror.BadRequest("empty path", apperror.ErrInvalidInput)
	}

	cleaned := filepath.ToSlash(filepath.Clean(p))
	if strings.HasPrefix(cleaned, "..") || strings.Contains(cleaned, "/../") || filepath.IsAbs(cleaned) {
		return "", apperror.BadRequest("invalid path", apperror.ErrInvalidInput)
	}
	for _, segment := range strings.Split(cleaned, "/") {
		if segment == ".." {
			return "", apperror.BadRequest("invalid path", apperror.ErrInvalidInput)
		}
	}
	return cleaned, nil
}

// Verify interface compliance at compile time
var _ service.TreeStorage = (*FilesystemStorage)(nil)
