package service

import (
	"context"

	"github.com/google/uuid"
)

// TreeEntry describes one entry of a repository's file tree. Path is
// relative to the repository root; Size is 0 for directories.
type TreeEntry struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	IsDir bool   `json:"is_dir"`
	Size  int64  `json:"size"`
}

// TreeStorage is the storage abstraction for repository file trees. Each
// repository's tree lives in a subtree keyed solely by the repository ID;
// access control happens above this layer.
//
// Missing paths on read/delete are reported via the not-found sentinel from
// pkg/errors, not as raw I/O errors. A missing repository subtree on scan
// yields an empty list.
type TreeStorage interface {
	// EnsureRepoDir idempotently creates the repository's root directory
	// and returns its storage path
	EnsureRepoDir(ctx context.Context, repoID uuid.UUID) (string, error)

	// WriteFile writes the full content to the given relative path,
	// creating intermediate directories and overwriting any existing file
	WriteFile(ctx context.Context, repoID uuid.UUID, relPath string, data []byte) error

	// ReadFile returns the file's bytes
	ReadFile(ctx context.Context, repoID uuid.UUID, relPath string) ([]byte, error)

	// CreateDir creates an empty directory at the given relative path
	CreateDir(ctx context.Context, repoID uuid.UUID, relPath string) error

	// DeleteEntry removes a file or, recursively, a directory. Returns
	// whether anything was deleted.
	DeleteEntry(ctx context.Context, repoID uuid.UUID, relPath string) (bool, error)

	// ScanTree walks the repository's tree and returns a flat entry list.
	// Traversal order is not contractual.
	ScanTree(ctx context.Context, repoID uuid.UUID) ([]TreeEntry, error)

	// ScaffoldReadme writes the template README.md at the repository root,
	// unconditionally overwriting any existing one
	ScaffoldReadme(ctx context.Context, repoID uuid.UUID, name, description string) error

	// DeleteTree removes the repository's entire subtree
	DeleteTree(ctx context.Context, repoID uuid.UUID) error

	// RepoPath returns the storage path for a repository without creating it
	RepoPath(repoID uuid.UUID) string
}
