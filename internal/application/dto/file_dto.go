package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/scvp-dev/scvp/internal/domain/models"
)

// CreateFolderRequest represents a request to create an empty directory
type CreateFolderRequest struct {
	FolderName string `json:"folder_name" binding:"required,min=1,max=100"`
	FolderPath string `json:"folder_path"`
}

// EditFileRequest represents a request to overwrite a file's content
type EditFileRequest struct {
	Content string `json:"content" binding:"required"`
}

// FileIndexResponse represents a maintained file index row
type FileIndexResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	ContentHash string    `json:"content_hash,omitempty"`
	Size        int64     `json:"size"`
	IsDir       bool      `json:"is_dir"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FileIndexListResponse represents a repository's file index listing
type FileIndexListResponse struct {
	Files []FileIndexResponse `json:"files"`
	Total int                 `json:"total"`
}

// MutationResponse is returned by file mutations that record a commit
type MutationResponse struct {
	Path   string         `json:"path"`
	Commit CommitResponse `json:"commit"`
}

// FolderResponse is returned by folder creation
type FolderResponse struct {
	Path string `json:"path"`
}

// ToFileIndexResponse converts a file index row to its API representation
func ToFileIndexResponse(file *models.RepoFile) FileIndexResponse {
	return FileIndexResponse{
		ID:          file.ID,
		Name:        file.Name,
		Path:        file.Path,
		ContentHash: file.ContentHash,
		Size:        file.Size,
		IsDir:       file.IsDir,
		UpdatedAt:   file.UpdatedAt,
	}
}

// ToFileIndexListResponse converts file index rows to a list response
func ToFileIndexListResponse(files []*models.RepoFile) FileIndexListResponse {
	out := make([]FileIndexResponse, 0, len(files))
	for _, file := range files {
		out = append(out, ToFileIndexResponse(file))
	}
	return FileIndexListResponse{Files: out, Total: len(out)}
}
