package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/scvp-dev/scvp/internal/application/service"
	"github.com/scvp-dev/scvp/internal/domain/models"
)

// CreateRepoRequest represents a request to create a new repository
type CreateRepoRequest struct {
	Name           string `json:"name" binding:"required,min=3,max=100"`
	Description    string `json:"description" binding:"max=500"`
	IsPublic       bool   `json:"is_public"`
	GenerateReadme *bool  `json:"generate_readme,omitempty"`
}

// WantsReadme reports whether a README should be scaffolded; the default
// is yes when the field is omitted
func (r *CreateRepoRequest) WantsReadme() bool {
	return r.GenerateReadme == nil || *r.GenerateReadme
}

// UpdateRepoRequest represents a request to update a repository
type UpdateRepoRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=3,max=100"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=500"`
	IsPublic    *bool   `json:"is_public,omitempty"`
}

// RepoResponse represents the response for repository data
type RepoResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Owner       string    `json:"owner"`
	OwnerID     uuid.UUID `json:"owner_id"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RepoListResponse represents a list of repositories
type RepoListResponse struct {
	Repositories []RepoResponse `json:"repositories"`
	Total        int            `json:"total"`
}

// TreeEntryResponse represents one entry of a repository's file tree
type TreeEntryResponse struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	IsDir bool   `json:"is_dir"`
	Size  int64  `json:"size"`
}

// CommitResponse represents a commit log row
type CommitResponse struct {
	ID            uuid.UUID `json:"id"`
	Hash          string    `json:"hash"`
	ShortHash     string    `json:"short_hash"`
	Message       string    `json:"message"`
	Author        string    `json:"author"`
	VersionNumber int       `json:"version_number"`
	CreatedAt     time.Time `json:"created_at"`
}

// RepoViewResponse is the repository page payload: the repository row, a
// live directory scan and the commit log newest-first
type RepoViewResponse struct {
	Repository RepoResponse        `json:"repository"`
	Files      []TreeEntryResponse `json:"files"`
	Commits    []CommitResponse    `json:"commits"`
}

// CommitListResponse represents a commit log
type CommitListResponse struct {
	Commits []CommitResponse `json:"commits"`
	Total   int              `json:"total"`
}

// ToRepoResponse converts a repository model to its API representation
func ToRepoResponse(repo *models.Repository) RepoResponse {
	return RepoResponse{
		ID:          repo.ID,
		Name:        repo.Name,
		Description: repo.Description,
		Owner:       repo.Owner.Username,
		OwnerID:     repo.OwnerID,
		IsPublic:    repo.IsPublic,
		CreatedAt:   repo.CreatedAt,
		UpdatedAt:   repo.UpdatedAt,
	}
}

// ToRepoListResponse converts repository models to a list response
func ToRepoListResponse(repos []*models.Repository) RepoListResponse {
	out := make([]RepoResponse, 0, len(repos))
	for _, repo := range repos {
		out = append(out, ToRepoResponse(repo))
	}
	return RepoListResponse{Repositories: out, Total: len(out)}
}

// ToCommitResponse converts a commit model to its API representation
func ToCommitResponse(commit *models.Commit) CommitResponse {
	return CommitResponse{
		ID:            commit.ID,
		Hash:          commit.Hash,
		ShortHash:     commit.ShortHash(),
		Message:       commit.Message,
		Author:        commit.Author.Username,
		VersionNumber: commit.VersionNumber,
		CreatedAt:     commit.CreatedAt,
	}
}

// ToCommitListResponse converts commit models to a list response
func ToCommitListResponse(commits []*models.Commit) CommitListResponse {
	out := make([]CommitResponse, 0, len(commits))
	for _, commit := range commits {
		out = append(out, ToCommitResponse(commit))
	}
	return CommitListResponse{Commits: out, Total: len(out)}
}

// ToRepoViewResponse converts a repository view to its API representation
func ToRepoViewResponse(view *service.RepoView) RepoViewResponse {
	files := make([]TreeEntryResponse, 0, len(view.Entries))
	for _, entry := range view.Entries {
		files = append(files, TreeEntryResponse{
			Name:  entry.Name,
			Path:  entry.Path,
			IsDir: entry.IsDir,
			Size:  entry.Size,
		})
	}

	commitList := ToCommitListResponse(view.Commits)

	return RepoViewResponse{
		Repository: ToRepoResponse(view.Repository),
		Files:      files,
		Commits:    commitList.Commits,
	}
}
