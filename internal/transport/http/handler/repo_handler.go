package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/scvp-dev/scvp/internal/application/dto"
	"github.com/scvp-dev/scvp/internal/application/service"
	"github.com/scvp-dev/scvp/internal/transport/http/middleware"
	apperror "github.com/scvp-dev/scvp/pkg/errors"
)

// RepoHandler handles repository-related HTTP requests
type RepoHandler struct {
	repoService *service.RepoService
}

// NewRepoHandler creates a new RepoHandler instance
func NewRepoHandler(repoService *service.RepoService) *RepoHandler {
	return &RepoHandler{
		repoService: repoService,
	}
}

// Landing handles GET /
func (h *RepoHandler) Landing(c *gin.Context) {
	count, err := h.repoService.CountPublic(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"service":      "SCVP",
		"description":  "Save and Control Version Project",
		"public_repos": count,
	})
}

// Create handles POST /repos
func (h *RepoHandler) Create(c *gin.Context) {
	user := middleware.GetUserFromContext(c)

	var req dto.CreateRepoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	repo, err := h.repoService.Create(
		c.Request.Context(),
		user,
		req.Name,
		req.Description,
		req.IsPublic,
		req.WantsReadme(),
	)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToRepoResponse(repo))
}

// Dashboard handles GET /dashboard, listing the caller's repositories
func (h *RepoHandler) Dashboard(c *gin.Context) {
	user := middleware.GetUserFromContext(c)

	repos, err := h.repoService.ListOwn(c.Request.Context(), user.ID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRepoListResponse(repos))
}

// ListPublic handles GET /repos, listing public repositories
func (h *RepoHandler) ListPublic(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	repos, err := h.repoService.ListPublic(c.Request.Context(), perPage, (page-1)*perPage)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRepoListResponse(repos))
}

// View handles GET /repos/:id
func (h *RepoHandler) View(c *gin.Context) {
	repoID, err := parseRepoID(c)
	if err != nil {
		handleError(c, err)
		return
	}

	view, err := h.repoService.View(c.Request.Context(), middleware.GetUserFromContext(c), repoID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRepoViewResponse(view))
}

// Update handles PATCH /repos/:id
func (h *RepoHandler) Update(c *gin.Context) {
	repoID, err := parseRepoID(c)
	if err != nil {
		handleError(c, err)
		return
	}

	var req dto.UpdateRepoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	repo, err := h.repoService.Update(
		c.Request.Context(),
		middleware.GetUserFromContext(c),
		repoID,
		req.Name,
		req.Description,
		req.IsPublic,
	)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRepoResponse(repo))
}

// Delete handles DELETE /repos/:id
func (h *RepoHandler) Delete(c *gin.Context) {
	repoID, err := parseRepoID(c)
	if err != nil {
		handleError(c, err)
		return
	}

	if err := h.repoService.Delete(c.Request.Context(), middleware.GetUserFromContext(c), repoID); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "repository deleted"})
}

// Commits handles GET /repos/:id/commits
func (h *RepoHandler) Commits(c *gin.Context) {
	repoID, err := parseRepoID(c)
	if err != nil {
		handleError(c, err)
		return
	}

	commits, err := h.repoService.Commits(c.Request.Context(), middleware.GetUserFromContext(c), repoID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCommitListResponse(commits))
}

// FileIndex handles GET /repos/:id/files
func (h *RepoHandler) FileIndex(c *gin.Context) {
	repoID, err := parseRepoID(c)
	if err != nil {
		handleError(c, err)
		return
	}

	files, err := h.repoService.FileIndex(c.Request.Context(), middleware.GetUserFromContext(c), repoID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFileIndexListResponse(files))
}

// parseRepoID reads the :id route parameter
func parseRepoID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperror.BadRequest("invalid repository id", err)
	}
	return id, nil
}
