package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scvp-dev/scvp/internal/application/dto"
	"github.com/scvp-dev/scvp/internal/application/service"
	"github.com/scvp-dev/scvp/internal/config"
	"github.com/scvp-dev/scvp/internal/transport/http/middleware"
	apperror "github.com/scvp-dev/scvp/pkg/errors"
)

// FileHandler handles file tree HTTP requests
type FileHandler struct {
	fileService *service.FileService
	uploads     *config.UploadConfig
}

// NewFileHandler creates a new FileHandler instance
func NewFileHandler(fileService *service.FileService, uploads *config.UploadConfig) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		uploads:     uploads,
	}
}

// Upload handles POST /repos/:id/upload. The file arrives as multipart
// form data with an optional "filepath" subdirectory field.
func (h *FileHandler) Upload(c *gin.Context) {
	repoID, err := parseRepoID(c)
	if err != nil {
		handleError(c, err)
		return
	}

	// Reject oversized bodies before reading them fully
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.uploads.MaxSizeBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		if err.Error() == "http: request body too large" {
			handleError(c, apperror.PayloadTooLarge("file exceeds the maximum upload size", apperror.ErrFileTooLarge))
			return
		}
		bindError(c, err)
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		handleError(c, apperror.BadRequest("could not read uploaded file", err))
		return
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		handleError(c, apperror.BadRequest("could not read uploaded file", err))
		return
	}

	subPath := c.PostForm("filepath")

	relPath, commit, err := h.fileService.Upload(
		c.Request.Context(),
		middleware.GetUserFromContext(c),
		repoID,
		fileHeader.Filename,
		subPath,
		content,
	)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.MutationResponse{
		Path:   relPath,
		Commit: dto.ToCommitResponse(commit),
	})
}

// CreateFolder handles POST /repos/:id/folders
func (h *FileHandler) CreateFolder(c *gin.Context) {
	repoID, err := parseRepoID(c)
	if err != nil {
		handleError(c, err)
		return
	}

	var req dto.CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	relPath, err := h.fileService.CreateFolder(
		c.Request.Context(),
		middleware.GetUserFromContext(c),
		repoID,
		req.FolderName,
		req.FolderPath,
	)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FolderResponse{Path: relPath})
}

// Download handles GET /repos/:id/download/*path, streaming the file as an
// attachment
func (h *FileHandler) Download(c *gin.Context) {
	repoID, err := parseRepoID(c)
	if err != nil {
		handleError(c, err)
		return
	}

	content, filename, err := h.fileService.Download(
		c.Request.Context(),
		middleware.GetUserFromContext(c),
		repoID,
		c.Param("path"),
	)
	if err != nil {
		handleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/octet-stream", content)
}

// DeleteFile handles DELETE /repos/:id/files/*path
func (h *FileHandler) DeleteFile(c *gin.Context) {
	repoID, err := parseRepoID(c)
	if err != nil {
		handleError(c, err)
		return
	}

	commit, err := h.fileService.Delete(
		c.Request.Context(),
		middleware.GetUserFromContext(c),
		repoID,
		c.Param("path"),
	)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MutationResponse{
		Path:   treePath(c),
		Commit: dto.ToCommitResponse(commit),
	})
}

// EditFile handles PUT /repos/:id/files/*path, overwriting the content of
// an existing file
func (h *FileHandler) EditFile(c *gin.Context) {
	repoID, err := parseRepoID(c)
	if err != nil {
		handleError(c, err)
		return
	}

	var req dto.EditFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	commit, err := h.fileService.Edit(
		c.Request.Context(),
		middleware.GetUserFromContext(c),
		repoID,
		c.Param("path"),
		[]byte(req.Content),
	)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MutationResponse{
		Path:   treePath(c),
		Commit: dto.ToCommitResponse(commit),
	})
}

// treePath returns the wildcard path parameter without its leading slash
func treePath(c *gin.Context) string {
	p := c.Param("path")
	if len(p) > 0 && p[0] == '/' {
		return p[1:]
	}
	return p
}
