package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperror "github.com/scvp-dev/scvp/pkg/errors"
	"github.com/scvp-dev/scvp/pkg/logger"
)

// handleError maps an application error to its HTTP response. Unrecognized
// errors become an opaque 500.
func handleError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus()
		if status >= http.StatusInternalServerError {
			logger.Get().Error("Request failed",
				logger.Path(c.Request.URL.Path),
				logger.Method(c.Request.Method),
				logger.Error(err),
			)
			c.JSON(status, gin.H{
				"error":   appErr.Code.String(),
				"message": "An internal error occurred",
			})
			return
		}

		c.JSON(status, gin.H{
			"error":   appErr.Code.String(),
			"message": appErr.Message,
		})
		return
	}

	logger.Get().Error("Unhandled error",
		logger.Path(c.Request.URL.Path),
		logger.Method(c.Request.Method),
		logger.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "internal_error",
		"message": "An internal error occurred",
	})
}

// bindError renders a 400 for malformed or invalid request bodies
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "bad_request",
		"message": "Invalid request body",
		"details": err.Error(),
	})
}
