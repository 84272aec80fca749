package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_HTTPStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		status int
		slug   string
	}{
		{name: "not found", err: NotFound("repository", ErrNotFound), status: http.StatusNotFound, slug: "not_found"},
		{name: "unauthorized", err: Unauthorized("", ErrInvalidCredentials), status: http.StatusUnauthorized, slug: "unauthorized"},
		{name: "forbidden", err: Forbidden("", ErrForbidden), status: http.StatusForbidden, slug: "forbidden"},
		{name: "bad request", err: BadRequest("", ErrInvalidInput), status: http.StatusBadRequest, slug: "bad_request"},
		{name: "conflict", err: Conflict("taken", ErrUserExists), status: http.StatusConflict, slug: "conflict"},
		{name: "too large", err: PayloadTooLarge("", ErrFileTooLarge), status: http.StatusRequestEntityTooLarge, slug: "payload_too_large"},
		{name: "internal", err: InternalError("", nil), status: http.StatusInternalServerError, slug: "internal_error"},
		{name: "storage", err: StorageError("write file", errors.New("disk full")), status: http.StatusInternalServerError, slug: "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus())
			assert.Equal(t, tt.slug, tt.err.Code.String())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	inner := errors.New("row missing")
	err := NotFound("user", inner)

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "user not found")
	assert.Contains(t, err.Error(), "row missing")
}

func TestAppError_WrappedPredicates(t *testing.T) {
	err := fmt.Errorf("loading repository: %w", NotFound("repository", ErrNotFound))
	assert.True(t, IsNotFound(err))
	assert.False(t, IsConflict(err))

	// Bare sentinels match too
	assert.True(t, IsNotFound(ErrNotFound))
	assert.True(t, IsConflict(ErrUserExists))
	assert.True(t, IsBadRequest(ErrFileTypeNotAllowed))
}

func TestValidationError(t *testing.T) {
	err := ValidationError("username", "must be between 3 and 64 characters")

	assert.True(t, IsBadRequest(err))
	require.NotNil(t, err.Details)
	assert.Equal(t, "username", err.Details["field"])
}

func TestDefaultMessages(t *testing.T) {
	assert.Equal(t, "authentication required", Unauthorized("", nil).Message)
	assert.Equal(t, "access denied", Forbidden("", nil).Message)
	assert.Equal(t, "invalid request", BadRequest("", nil).Message)
	assert.Equal(t, "storage write file failed", StorageError("write file", nil).Message)
	assert.Equal(t, "database insert failed", DatabaseError("insert", nil).Message)
}
