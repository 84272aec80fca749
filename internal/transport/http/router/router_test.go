package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/scvp-dev/scvp/internal/config"
	"github.com/scvp-dev/scvp/internal/infrastructure/database"
	"github.com/scvp-dev/scvp/internal/server"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tmp := t.TempDir()
	cfg := &config.Config{
		Server: config.ServerConfig{
			Host:           "127.0.0.1",
			Port:           0,
			Mode:           "test",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Database: config.DatabaseConfig{
			Driver: "sqlite",
			Path:   filepath.Join(tmp, "scvp.db"),
		},
		Storage: config.StorageConfig{
			Type:     "filesystem",
			BasePath: filepath.Join(tmp, "repos"),
		},
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret",
			SessionTTLHours: 24,
			BcryptCost:      bcrypt.MinCost,
			MinPasswordLen:  6,
			CookieName:      "scvp_session",
		},
		Uploads: config.UploadConfig{
			MaxSizeBytes:      1 << 20,
			AllowedExtensions: []string{"txt", "md", "go"},
		},
	}

	db, err := database.NewDatabase(&cfg.Database)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.AutoMigrate())

	srv := server.NewWithConfig(cfg, db)
	r := NewRouter(srv)
	r.RegisterRoutes()

	return srv.Engine
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// registerAndLogin creates a user through the API and returns a session token
func registerAndLogin(t *testing.T, h http.Handler, username string) string {
	t.Helper()

	w := doJSON(t, h, http.MethodPost, "/auth/register", "", gin.H{
		"username":         username,
		"password":         "password123",
		"confirm_password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, h, http.MethodPost, "/auth/login", "", gin.H{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	token, ok := decodeBody(t, w)["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)
	return token
}

func createRepoHTTP(t *testing.T, h http.Handler, token, name string, isPublic bool) string {
	t.Helper()

	w := doJSON(t, h, http.MethodPost, "/repos", token, gin.H{
		"name":      name,
		"is_public": isPublic,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	id, ok := decodeBody(t, w)["id"].(string)
	require.True(t, ok)
	return id
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestServer(t)

	w := doJSON(t, h, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])
}

func TestLandingPage(t *testing.T) {
	h := newTestServer(t)
	token := registerAndLogin(t, h, "alice")
	createRepoHTTP(t, h, token, "open", true)
	createRepoHTTP(t, h, token, "hidden", false)

	w := doJSON(t, h, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "SCVP", body["service"])
	assert.Equal(t, float64(1), body["public_repos"])
}

func TestAuthFlow(t *testing.T) {
	h := newTestServer(t)

	// Mismatched confirmation is rejected at binding
	w := doJSON(t, h, http.MethodPost, "/auth/register", "", gin.H{
		"username":         "alice",
		"password":         "password123",
		"confirm_password": "different",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	token := registerAndLogin(t, h, "alice")

	// Duplicate registration conflicts
	w = doJSON(t, h, http.MethodPost, "/auth/register", "", gin.H{
		"username":         "alice",
		"password":         "password123",
		"confirm_password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Wrong password is unauthorized
	w = doJSON(t, h, http.MethodPost, "/auth/login", "", gin.H{
		"username": "alice",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// The token resolves to the user
	w = doJSON(t, h, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", decodeBody(t, w)["username"])

	// No token, no identity
	w = doJSON(t, h, http.MethodGet, "/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginSetsSessionCookie(t *testing.T) {
	h := newTestServer(t)
	registerAndLogin(t, h, "alice")

	w := doJSON(t, h, http.MethodPost, "/auth/login", "", gin.H{
		"username": "alice",
		"password": "password123",
		"remember": true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	var session *http.Cookie
	for _, c := range cookies {
		if c.Name == "scvp_session" {
			session = c
		}
	}
	require.NotNil(t, session)
	assert.NotEmpty(t, session.Value)
	assert.True(t, session.HttpOnly)
	assert.Equal(t, 24*3600, session.MaxAge)

	// The cookie alone authenticates the request
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(session)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestThemeToggleEndpoint(t *testing.T) {
	h := newTestServer(t)
	token := registerAndLogin(t, h, "alice")

	w := doJSON(t, h, http.MethodPost, "/theme", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "dark", decodeBody(t, w)["theme"])

	w = doJSON(t, h, http.MethodPost, "/theme", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "light", decodeBody(t, w)["theme"])
}

func TestRepositoryLifecycle(t *testing.T) {
	h := newTestServer(t)
	token := registerAndLogin(t, h, "alice")

	// Creation requires authentication
	w := doJSON(t, h, http.MethodPost, "/repos", "", gin.H{"name": "demo"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	repoID := createRepoHTTP(t, h, token, "demo", true)

	// The view shows the scaffolded README and the initial commit
	w = doJSON(t, h, http.MethodGet, "/repos/"+repoID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)

	files := body["files"].([]any)
	require.Len(t, files, 1)
	assert.Equal(t, "README.md", files[0].(map[string]any)["path"])

	commits := body["commits"].([]any)
	require.Len(t, commits, 1)
	assert.Equal(t, "Initial commit", commits[0].(map[string]any)["message"])
	assert.Equal(t, float64(1), commits[0].(map[string]any)["version_number"])

	// Rename and flip visibility
	w = doJSON(t, h, http.MethodPatch, "/repos/"+repoID, token, gin.H{
		"name":      "renamed",
		"is_public": false,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "renamed", decodeBody(t, w)["name"])

	// Dashboard lists it
	w = doJSON(t, h, http.MethodGet, "/dashboard", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeBody(t, w)["total"])

	// Now private, it is gone from the public listing
	w = doJSON(t, h, http.MethodGet, "/repos", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decodeBody(t, w)["total"])

	w = doJSON(t, h, http.MethodDelete, "/repos/"+repoID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, h, http.MethodGet, "/repos/"+repoID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPrivateRepositoryAccess(t *testing.T) {
	h := newTestServer(t)
	owner := registerAndLogin(t, h, "alice")
	other := registerAndLogin(t, h, "bob")

	privateID := createRepoHTTP(t, h, owner, "secret", false)
	publicID := createRepoHTTP(t, h, owner, "open", true)

	// A private repository is invisible to everyone but the owner
	w := doJSON(t, h, http.MethodGet, "/repos/"+privateID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(t, h, http.MethodGet, "/repos/"+privateID, other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doJSON(t, h, http.MethodGet, "/repos/"+privateID, owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// A public repository is readable but not writable by others
	w = doJSON(t, h, http.MethodGet, "/repos/"+publicID, other, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, h, http.MethodDelete, "/repos/"+publicID, other, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestInvalidRepositoryID(t *testing.T) {
	h := newTestServer(t)

	w := doJSON(t, h, http.MethodGet, "/repos/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func uploadFile(t *testing.T, h http.Handler, token, repoID, filename, subPath, content string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	if subPath != "" {
		require.NoError(t, mw.WriteField("filepath", subPath))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/repos/%s/upload", repoID), &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestFileEndpoints(t *testing.T) {
	h := newTestServer(t)
	token := registerAndLogin(t, h, "alice")
	repoID := createRepoHTTP(t, h, token, "demo", true)

	// Upload into a subdirectory
	w := uploadFile(t, h, token, repoID, "notes.txt", "docs", "hello")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "docs/notes.txt", body["path"])
	commit := body["commit"].(map[string]any)
	assert.Equal(t, "Uploaded docs/notes.txt", commit["message"])
	assert.Equal(t, float64(2), commit["version_number"])

	// Download it back
	w = doJSON(t, h, http.MethodGet, "/repos/"+repoID+"/download/docs/notes.txt", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "notes.txt")

	// Edit it
	w = doJSON(t, h, http.MethodPut, "/repos/"+repoID+"/files/docs/notes.txt", token, gin.H{
		"content": "hello world",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	commit = decodeBody(t, w)["commit"].(map[string]any)
	assert.Equal(t, "Edited docs/notes.txt", commit["message"])

	w = doJSON(t, h, http.MethodGet, "/repos/"+repoID+"/download/docs/notes.txt", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello world", w.Body.String())

	// The file index tracks it
	w = doJSON(t, h, http.MethodGet, "/repos/"+repoID+"/files", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decodeBody(t, w)["total"])

	// Delete it
	w = doJSON(t, h, http.MethodDelete, "/repos/"+repoID+"/files/docs/notes.txt", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	commit = decodeBody(t, w)["commit"].(map[string]any)
	assert.Equal(t, "Deleted docs/notes.txt", commit["message"])
	assert.Equal(t, float64(4), commit["version_number"])

	w = doJSON(t, h, http.MethodGet, "/repos/"+repoID+"/download/docs/notes.txt", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The commit log covers the whole history
	w = doJSON(t, h, http.MethodGet, "/repos/"+repoID+"/commits", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(4), decodeBody(t, w)["total"])
}

func TestUploadRejectsDisallowedExtension(t *testing.T) {
	h := newTestServer(t)
	token := registerAndLogin(t, h, "alice")
	repoID := createRepoHTTP(t, h, token, "demo", true)

	w := uploadFile(t, h, token, repoID, "malware.exe", "", "x")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadRequiresAuth(t *testing.T) {
	h := newTestServer(t)
	token := registerAndLogin(t, h, "alice")
	repoID := createRepoHTTP(t, h, token, "demo", true)

	w := uploadFile(t, h, "", repoID, "notes.txt", "", "x")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateFolderEndpoint(t *testing.T) {
	h := newTestServer(t)
	token := registerAndLogin(t, h, "alice")
	repoID := createRepoHTTP(t, h, token, "demo", true)

	w := doJSON(t, h, http.MethodPost, "/repos/"+repoID+"/folders", token, gin.H{
		"folder_name": "docs",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "docs", decodeBody(t, w)["path"])

	// Creating a folder records no commit
	w = doJSON(t, h, http.MethodGet, "/repos/"+repoID+"/commits", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeBody(t, w)["total"])
}

func TestPathTraversalRejected(t *testing.T) {
	h := newTestServer(t)
	token := registerAndLogin(t, h, "alice")
	repoID := createRepoHTTP(t, h, token, "demo", true)

	w := doJSON(t, h, http.MethodGet, "/repos/"+repoID+"/download/..%2f..%2fetc%2fpasswd", "", nil)
	assert.Contains(t, []int{http.StatusBadRequest, http.StatusNotFound}, w.Code)
}
