package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/scvp-dev/scvp/internal/config"
	"github.com/scvp-dev/scvp/internal/domain/models"
	"github.com/scvp-dev/scvp/internal/domain/service"
	"github.com/scvp-dev/scvp/pkg/logger"
)

// ContextKey is a type for context keys
type ContextKey string

const (
	// UserContextKey is the key for storing user in context
	UserContextKey ContextKey = "user"

	// IsAuthenticatedKey is the key for storing authentication status
	IsAuthenticatedKey ContextKey = "is_authenticated"
)

// AuthMiddleware handles authentication for HTTP requests
type AuthMiddleware struct {
	authService service.AuthService
	cookieName  string
	log         *logger.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware instance
func NewAuthMiddleware(authService service.AuthService, authCfg *config.AuthConfig) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		cookieName:  authCfg.CookieName,
		log:         logger.Get().WithFields(logger.Component("auth-middleware")),
	}
}

// Authenticate attempts to authenticate the request but doesn't require it.
// Endpoints that behave differently for anonymous viewers use this.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := m.extractAndValidateUser(c)
		if user != nil {
			m.setUserContext(c, user)
		}
		c.Next()
	}
}

// RequireAuth requires authentication for the endpoint
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := m.extractAndValidateUser(c)
		if user == nil {
			m.log.Warn("Authentication required but not provided",
				logger.Path(c.Request.URL.Path),
				logger.Method(c.Request.Method),
				logger.ClientIP(c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "authentication required",
			})
			return
		}

		m.setUserContext(c, user)
		c.Next()
	}
}

// extractAndValidateUser extracts and validates the user from the request.
// Supports a Bearer session JWT and the session cookie.
func (m *AuthMiddleware) extractAndValidateUser(c *gin.Context) *models.User {
	ctx := c.Request.Context()

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		token := strings.TrimPrefix(authHeader, "Bearer ")
		user, err := m.authService.ResolveSession(ctx, token)
		if err == nil && user != nil {
			return user
		}
	}

	if cookie, err := c.Cookie(m.cookieName); err == nil && cookie != "" {
		user, err := m.authService.ResolveSession(ctx, cookie)
		if err == nil && user != nil {
			return user
		}
	}

	return nil
}

// setUserContext sets the user in the gin context
func (m *AuthMiddleware) setUserContext(c *gin.Context, user *models.User) {
	c.Set(string(UserContextKey), user)
	c.Set(string(IsAuthenticatedKey), true)

	ctx := context.WithValue(c.Request.Context(), UserContextKey, user)
	ctx = context.WithValue(ctx, IsAuthenticatedKey, true)
	c.Request = c.Request.WithContext(ctx)
}

// GetUserFromContext retrieves the authenticated user from the context
func GetUserFromContext(c *gin.Context) *models.User {
	if user, exists := c.Get(string(UserContextKey)); exists {
		if u, ok := user.(*models.User); ok {
			return u
		}
	}
	return nil
}

// IsAuthenticated checks if the request is authenticated
func IsAuthenticated(c *gin.Context) bool {
	if authenticated, exists := c.Get(string(IsAuthenticatedKey)); exists {
		if auth, ok := authenticated.(bool); ok {
			return auth
		}
	}
	return false
}
