package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scvp-dev/scvp/internal/application/dto"
	appservice "github.com/scvp-dev/scvp/internal/application/service"
	"github.com/scvp-dev/scvp/internal/config"
	"github.com/scvp-dev/scvp/internal/domain/service"
	"github.com/scvp-dev/scvp/internal/transport/http/middleware"
)

// AuthHandler handles registration, login and session endpoints
type AuthHandler struct {
	authService service.AuthService
	userService *appservice.UserService
	authCfg     *config.AuthConfig
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(authService service.AuthService, userService *appservice.UserService, authCfg *config.AuthConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		authCfg:     authCfg,
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// Login handles POST /auth/login. The session token is returned in the
// body and also set as a cookie so browser and API clients both work.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		handleError(c, err)
		return
	}

	maxAge := 0 // session cookie
	if req.Remember {
		maxAge = h.authCfg.SessionTTLHours * 3600
	}
	c.SetCookie(h.authCfg.CookieName, token, maxAge, "/", "", h.authCfg.CookieSecure, true)

	c.JSON(http.StatusOK, dto.SessionResponse{
		Token: token,
		User:  dto.ToUserResponse(user),
	})
}

// Logout handles POST /auth/logout by clearing the session cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(h.authCfg.CookieName, "", -1, "/", "", h.authCfg.CookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "authentication required",
		})
		return
	}

	c.JSON(http.StatusOK, dto.ToUserResponse(user))
}

// ToggleTheme handles POST /theme
func (h *AuthHandler) ToggleTheme(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "authentication required",
		})
		return
	}

	theme, err := h.userService.ToggleTheme(c.Request.Context(), user)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ThemeResponse{Theme: theme})
}
