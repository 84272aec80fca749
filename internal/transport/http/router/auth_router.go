package router

import (
	"github.com/scvp-dev/scvp/internal/transport/http/handler"
)

func (r *Router) authRouter() {
	h := handler.NewAuthHandler(r.Deps.AuthService, r.Deps.UserService, &r.server.Config.Auth)

	auth := r.server.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", r.authMiddleware.RequireAuth(), h.Me)
	}

	r.server.POST("/theme", r.authMiddleware.RequireAuth(), h.ToggleTheme)
}
