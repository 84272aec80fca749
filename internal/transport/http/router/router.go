package router

import (
	"github.com/scvp-dev/scvp/internal/injectable"
	"github.com/scvp-dev/scvp/internal/server"
	"github.com/scvp-dev/scvp/internal/transport/http/middleware"
)

type Router struct {
	server *server.Server
	Deps   *injectable.Dependencies

	authMiddleware *middleware.AuthMiddleware
}

// NewRouter creates a new Router instance.
func NewRouter(s *server.Server) *Router {
	deps := injectable.LoadDependencies(s.Config, s.DB)

	return &Router{
		server:         s,
		Deps:           &deps,
		authMiddleware: middleware.NewAuthMiddleware(deps.AuthService, &s.Config.Auth),
	}
}

// RegisterRoutes sets up the routes and middleware for the server.
func (r *Router) RegisterRoutes() {
	r.server.Use(middleware.RecoveryMiddleware())
	r.server.Use(middleware.LoggerMiddleware())
	r.server.Use(middleware.CORSMiddleware(r.server.Config.Server.AllowedOrigins))

	r.healthRouter()
	r.authRouter()
	r.repoRouter()
}
