package router

import (
	"github.com/scvp-dev/scvp/internal/transport/http/handler"
)

func (r *Router) healthRouter() {
	r.server.GET("/healthz", handler.HealthHandler(r.server.DB))
}
