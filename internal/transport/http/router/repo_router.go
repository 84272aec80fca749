package router

import (
	"github.com/scvp-dev/scvp/internal/transport/http/handler"
)

func (r *Router) repoRouter() {
	repoHandler := handler.NewRepoHandler(r.Deps.RepoService)
	fileHandler := handler.NewFileHandler(r.Deps.FileService, &r.server.Config.Uploads)

	r.server.GET("/", repoHandler.Landing)
	r.server.GET("/dashboard", r.authMiddleware.RequireAuth(), repoHandler.Dashboard)

	repos := r.server.Group("/repos")
	{
		repos.GET("", repoHandler.ListPublic)
		repos.POST("", r.authMiddleware.RequireAuth(), repoHandler.Create)

		repo := repos.Group("/:id")
		{
			repo.GET("", r.authMiddleware.Authenticate(), repoHandler.View)
			repo.PATCH("", r.authMiddleware.RequireAuth(), repoHandler.Update)
			repo.DELETE("", r.authMiddleware.RequireAuth(), repoHandler.Delete)

			repo.GET("/commits", r.authMiddleware.Authenticate(), repoHandler.Commits)
			repo.GET("/files", r.authMiddleware.Authenticate(), repoHandler.FileIndex)

			repo.POST("/upload", r.authMiddleware.RequireAuth(), fileHandler.Upload)
			repo.POST("/folders", r.authMiddleware.RequireAuth(), fileHandler.CreateFolder)
			repo.GET("/download/*path", r.authMiddleware.Authenticate(), fileHandler.Download)
			repo.DELETE("/files/*path", r.authMiddleware.RequireAuth(), fileHandler.DeleteFile)
			repo.PUT("/files/*path", r.authMiddleware.RequireAuth(), fileHandler.EditFile)
		}
	}
}
