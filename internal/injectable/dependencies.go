package injectable

import (
	"github.com/scvp-dev/scvp/internal/application/service"
	"github.com/scvp-dev/scvp/internal/config"
	domainservice "github.com/scvp-dev/scvp/internal/domain/service"
	"github.com/scvp-dev/scvp/internal/infrastructure/database"
	"github.com/scvp-dev/scvp/internal/infrastructure/repository"
	"github.com/scvp-dev/scvp/internal/infrastructure/storage"
)

// Dependencies holds all the dependencies required by the router
type Dependencies struct {
	AuthService domainservice.AuthService
	UserService *service.UserService
	RepoService *service.RepoService
	FileService *service.FileService
	Storage     domainservice.TreeStorage
}

// LoadDependencies wires repositories, storage and services together
func LoadDependencies(cfg *config.Config, db *database.Database) Dependencies {
	userRepo := repository.NewUserRepository(db.DB())
	repoRepo := repository.NewRepoRepository(db.DB())
	commitRepo := repository.NewCommitRepository(db.DB())
	fileRepo := repository.NewRepoFileRepository(db.DB())

	storageFactory := storage.NewFactory(&cfg.Storage)
	treeStorage, err := storageFactory.Create()
	if err != nil {
		panic("Failed to initialize storage: " + err.Error())
	}

	commitLog := service.NewCommitLog(commitRepo)

	authService := service.NewAuthService(userRepo, &cfg.Auth)
	userService := service.NewUserService(userRepo)
	repoService := service.NewRepoService(repoRepo, fileRepo, commitRepo, commitLog, treeStorage)
	fileService := service.NewFileService(repoService, fileRepo, repoRepo, commitLog, treeStorage, &cfg.Uploads)

	return Dependencies{
		AuthService: authService,
		UserService: userService,
		RepoService: repoService,
		FileService: fileService,
		Storage:     treeStorage,
	}
}
