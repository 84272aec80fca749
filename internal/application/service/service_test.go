package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/scvp-dev/scvp/internal/config"
	"github.com/scvp-dev/scvp/internal/domain/models"
	domainservice "github.com/scvp-dev/scvp/internal/domain/service"
	infrarepo "github.com/scvp-dev/scvp/internal/infrastructure/repository"
	"github.com/scvp-dev/scvp/internal/infrastructure/storage"
)

// testEnv wires the full service stack against an in-memory database and a
// temporary directory tree.
type testEnv struct {
	db        *gorm.DB
	storage   *storage.FilesystemStorage
	commitLog *CommitLog
	auth      domainservice.AuthService
	users     *UserService
	repos     *RepoService
	files     *FileService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// An in-memory database exists per connection, so the pool must stay
	// at a single connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Repository{},
		&models.Commit{},
		&models.RepoFile{},
	))

	fs, err := storage.NewFilesystemStorage(t.TempDir())
	require.NoError(t, err)

	userRepo := infrarepo.NewUserRepository(db)
	repoRepo := infrarepo.NewRepoRepository(db)
	commitRepo := infrarepo.NewCommitRepository(db)
	fileRepo := infrarepo.NewRepoFileRepository(db)

	authCfg := &config.AuthConfig{
		JWTSecret:       "test-secret",
		SessionTTLHours: 24,
		BcryptCost:      bcrypt.MinCost,
		MinPasswordLen:  6,
		CookieName:      "scvp_session",
	}
	uploadCfg := &config.UploadConfig{
		MaxSizeBytes:      1 << 20,
		AllowedExtensions: []string{"txt", "md", "go", "py", "json"},
	}

	commitLog := NewCommitLog(commitRepo)
	repoService := NewRepoService(repoRepo, fileRepo, commitRepo, commitLog, fs)

	return &testEnv{
		db:        db,
		storage:   fs,
		commitLog: commitLog,
		auth:      NewAuthService(userRepo, authCfg),
		users:     NewUserService(userRepo),
		repos:     repoService,
		files:     NewFileService(repoService, fileRepo, repoRepo, commitLog, fs, uploadCfg),
	}
}

func (e *testEnv) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user, err := e.auth.Register(context.Background(), username, nil, "password123")
	require.NoError(t, err)
	return user
}

func (e *testEnv) createRepo(t *testing.T, owner *models.User, name string, isPublic bool) *models.Repository {
	t.Helper()
	repo, err := e.repos.Create(context.Background(), owner, name, "", isPublic, false)
	require.NoError(t, err)
	return repo
}
