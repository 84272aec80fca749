package server

import (
	"os"

	"github.com/gin-gonic/gin"

	"github.com/scvp-dev/scvp/internal/config"
	"github.com/scvp-dev/scvp/internal/infrastructure/database"
)

type Server struct {
	*gin.Engine

	Config *config.Config
	DB     *database.Database
}

// New loads configuration, connects the database and builds the gin engine
func New() *Server {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		panic(err)
	}

	return NewWithConfig(cfg, db)
}

// NewWithConfig builds a server from already-initialized dependencies
func NewWithConfig(cfg *config.Config, db *database.Database) *Server {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	return &Server{
		Engine: gin.New(),
		Config: cfg,
		DB:     db,
	}
}

// Run starts the HTTP server on the configured address
func (s *Server) Run() error {
	return s.Engine.Run(s.Config.ServerAddress())
}
