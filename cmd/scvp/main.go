package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scvp-dev/scvp/internal/application/service"
	"github.com/scvp-dev/scvp/internal/config"
	"github.com/scvp-dev/scvp/internal/infrastructure/database"
	"github.com/scvp-dev/scvp/internal/infrastructure/repository"
	"github.com/scvp-dev/scvp/internal/server"
	"github.com/scvp-dev/scvp/internal/transport/http/router"
	"github.com/scvp-dev/scvp/pkg/logger"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "scvp",
		Short: "SCVP (Save and Control Version Project) server and management CLI",
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")

	root.AddCommand(serveCmd())
	root.AddCommand(usersCmd())
	root.AddCommand(dbCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := loadEnvironment()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.AutoMigrate(); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			srv := server.NewWithConfig(cfg, db)
			r := router.NewRouter(srv)
			r.RegisterRoutes()

			logger.Info("Starting HTTP server",
				logger.String("address", cfg.ServerAddress()),
			)
			return srv.Run()
		},
	}
}

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users",
	}
	cmd.AddCommand(usersCreateCmd())
	cmd.AddCommand(usersListCmd())
	return cmd
}

func usersCreateCmd() *cobra.Command {
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := loadEnvironment()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.AutoMigrate(); err != nil {
				return err
			}

			username, _ := cmd.Flags().GetString("username")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			if username == "" {
				return fmt.Errorf("username is required")
			}

			if password == "" {
				fmt.Print("Password: ")
				line, err := bufio.NewReader(os.Stdin).ReadString('\n')
				if err != nil {
					return err
				}
				password = strings.TrimRight(line, "\r\n")
			}

			var emailPtr *string
			if email != "" {
				emailPtr = &email
			}

			userRepo := repository.NewUserRepository(db.DB())
			authService := service.NewAuthService(userRepo, &cfg.Auth)

			user, err := authService.Register(cmd.Context(), username, emailPtr, password)
			if err != nil {
				return err
			}

			fmt.Printf("created user %s (%s)\n", user.Username, user.ID)
			return nil
		},
	}
	create.Flags().String("username", "", "username")
	create.Flags().String("email", "", "email (optional)")
	create.Flags().String("password", "", "password (prompted when omitted)")
	return create
}

func usersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := loadEnvironment()
			if err != nil {
				return err
			}
			defer db.Close()

			userRepo := repository.NewUserRepository(db.DB())
			users, err := userRepo.List(cmd.Context(), 1000, 0)
			if err != nil {
				return err
			}

			for _, u := range users {
				email := "-"
				if u.Email != nil {
					email = *u.Email
				}
				fmt.Printf("%s\t%s\t%s\t%s\n", u.ID, u.Username, email, u.CreatedAt.Format("2006-01-02"))
			}
			return nil
		},
	}
}

func dbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database maintenance",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Run schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := loadEnvironment()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.AutoMigrate(); err != nil {
				return err
			}
			fmt.Println("migrations applied")
			return nil
		},
	})

	return cmd
}

// loadEnvironment loads configuration, initializes logging and opens the
// database connection
func loadEnvironment() (*config.Config, *database.Database, error) {
	path := configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Output = logger.OutputType(cfg.Logging.Output)
	logCfg.Format = cfg.Logging.Format
	logCfg.FilePath = cfg.Logging.OutputPath
	logCfg.Development = cfg.IsDevelopment()
	if err := logger.Init(logCfg); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	return cfg, db, nil
}
