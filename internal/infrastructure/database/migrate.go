package database

import (
	"github.com/scvp-dev/scvp/internal/domain/models"
	"github.com/scvp-dev/scvp/pkg/logger"
)

// AutoMigrate runs the schema migrations for all domain models
func (d *Database) AutoMigrate() error {
	d.log.Info("Running database migrations")

	err := d.db.AutoMigrate(
		&models.User{},
		&models.Repository{},
		&models.Commit{},
		&models.RepoFile{},
	)
	if err != nil {
		d.log.Error("Database migration failed", logger.Error(err))
		return err
	}

	d.log.Info("Database migrations completed")
	return nil
}
