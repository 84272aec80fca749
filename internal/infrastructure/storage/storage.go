package storage

import (
	"context"
	"fmt"

	"github.com/scvp-dev/scvp/internal/config"
	"github.com/scvp-dev/scvp/internal/domain/service"
)

// StorageType represents the type of storage backend
type StorageType string

const (
	// StorageTypeFilesystem represents local filesystem storage
	StorageTypeFilesystem StorageType = "filesystem"

	// StorageTypeS3 represents AWS S3 storage
	StorageTypeS3 StorageType = "s3"
)

// Factory creates storage backends based on configuration
type Factory struct {
	config *config.StorageConfig
}

// NewFactory creates a new storage factory
func NewFactory(cfg *config.StorageConfig) *Factory {
	return &Factory{
		config: cfg,
	}
}

// Create creates a new storage backend based on the configuration
func (f *Factory) Create() (service.TreeStorage, error) {
	storageType := StorageType(f.config.Type)

	switch storageType {
	case StorageTypeFilesystem, "":
		return NewFilesystemStorage(f.config.BasePath)

	case StorageTypeS3:
		return NewS3Storage(
			context.Background(),
			S3Config{
				Bucket:    f.config.S3Bucket,
				Region:    f.config.S3Region,
				AccessKey: f.config.S3AccessKey,
				SecretKey: f.config.S3SecretKey,
				Endpoint:  f.config.S3Endpoint,
				Prefix:    f.config.S3Prefix,
			},
		)

	default:
		return nil, fmt.Errorf("unsupported storage type: %s", f.config.Type)
	}
}

// MustCreate creates a storage backend and panics on error
func (f *Factory) MustCreate() service.TreeStorage {
	storage, err := f.Create()
	if err != nil {
		panic(fmt.Sprintf("failed to create storage: %v", err))
	}
	return storage
}

// ValidateConfig validates the storage configuration
func ValidateConfig(cfg *config.StorageConfig) error {
	storageType := StorageType(cfg.Type)

	switch storageType {
	case StorageTypeFilesystem, "":
		if cfg.BasePath == "" {
			return fmt.Errorf("base_path is required for filesystem storage")
		}
		return nil

	case StorageTypeS3:
		if cfg.S3Bucket == "" {
			return fmt.Errorf("s3_bucket is required for S3 storage")
		}
		if cfg.S3Region == "" {
			return fmt.Errorf("s3_region is required for S3 storage")
		}
		return nil

	default:
		return fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
