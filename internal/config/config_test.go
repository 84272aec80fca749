package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.True(t, cfg.Database.IsSQLite())
	assert.True(t, cfg.Storage.IsFilesystem())
	assert.Equal(t, "scvp_session", cfg.Auth.CookieName)
	assert.Equal(t, 168, cfg.Auth.SessionTTLHours)
	assert.Equal(t, int64(16*1024*1024), cfg.Uploads.MaxSizeBytes)
	assert.Contains(t, cfg.Uploads.AllowedExtensions, "txt")
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  host: 127.0.0.1
  port: 9090
  mode: debug
database:
  driver: postgres
  host: db.internal
  dbname: scvp_prod
  user: app
  password: hunter2
storage:
  type: filesystem
  base_path: /var/lib/scvp/repos
auth:
  jwt_secret: file-secret
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.ServerAddress())
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.Database.IsSQLite())
	assert.Contains(t, cfg.Database.DSN(), "host=db.internal")
	assert.Contains(t, cfg.Database.DSN(), "dbname=scvp_prod")
	assert.Equal(t, "file-secret", cfg.Auth.JWTSecret)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SCVP_JWT_SECRET", "env-secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 8080},
			Database: DatabaseConfig{Driver: "sqlite", Path: "./scvp.db"},
			Storage:  StorageConfig{Type: "filesystem", BasePath: "./repos"},
			Auth:     AuthConfig{JWTSecret: "secret", MinPasswordLen: 6},
			Uploads:  UploadConfig{MaxSizeBytes: 1024},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{
			name:    "bad port",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "sqlite without path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: "database path is required",
		},
		{
			name: "postgres without host",
			mutate: func(c *Config) {
				c.Database.Driver = "postgres"
				c.Database.Host = ""
			},
			wantErr: "database host is required",
		},
		{
			name:    "s3 without bucket",
			mutate:  func(c *Config) { c.Storage.Type = "s3" },
			wantErr: "S3 bucket is required",
		},
		{
			name:    "unknown storage type",
			mutate:  func(c *Config) { c.Storage.Type = "tape" },
			wantErr: "invalid storage type",
		},
		{
			name:    "missing jwt secret",
			mutate:  func(c *Config) { c.Auth.JWTSecret = "" },
			wantErr: "jwt_secret is required",
		},
		{
			name:    "zero upload limit",
			mutate:  func(c *Config) { c.Uploads.MaxSizeBytes = 0 },
			wantErr: "max_size_bytes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestUploadConfig_ExtensionAllowed(t *testing.T) {
	cfg := &UploadConfig{AllowedExtensions: []string{"txt", "md"}}

	assert.True(t, cfg.ExtensionAllowed(".txt"))
	assert.True(t, cfg.ExtensionAllowed("txt"))
	assert.True(t, cfg.ExtensionAllowed(".TXT"))
	assert.False(t, cfg.ExtensionAllowed(".exe"))
	assert.False(t, cfg.ExtensionAllowed(""))

	// An empty allow-list permits everything
	open := &UploadConfig{}
	assert.True(t, open.ExtensionAllowed(".anything"))
}
