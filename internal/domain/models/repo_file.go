package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RepoFile is the per-file metadata index for a repository. Rows are kept in
// sync by the file service on every mutation; the filesystem scan remains
// the source of truth for the repository view, the index backs listings and
// lookups without walking the tree.
type RepoFile struct {
	ID           uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	RepositoryID uuid.UUID   `json:"repository_id" gorm:"type:uuid;not null;uniqueIndex:idx_repo_path"`
	Repository   *Repository `json:"-" gorm:"foreignKey:RepositoryID"`
	Name         string      `json:"name" gorm:"not null;size:255"`
	Path         string      `json:"path" gorm:"not null;size:1024;uniqueIndex:idx_repo_path"`
	ContentHash  string      `json:"content_hash" gorm:"size:64"` // empty for directories
	Size         int64       `json:"size" gorm:"not null;default:0"`
	IsDir        bool        `json:"is_dir" gorm:"not null;default:false"`
	CreatedAt    time.Time   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time   `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for RepoFile
func (RepoFile) TableName() string {
	return "repo_files"
}

// BeforeCreate assigns a UUID primary key when none is set
func (f *RepoFile) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
