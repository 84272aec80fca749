package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Commit is an append-only log entry marking one logical change to a
// repository. The hash is an opaque identifier derived from the repository
// ID, a timestamp and the message; it is not a content digest and carries no
// integrity guarantee about what changed. Commits are never updated or
// deleted individually, only cascade-deleted with their repository or
// author.
type Commit struct {
	ID            uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	RepositoryID  uuid.UUID   `json:"repository_id" gorm:"type:uuid;not null;uniqueIndex:idx_repo_version"`
	Repository    *Repository `json:"-" gorm:"foreignKey:RepositoryID"`
	AuthorID      uuid.UUID   `json:"author_id" gorm:"type:uuid;not null;index"`
	Author        User        `json:"author,omitzero" gorm:"foreignKey:AuthorID"`
	Message       string      `json:"message" gorm:"type:text;not null"`
	Hash          string      `json:"hash" gorm:"uniqueIndex;not null;size:64"`
	ParentHash    *string     `json:"parent_hash,omitempty" gorm:"size:64"`
	VersionNumber int         `json:"version_number" gorm:"not null;uniqueIndex:idx_repo_version"`
	CreatedAt     time.Time   `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for Commit
func (Commit) TableName() string {
	return "commits"
}

// BeforeCreate assigns a UUID primary key when none is set
func (c *Commit) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// ShortHash returns the abbreviated commit hash for display
func (c *Commit) ShortHash() string {
	if len(c.Hash) < 8 {
		return c.Hash
	}
	return c.Hash[:8]
}
