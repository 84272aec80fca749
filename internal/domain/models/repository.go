package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository represents a named project container owned by a user.
// Its file tree lives under the storage root in a subdirectory keyed by the
// repository ID.
type Repository struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"not null;size:100"`
	Description string    `json:"description" gorm:"size:500"`
	OwnerID     uuid.UUID `json:"owner_id" gorm:"type:uuid;not null;index"`
	Owner       User      `json:"owner,omitzero" gorm:"foreignKey:OwnerID"`
	IsPublic    bool      `json:"is_public" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relations (cascade delete with the repository)
	Commits []Commit   `json:"-" gorm:"foreignKey:RepositoryID;constraint:OnDelete:CASCADE"`
	Files   []RepoFile `json:"-" gorm:"foreignKey:RepositoryID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Repository
func (Repository) TableName() string {
	return "repositories"
}

// BeforeCreate assigns a UUID primary key when none is set
func (r *Repository) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// CanRead reports whether the given user (nil = anonymous) may view this
// repository. Public repositories are readable by anyone.
func (r *Repository) CanRead(userID *uuid.UUID) bool {
	if r.IsPublic {
		return true
	}
	return userID != nil && *userID == r.OwnerID
}

// CanWrite reports whether the given user may mutate this repository.
// Visibility never grants write access; only the owner writes.
func (r *Repository) CanWrite(userID *uuid.UUID) bool {
	return userID != nil && *userID == r.OwnerID
}

// GetFullName returns the repository name in owner/name format
func (r *Repository) GetFullName() string {
	if r.Owner.Username != "" {
		return r.Owner.Username + "/" + r.Name
	}
	return r.Name
}
