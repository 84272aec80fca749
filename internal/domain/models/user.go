package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Theme values for the UI preference
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// User represents an account in the system
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null;size:64"`
	Email        *string   `json:"email,omitempty" gorm:"uniqueIndex;size:120"`
	PasswordHash string    `json:"-" gorm:"not null;size:256"`
	Theme        string    `json:"theme" gorm:"size:10;not null;default:'light'"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relations (cascade: deleting a user removes owned repositories and
	// authored commits)
	Repositories []Repository `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Commits      []Commit     `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID primary key when none is set
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Theme == "" {
		u.Theme = ThemeLight
	}
	return nil
}

// IsAuthenticated reports whether this value represents a resolved identity
func (u *User) IsAuthenticated() bool {
	return u != nil && u.ID != uuid.Nil
}

// IdentityKey returns the stable identifier persisted in session tokens
func (u *User) IdentityKey() string {
	return u.ID.String()
}

// NextTheme returns the opposite theme preference
func (u *User) NextTheme() string {
	if u.Theme == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
