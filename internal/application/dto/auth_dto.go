package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/scvp-dev/scvp/internal/domain/models"
)

// RegisterRequest represents a request to create a new account
type RegisterRequest struct {
	Username        string  `json:"username" binding:"required,min=3,max=64"`
	Email           *string `json:"email,omitempty" binding:"omitempty,email,max=120"`
	Password        string  `json:"password" binding:"required,min=6"`
	ConfirmPassword string  `json:"confirm_password" binding:"required,eqfield=Password"`
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Remember bool   `json:"remember"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     *string   `json:"email,omitempty"`
	Theme     string    `json:"theme"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionResponse is returned after a successful login
type SessionResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ThemeResponse is returned after a theme toggle
type ThemeResponse struct {
	Theme string `json:"theme"`
}

// ToUserResponse converts a user model to its API representation
func ToUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Theme:     user.Theme,
		CreatedAt: user.CreatedAt,
	}
}
