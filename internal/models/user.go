package models

import "time"

// User represents a registered account. The hash and salt never leave the
// auth package; handlers only ever see PublicUser.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	PasswordSalt string    `json:"-"` // Never expose in JSON
	Avatar       string    `json:"avatar"`
	IsVerified   bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// PublicUser is the sanitized view of a User that crosses the service
// boundary. Produced only by auth.Hasher.SanitizeUser.
type PublicUser struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Avatar     string `json:"avatar"`
	IsVerified bool   `json:"is_verified"`
}

// NewUser carries the fields needed to insert a user record
type NewUser struct {
	Email        string
	Name         string
	PasswordHash string
	PasswordSalt string
}

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Name            string `json:"name"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

// UpdatePasswordRequest represents the request body for a password change
type UpdatePasswordRequest struct {
	ID              string `json:"id"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UpdateProfileRequest represents the request body for a profile update
type UpdateProfileRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}
