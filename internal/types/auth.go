package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// LoginRequest represents the admin login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Normalize lowercases and trims the email.
func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	return ValidateStruct(r)
}

// Admin represents an admin account for API responses. The password hash never leaves storage.
type Admin struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AdminAccount is an admin together with its stored credential.
type AdminAccount struct {
	Admin
	PasswordHash string `json:"-"`
}

// LoginResponse represents the login response with admin data and authentication token.
type LoginResponse struct {
	Admin *Admin `json:"admin"`
	Token string `json:"token"`
}

// Identity is the authenticated caller.
type Identity struct {
	Email string
	Admin bool
}
