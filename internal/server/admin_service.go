package server

import (
	"context"
	"fmt"

	"github.com/jonathan/jobboard/internal/config"
	"github.com/jonathan/jobboard/internal/types"
)

// AdminStore is the persistence the admin service needs.
type AdminStore interface {
	// GetAdminByEmail returns nil, nil when the admin does not exist.
	GetAdminByEmail(ctx context.Context, email string) (*types.AdminAccount, error)
	UpsertAdmin(ctx context.Context, email, name, passwordHash string) (*types.Admin, error)
}

// AdminService provides business logic for admin authentication.
type AdminService struct {
	store          AdminStore
	passwordConfig *config.PasswordConfig
}

// NewAdminService creates a new AdminService with the given dependencies.
func NewAdminService(store AdminStore, passwordConfig *config.PasswordConfig) *AdminService {
	return &AdminService{
		store:          store,
		passwordConfig: passwordConfig,
	}
}

// Login authenticates an admin and returns the account without its hash.
func (s *AdminService) Login(ctx context.Context, req *types.LoginRequest) (*types.Admin, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	acct, err := s.store.GetAdminByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin by email: %w", err)
	}

	// Same error for unknown, inactive and wrong password
	if acct == nil || !acct.IsActive {
		return nil, &ErrInvalidCredentials{}
	}
	if !s.passwordConfig.VerifyPassword(req.Password, acct.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	admin := acct.Admin
	return &admin, nil
}

// Seed creates or updates an admin with a freshly hashed password.
func (s *AdminService) Seed(ctx context.Context, email, name, password string) (*types.Admin, error) {
	login := types.LoginRequest{Email: email, Password: password}
	login.Normalize()
	if err := login.Validate(); err != nil {
		return nil, err
	}
	if err := s.passwordConfig.CheckPasswordStrength(password); err != nil {
		return nil, &types.ValidationError{Field: "password", Message: err.Error()}
	}
	if name == "" {
		name = "Admin"
	}

	hash, err := s.passwordConfig.HashPassword(password)
	if err != nil {
		return nil, err
	}
	admin, err := s.store.UpsertAdmin(ctx, login.Email, name, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to save admin: %w", err)
	}
	return admin, nil
}
