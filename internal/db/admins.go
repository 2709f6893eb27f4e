package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jonathan/jobboard/internal/types"
)

// UpsertAdmin creates or updates an admin by email and marks it active.
func (db *DB) UpsertAdmin(ctx context.Context, email, name, passwordHash string) (*types.Admin, error) {
	var a types.Admin
	err := db.pool.QueryRow(ctx,
		`INSERT INTO admins (email, name, password_hash, is_active)
		 VALUES ($1, $2, $3, TRUE)
		 ON CONFLICT (email) DO UPDATE SET
			name = EXCLUDED.name,
			password_hash = EXCLUDED.password_hash,
			is_active = TRUE,
			updated_at = NOW()
		 RETURNING id, email, name, is_active, created_at, updated_at`,
		strings.ToLower(email), name, passwordHash,
	).Scan(&a.ID, &a.Email, &a.Name, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert admin: %w", err)
	}
	return &a, nil
}

// GetAdminByEmail returns nil, nil when the admin does not exist.
func (db *DB) GetAdminByEmail(ctx context.Context, email string) (*types.AdminAccount, error) {
	var a types.AdminAccount
	err := db.pool.QueryRow(ctx,
		`SELECT id, email, name, is_active, password_hash, created_at, updated_at
		 FROM admins WHERE email = $1`,
		strings.ToLower(email),
	).Scan(&a.ID, &a.Email, &a.Name, &a.IsActive, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return &a, nil
}
