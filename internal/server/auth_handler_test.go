package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/jonathan/jobboard/internal/config"
	"github.com/jonathan/jobboard/internal/memstore"
	"github.com/jonathan/jobboard/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAdmin(t *testing.T, ts *testServer, email, password string) {
	t.Helper()
	admins := NewAdminService(ts.store, &config.PasswordConfig{BcryptCost: 10})
	_, err := admins.Seed(context.Background(), email, "Boss", password)
	require.NoError(t, err)
}

func TestAuthHandler_Login(t *testing.T) {
	ts := newTestServer(t)
	seedAdmin(t, ts, "Boss@Example.com", "correct-horse")

	w := ts.do(t, http.MethodPost, "/admin/login", "", map[string]string{
		"email": "boss@example.com", "password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[types.LoginResponse](t, w)
	require.NotNil(t, resp.Admin)
	assert.Equal(t, "boss@example.com", resp.Admin.Email)
	assert.NotContains(t, w.Body.String(), "password")

	claims, err := ts.jwt.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, types.Identity{Email: "boss@example.com", Admin: true}, claims.GetIdentity())

	// The token opens admin routes
	w = ts.do(t, http.MethodGet, "/admin/overview", resp.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthHandler_Login_Failures(t *testing.T) {
	ts := newTestServer(t)
	seedAdmin(t, ts, "boss@example.com", "correct-horse")

	tests := []struct {
		name string
		body any
		want int
		code string
	}{
		{"invalid json", "{", http.StatusBadRequest, "bad_request"},
		{"missing password", map[string]string{"email": "boss@example.com"}, http.StatusBadRequest, "validation_error"},
		{"invalid email", map[string]string{"email": "boss", "password": "x"}, http.StatusBadRequest, "validation_error"},
		{"wrong password", map[string]string{"email": "boss@example.com", "password": "wrong"}, http.StatusUnauthorized, "invalid_credentials"},
		{"unknown admin", map[string]string{"email": "nobody@example.com", "password": "correct-horse"}, http.StatusUnauthorized, "invalid_credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/admin/login", "", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.Equal(t, tt.code, decode[ErrorBody](t, w).Error)
		})
	}
}

func TestAdminService_Seed(t *testing.T) {
	store := memstore.New()
	admins := NewAdminService(store, &config.PasswordConfig{BcryptCost: 10, Pepper: "pepper"})
	ctx := context.Background()

	_, err := admins.Seed(ctx, "boss@example.com", "", "short")
	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Field)

	admin, err := admins.Seed(ctx, "Boss@Example.com", "", "long-enough-password")
	require.NoError(t, err)
	assert.Equal(t, "Admin", admin.Name)
	assert.Equal(t, "boss@example.com", admin.Email)

	acct, err := store.GetAdminByEmail(ctx, "boss@example.com")
	require.NoError(t, err)
	require.NotNil(t, acct)
	assert.NotEqual(t, "long-enough-password", acct.PasswordHash)

	got, err := admins.Login(ctx, &types.LoginRequest{Email: "BOSS@example.com", Password: "long-enough-password"})
	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.ID)

	// Re-seeding rotates the password
	_, err = admins.Seed(ctx, "boss@example.com", "Boss", "another-password")
	require.NoError(t, err)
	_, err = admins.Login(ctx, &types.LoginRequest{Email: "boss@example.com", Password: "long-enough-password"})
	assert.ErrorAs(t, err, new(*ErrInvalidCredentials))
}
