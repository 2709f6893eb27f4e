package server

import (
	"net/http"

	"github.com/jonathan/jobboard/internal/types"
)

// AuthHandler handles admin authentication requests.
type AuthHandler struct {
	admins *AdminService
	jwt    *JWTService
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(admins *AdminService, jwtService *JWTService) *AuthHandler {
	return &AuthHandler{admins: admins, jwt: jwtService}
}

// Login exchanges admin credentials for an admin token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	admin, err := h.admins.Login(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := h.jwt.GenerateToken(types.Identity{Email: admin.Email, Admin: true})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, types.LoginResponse{Admin: admin, Token: token})
}
