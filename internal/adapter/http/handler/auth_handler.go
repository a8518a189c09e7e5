package handler

import (
	"crypto/subtle"
	"net/http"

	"github.com/iho/partybook/internal/adapter/http/dto"
)

// TokenIssuer issues access tokens for authenticated names.
type TokenIssuer interface {
	Generate(name string) (string, error)
}

// AuthHandler handles owner login. The ledger is single-owner; credentials
// come from configuration, not a user store.
type AuthHandler struct {
	issuer        TokenIssuer
	ownerName     string
	ownerPassword string
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(issuer TokenIssuer, ownerName, ownerPassword string) *AuthHandler {
	return &AuthHandler{issuer: issuer, ownerName: ownerName, ownerPassword: ownerPassword}
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	nameOK := subtle.ConstantTimeCompare([]byte(req.Name), []byte(h.ownerName)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.ownerPassword)) == 1

	if !nameOK || !passOK {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.issuer.Generate(req.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, dto.LoginResponse{Token: token})
}
