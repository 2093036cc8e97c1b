package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/keepnotes/internal/auth"
	authsvc "github.com/heartmarshall/keepnotes/internal/service/auth"
)

type authService interface {
	Login(ctx context.Context, input authsvc.LoginInput) (auth.AccessToken, error)
}

// AuthHandler serves the owner login endpoint.
type AuthHandler struct {
	svc authService
	log *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(svc authService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: logger}
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in authsvc.LoginInput
	if err := decodeJSON(w, r, 4<<10, &in); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	tok, err := h.svc.Login(r.Context(), in)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{
		AccessToken: tok.Token,
		TokenType:   "Bearer",
		ExpiresAt:   tok.ExpiresAt,
	})
}
