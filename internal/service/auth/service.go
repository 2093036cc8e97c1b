package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/keepnotes/internal/auth"
	"github.com/heartmarshall/keepnotes/internal/config"
	"github.com/heartmarshall/keepnotes/internal/domain"
)

// tokenIssuer defines the JWT operations needed by the auth service.
type tokenIssuer interface {
	GenerateAccessToken(subject string) (auth.AccessToken, error)
	ValidateAccessToken(token string) (string, error)
}

// Service authenticates the single owner of the notes.
type Service struct {
	log           *slog.Logger
	jwt           tokenIssuer
	cfg           config.AuthConfig
	checkPassword func(hash, password string) error
}

// NewService creates a new auth service instance.
func NewService(logger *slog.Logger, jwt tokenIssuer, cfg config.AuthConfig) *Service {
	return &Service{
		log:           logger.With("service", "auth"),
		jwt:           jwt,
		cfg:           cfg,
		checkPassword: auth.CheckPassword,
	}
}

// LoginInput holds the owner's password.
type LoginInput struct {
	Password string `json:"password"`
}

// Validate checks all fields and collects all errors.
func (i LoginInput) Validate() error {
	var errs []domain.FieldError
	if i.Password == "" {
		errs = append(errs, domain.FieldError{Field: "password", Message: "required"})
	}
	if len(i.Password) > 72 {
		errs = append(errs, domain.FieldError{Field: "password", Message: "max 72 bytes"})
	}
	return domain.NewValidationErrors(errs)
}

// Login verifies the owner password and issues an access token.
// Returns ErrUnauthorized on a wrong password.
func (s *Service) Login(ctx context.Context, input LoginInput) (auth.AccessToken, error) {
	if err := input.Validate(); err != nil {
		return auth.AccessToken{}, err
	}

	if err := s.checkPassword(s.cfg.PasswordHash, input.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.log.WarnContext(ctx, "owner login rejected")
			return auth.AccessToken{}, domain.ErrUnauthorized
		}
		return auth.AccessToken{}, fmt.Errorf("auth.Login check password: %w", err)
	}

	tok, err := s.jwt.GenerateAccessToken(s.cfg.Owner)
	if err != nil {
		return auth.AccessToken{}, fmt.Errorf("auth.Login issue token: %w", err)
	}

	s.log.InfoContext(ctx, "owner logged in", slog.String("subject", s.cfg.Owner))
	return tok, nil
}

// ValidateToken returns the subject of a valid access token.
func (s *Service) ValidateToken(_ context.Context, token string) (string, error) {
	sub, err := s.jwt.ValidateAccessToken(token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return sub, nil
}
