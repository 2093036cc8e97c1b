package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/heartmarshall/keepnotes/internal/auth"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically. All
// problems are reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("server.max_body_bytes must be > 0 (got %d)", c.Server.MaxBodyBytes))
	}

	if err := c.Auth.validate(); err != nil {
		errs = append(errs, fmt.Errorf("auth: %w", err))
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.PerMinute <= 0 {
			errs = append(errs, fmt.Errorf("rate_limit.per_minute must be > 0 (got %d)", c.RateLimit.PerMinute))
		}
		if c.RateLimit.LoginPerMinute <= 0 {
			errs = append(errs, fmt.Errorf("rate_limit.login_per_minute must be > 0 (got %d)", c.RateLimit.LoginPerMinute))
		}
		if c.RateLimit.CleanupInterval <= 0 {
			errs = append(errs, fmt.Errorf("rate_limit.cleanup_interval must be > 0 (got %s)", c.RateLimit.CleanupInterval))
		}
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("metrics.path must start with / (got %q)", c.Metrics.Path))
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format))
	}

	return errors.Join(errs...)
}

func (a *AuthConfig) validate() error {
	if !a.Enabled {
		return nil
	}
	if len(a.JWTSecret) < 32 {
		return fmt.Errorf("jwt_secret must be at least 32 characters (got %d)", len(a.JWTSecret))
	}
	if !auth.IsHash(a.PasswordHash) {
		return errors.New("password_hash must be a bcrypt hash (see keepnotes hash-password)")
	}
	if strings.TrimSpace(a.Owner) == "" {
		return errors.New("owner must not be empty")
	}
	if a.AccessTokenTTL <= 0 {
		return fmt.Errorf("access_token_ttl must be > 0 (got %s)", a.AccessTokenTTL)
	}
	return nil
}
