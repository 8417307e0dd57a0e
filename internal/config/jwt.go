package config

import (
	"fmt"
)

// JWTConfig holds configuration for admin token generation and validation.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// JWT returns the validated token settings. It fails when no secret is
// configured, which leaves admin-only endpoints unreachable.
func (a AuthConfig) JWT() (*JWTConfig, error) {
	cfg := &JWTConfig{
		Secret:          a.JWTSecret,
		ExpirationHours: a.JWTExpirationHours,
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required but not set")
	}
	if len(c.Secret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
