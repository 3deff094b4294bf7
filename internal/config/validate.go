package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrSecretMissing     = errors.New("auth.jwt_secret (SECRET_KEY) is required")
	ErrSecretPlaceholder = errors.New("auth.jwt_secret uses a placeholder value")
)

const minSecretLength = 32

var insecureSecrets = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

// Validate checks what the client commands need. The server additionally
// calls ValidateServer.
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.Journal.Timezone); err != nil {
		return fmt.Errorf("journal.timezone %q: %w", c.Journal.Timezone, err)
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error (got %q)", c.Log.Level)
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Format)) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json (got %q)", c.Log.Format)
	}
	if c.Journal.Timeout <= 0 {
		return fmt.Errorf("journal.timeout must be > 0 (got %s)", c.Journal.Timeout)
	}
	return nil
}

func (c *Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be within 1..65535 (got %d)", c.Server.Port)
	}
	if c.Server.BodyLimit <= 0 {
		return fmt.Errorf("server.body_limit must be > 0 (got %d)", c.Server.BodyLimit)
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database.path is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be > 0 (got %s)", c.Auth.TokenTTL)
	}
	return validateSecret(c.Auth.JWTSecret)
}

func validateSecret(secret string) error {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return ErrSecretMissing
	}
	if _, insecure := insecureSecrets[strings.ToLower(secret)]; insecure {
		return ErrSecretPlaceholder
	}
	if len(secret) < minSecretLength {
		return fmt.Errorf("auth.jwt_secret must be at least %d characters (got %d)", minSecretLength, len(secret))
	}
	return nil
}
