package config

import (
	"fmt"
	"strings"
)

const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvJWTSecret   = "ACCESS_TOKEN_SECRET"
	EnvESURL       = "ES_URL"
)

// MissingEnvError lists every required key that had no value.
type MissingEnvError struct {
	Keys []string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("missing required env %s", strings.Join(e.Keys, ", "))
}

// Require checks the named keys against the loaded values and reports all
// missing ones at once. Keys this package does not load count as missing.
func (c Config) Require(keys ...string) error {
	var missing []string
	for _, key := range keys {
		if c.value(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return &MissingEnvError{Keys: missing}
	}
	return nil
}

func (c Config) value(key string) string {
	switch key {
	case EnvDatabaseURL:
		return c.DatabaseURL
	case EnvJWTSecret:
		return string(c.JWTSecret)
	case EnvESURL:
		return c.ESURL
	}
	return ""
}
