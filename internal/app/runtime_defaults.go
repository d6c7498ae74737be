package app

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

const jwtSecretBytes = 48

// ApplyRuntimeDefaults fills settings a Config needs at runtime but that may
// be zero when it was built by hand or loaded from a sparse file. The returned
// map lists every key it filled; the value is true for generated secrets,
// which callers should log without the value.
func ApplyRuntimeDefaults(cfg *Config) (map[string]bool, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	filled := make(map[string]bool)

	if strings.TrimSpace(cfg.Auth.JWT.Secret) == "" {
		secret, err := generateHexKey(jwtSecretBytes)
		if err != nil {
			return nil, fmt.Errorf("generate jwt secret: %w", err)
		}
		cfg.Auth.JWT.Secret = secret
		filled["auth.jwt.secret"] = true
	}
	if strings.TrimSpace(cfg.Auth.JWT.Issuer) == "" {
		cfg.Auth.JWT.Issuer = "examportal"
		filled["auth.jwt.issuer"] = false
	}
	if cfg.Auth.JWT.TTL <= 0 {
		cfg.Auth.JWT.TTL = time.Hour
		filled["auth.jwt.access_token_ttl"] = false
	}
	if strings.TrimSpace(cfg.Navigation.OrphanPolicy) == "" {
		cfg.Navigation.OrphanPolicy = "drop"
		filled["navigation.orphan_policy"] = false
	}
	if cfg.Cache.TTL <= 0 && cfg.Cache.Backend != "none" {
		cfg.Cache.TTL = 5 * time.Minute
		filled["cache.ttl"] = false
	}

	return filled, nil
}

func generateHexKey(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive")
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
