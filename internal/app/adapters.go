package app

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/kidzstudio/examportal/internal/auth"
	"github.com/kidzstudio/examportal/internal/cache"
	"github.com/kidzstudio/examportal/internal/database"
	"github.com/kidzstudio/examportal/internal/navigation"
)

// JWTServiceConfig converts AuthConfig into the parameters expected by the JWT service.
func (c AuthConfig) JWTServiceConfig() auth.JWTConfig {
	ttl := c.JWT.TTL
	if ttl <= 0 {
		ttl = auth.DefaultAccessTokenTTL
	}

	return auth.JWTConfig{
		Secret:         c.JWT.Secret,
		Issuer:         c.JWT.Issuer,
		AccessTokenTTL: ttl,
	}
}

// ConnectionConfig converts the database section into database.Config.
func (c DatabaseConfig) ConnectionConfig() database.Config {
	cfg := database.Config{
		Driver: c.Driver,
		Path:   c.Path,
		DSN:    c.DSN,
	}

	var host DBAuthConfig
	switch strings.ToLower(strings.TrimSpace(c.Driver)) {
	case "postgres", "postgresql":
		host = c.Postgres
	case "mysql", "mariadb":
		host = c.MySQL
	default:
		return cfg
	}

	cfg.Host = host.Host
	cfg.Port = host.Port
	cfg.Name = host.Database
	cfg.User = host.Username
	cfg.Password = host.Password
	return cfg
}

// NewStore builds the tree cache store for the configured backend. It returns
// nil for the "none" backend.
func (c CacheConfig) NewStore(db *gorm.DB) (cache.Store, error) {
	switch strings.ToLower(strings.TrimSpace(c.Backend)) {
	case "", "memory":
		return cache.NewMemoryStore(), nil
	case "database", "db":
		if db == nil {
			return nil, fmt.Errorf("cache: database backend requires a database")
		}
		return cache.NewDatabaseStore(db), nil
	case "none", "off":
		return nil, nil
	default:
		return nil, fmt.Errorf("cache: unknown backend %q", c.Backend)
	}
}

// Policy parses the configured orphan policy.
func (c NavigationConfig) Policy() (navigation.OrphanPolicy, error) {
	return navigation.ParseOrphanPolicy(c.OrphanPolicy)
}

// IconTable builds the icon table from the configured aliases and default
// glyph. Aliases naming unknown icons are returned as rejected.
func (c NavigationConfig) IconTable() (*navigation.IconTable, []string) {
	return navigation.NewIconTable(c.Icons, c.DefaultGlyph)
}
