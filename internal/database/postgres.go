package database

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func openPostgres(cfg Config) (*gorm.DB, error) {
	dsn, err := buildPostgresDSN(cfg)
	if err != nil {
		return nil, err
	}
	return gorm.Open(postgres.Open(dsn), gormConfig())
}

// buildPostgresDSN renders a keyword/value connection string and checks it
// with pgconn's parser, so a bad option fails at startup rather than on the
// first query.
func buildPostgresDSN(cfg Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}
	if cfg.User == "" || cfg.Name == "" {
		return "", errors.New("postgres configuration requires user and database name")
	}

	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	params := []string{
		"host=" + quotePostgresValue(host),
		"port=" + strconv.Itoa(port),
		"user=" + quotePostgresValue(cfg.User),
		"dbname=" + quotePostgresValue(cfg.Name),
	}
	if cfg.Password != "" {
		params = append(params, "password="+quotePostgresValue(cfg.Password))
	}

	options := map[string]string{"sslmode": "disable"}
	for key, value := range cfg.Options {
		options[key] = value
	}
	keys := make([]string, 0, len(options))
	for key := range options {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		params = append(params, key+"="+quotePostgresValue(options[key]))
	}

	dsn := strings.Join(params, " ")
	if _, err := pgconn.ParseConfig(dsn); err != nil {
		return "", fmt.Errorf("postgres options: %w", err)
	}
	return dsn, nil
}

// quotePostgresValue single-quotes values that are empty or contain spaces,
// quotes or backslashes, escaping the latter two.
func quotePostgresValue(value string) string {
	if value != "" && !strings.ContainsAny(value, ` '\`) {
		return value
	}
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(value)
	return "'" + escaped + "'"
}
