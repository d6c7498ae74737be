package database

import (
	"path/filepath"
	"strings"
	"testing"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
)

func TestBuildSQLiteDSN(t *testing.T) {
	dsn, err := buildSQLiteDSN(Config{})
	require.NoError(t, err)
	require.Equal(t, sharedMemoryDSN, dsn)

	dsn, err = buildSQLiteDSN(Config{Path: "memory:menus"})
	require.NoError(t, err)
	require.Equal(t, "file:menus?mode=memory&cache=shared&_foreign_keys=1", dsn)

	path := filepath.Join(t.TempDir(), "data", "examportal.db")
	dsn, err = buildSQLiteDSN(Config{Path: path})
	require.NoError(t, err)
	require.Contains(t, dsn, "_journal_mode=WAL")
	require.DirExists(t, filepath.Dir(path))

	dsn, err = buildSQLiteDSN(Config{Path: "ignored", DSN: "file:custom.db"})
	require.NoError(t, err)
	require.Equal(t, "file:custom.db", dsn)
}

func TestBuildPostgresDSNDefaults(t *testing.T) {
	dsn, err := buildPostgresDSN(Config{
		User: "examportal",
		Name: "examportal",
	})
	require.NoError(t, err)
	require.Equal(t, "host=localhost port=5432 user=examportal dbname=examportal sslmode=disable", dsn)
}

func TestBuildPostgresDSNWithOptions(t *testing.T) {
	dsn, err := buildPostgresDSN(Config{
		User:     "user",
		Name:     "db",
		Host:     "db.example.com",
		Port:     6543,
		Password: "pass",
		Options: map[string]string{
			"sslmode":     "require",
			"search_path": "public",
		},
	})
	require.NoError(t, err)
	for _, part := range []string{
		"host=db.example.com",
		"port=6543",
		"user=user",
		"dbname=db",
		"password=pass",
		"sslmode=require",
		"search_path=public",
	} {
		require.Contains(t, dsn, part)
	}
}

func TestBuildPostgresDSNQuotesValues(t *testing.T) {
	dsn, err := buildPostgresDSN(Config{User: "nav", Name: "exam portal", Password: `it's a\secret`})
	require.NoError(t, err)
	require.Contains(t, dsn, `dbname='exam portal'`)
	require.Contains(t, dsn, `password='it\'s a\\secret'`)

	_, err = buildPostgresDSN(Config{User: "nav", Name: "db", Options: map[string]string{"sslmode": "sometimes"}})
	require.Error(t, err)
}

func TestBuildPostgresDSNRequiresUserAndName(t *testing.T) {
	_, err := buildPostgresDSN(Config{})
	require.Error(t, err)
}

func TestBuildMySQLDSNDefaults(t *testing.T) {
	dsn, err := buildMySQLDSN(Config{
		User: "examportal",
		Name: "examportal",
	})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(dsn, "examportal@tcp(127.0.0.1:3306)/examportal?"), dsn)
	require.Contains(t, dsn, "parseTime=true")
	require.Contains(t, dsn, "charset=utf8mb4")
}

func TestBuildMySQLDSNWithOptions(t *testing.T) {
	dsn, err := buildMySQLDSN(Config{
		User:     "user",
		Password: "secret",
		Name:     "db",
		Host:     "db.example.com",
		Port:     3307,
		Options: map[string]string{
			"tls": "skip-verify",
		},
	})
	require.NoError(t, err)
	for _, part := range []string{
		"user:secret@tcp(db.example.com:3307)/db?",
		"charset=utf8mb4",
		"parseTime=true",
		"tls=skip-verify",
	} {
		require.Contains(t, dsn, part)
	}
}

func TestBuildMySQLDSNKeepsPasswordIntact(t *testing.T) {
	dsn, err := buildMySQLDSN(Config{User: "nav", Password: "p@ss:word/1", Name: "db"})
	require.NoError(t, err)

	parsed, err := mysqldriver.ParseDSN(dsn)
	require.NoError(t, err)
	require.Equal(t, "p@ss:word/1", parsed.Passwd)
	require.True(t, parsed.ParseTime)
}

func TestBuildMySQLDSNRequiresUserAndName(t *testing.T) {
	_, err := buildMySQLDSN(Config{Host: "localhost"})
	require.Error(t, err)
}
