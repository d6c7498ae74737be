package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const sharedMemoryDSN = "file::memory:?cache=shared&_foreign_keys=1"

func openSQLite(cfg Config) (*gorm.DB, error) {
	dsn, err := buildSQLiteDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, err
	}

	if err := enableForeignKeys(db); err != nil {
		return nil, err
	}

	return db, nil
}

// buildSQLiteDSN maps the configured path onto a go-sqlite3 DSN. An empty path
// or ":memory:" uses the shared in-memory database; "memory:<name>" opens a
// named in-memory database that is isolated from other names.
func buildSQLiteDSN(cfg Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}

	path := strings.TrimSpace(cfg.Path)
	switch {
	case path == "", strings.EqualFold(path, ":memory:"):
		return sharedMemoryDSN, nil
	case strings.HasPrefix(path, "memory:"):
		name := strings.TrimPrefix(path, "memory:")
		if name == "" {
			return sharedMemoryDSN, nil
		}
		return fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name), nil
	default:
		if err := ensureDir(path); err != nil {
			return "", err
		}
		return fmt.Sprintf("file:%s?_foreign_keys=1&_journal_mode=WAL&_busy_timeout=5000", filepath.ToSlash(path)), nil
	}
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func enableForeignKeys(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil && err != sql.ErrConnDone {
		return err
	}
	return nil
}
