package database

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kidzstudio/examportal/internal/menufile"
)

// Config contains database connection options.
type Config struct {
	Driver   string
	Path     string // SQLite database path when Driver == sqlite
	DSN      string // Optional DSN override
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	Options  map[string]string
}

// Open initialises a gorm.DB using the provided configuration.
func Open(cfg Config) (*gorm.DB, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" {
		driver = "sqlite"
	}

	switch driver {
	case "sqlite", "sqlite3":
		return openSQLite(cfg)
	case "postgres", "postgresql":
		return openPostgres(cfg)
	case "mysql", "mariadb":
		return openMySQL(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// AutoMigrateAndSeed convenience helper used during application start-up.
// A nil seed only migrates.
func AutoMigrateAndSeed(db *gorm.DB, seed *menufile.File) error {
	if db == nil {
		return errors.New("nil database handle")
	}

	if err := AutoMigrate(db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if seed == nil {
		return nil
	}
	if _, err := SeedMenus(db, seed); err != nil {
		return fmt.Errorf("seed menus: %w", err)
	}

	return nil
}

// gormConfig is shared by every driver. SQL statement logging stays off.
func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: false,
	}
}
