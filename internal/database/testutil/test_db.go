package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kidzstudio/examportal/internal/database"
	"github.com/kidzstudio/examportal/internal/menufile"
	"github.com/kidzstudio/examportal/web"
)

var dbCounter atomic.Int64

// TestDBOption customises the behaviour of MustOpenTestDB.
type TestDBOption func(*testDBConfig)

type testDBConfig struct {
	autoMigrate bool
	seedData    bool
}

// WithAutoMigrate enables automatic schema migration after opening the test database.
func WithAutoMigrate() TestDBOption {
	return func(cfg *testDBConfig) {
		cfg.autoMigrate = true
	}
}

// WithSeedData ensures migrations are applied and the embedded default menus inserted.
func WithSeedData() TestDBOption {
	return func(cfg *testDBConfig) {
		cfg.autoMigrate = true
		cfg.seedData = true
	}
}

// MustOpenTestDB opens a private in-memory SQLite database for tests, applying optional migrations/seed data.
// The returned connection is automatically closed via t.Cleanup.
func MustOpenTestDB(t *testing.T, opts ...TestDBOption) *gorm.DB {
	t.Helper()

	cfg := testDBConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	path := fmt.Sprintf("memory:%s_%d", name, dbCounter.Add(1))
	db, err := database.Open(database.Config{Driver: "sqlite", Path: path})
	require.NoError(t, err)

	if cfg.seedData {
		require.NoError(t, database.AutoMigrateAndSeed(db, MustLoadSeed(t)))
	} else if cfg.autoMigrate {
		require.NoError(t, database.AutoMigrate(db))
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

// MustLoadSeed parses the embedded default menu definitions.
func MustLoadSeed(t *testing.T) *menufile.File {
	t.Helper()

	seed, err := web.Seed()
	require.NoError(t, err)
	file, err := menufile.LoadFS(seed, web.SeedFile)
	require.NoError(t, err)
	return file
}
