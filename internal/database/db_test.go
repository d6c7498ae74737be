package database

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kidzstudio/examportal/internal/menufile"
	"github.com/kidzstudio/examportal/internal/models"
)

const seedYAML = `
menus:
  - slug: portal
    name: Portal
    items:
      - id: home
        title: Home
        url: /
      - id: exams
        title: Exams
        url: /exams
        children:
          - id: upcoming
            title: Upcoming
            url: /exams/upcoming
      - id: home
        title: Home (override)
        url: /home
`

func TestOpenSQLiteMemory(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Exec("SELECT 1").Error)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle"})
	require.Error(t, err)
}

func TestAutoMigrateCreatesTables(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, AutoMigrate(db))

	migrator := db.Migrator()
	for _, model := range []interface{}{&models.Menu{}, &models.MenuItem{}, &models.CacheEntry{}} {
		require.True(t, migrator.HasTable(model))
	}
	require.True(t, migrator.HasIndex(&models.MenuItem{}, "idx_menu_items_menu_key"))
}

func TestAutoMigrateAndSeedMenus(t *testing.T) {
	db := openTestDB(t)
	seed, err := menufile.Parse([]byte(seedYAML))
	require.NoError(t, err)

	require.NoError(t, AutoMigrateAndSeed(db, seed))

	var menu models.Menu
	require.NoError(t, db.Preload("Items").Where("slug = ?", "portal").First(&menu).Error)
	require.Len(t, menu.Items, 3)

	var home models.MenuItem
	require.NoError(t, db.Where("menu_id = ? AND key = ?", menu.ID, "home").First(&home).Error)
	require.Equal(t, "Home (override)", home.Title)

	var upcoming models.MenuItem
	require.NoError(t, db.Where("menu_id = ? AND key = ?", menu.ID, "upcoming").First(&upcoming).Error)
	require.NotNil(t, upcoming.ParentKey)
	require.Equal(t, "exams", *upcoming.ParentKey)

	created, err := SeedMenus(db, seed)
	require.NoError(t, err)
	require.Empty(t, created)

	var count int64
	require.NoError(t, db.Model(&models.MenuItem{}).Count(&count).Error)
	require.Equal(t, int64(3), count)
}

func TestAutoMigrateAndSeedRequiresHandle(t *testing.T) {
	require.Error(t, AutoMigrateAndSeed(nil, nil))
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(Config{Driver: "sqlite", Path: "memory:" + t.Name()})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}
