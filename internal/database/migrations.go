package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/kidzstudio/examportal/internal/menufile"
	"github.com/kidzstudio/examportal/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Menu{},
		&models.MenuItem{},
		&models.CacheEntry{},
	)
}

// SeedMenus inserts every menu of the definition whose slug is not stored yet.
// Existing menus are left untouched. It returns the slugs that were created.
func SeedMenus(db *gorm.DB, seed *menufile.File) ([]string, error) {
	if seed == nil {
		return nil, nil
	}

	var created []string
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, def := range seed.Menus {
			var count int64
			if err := tx.Model(&models.Menu{}).Where("slug = ?", def.Slug).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}

			items, err := def.NavigationItems()
			if err != nil {
				return err
			}

			menu := models.Menu{Slug: def.Slug, Name: def.Name, Description: def.Description}
			if err := tx.Create(&menu).Error; err != nil {
				return fmt.Errorf("create menu %q: %w", def.Slug, err)
			}

			seen := make(map[string]int, len(items))
			rows := make([]models.MenuItem, 0, len(items))
			for _, item := range items {
				row := models.NewMenuItem(menu.ID, item)
				if at, dup := seen[item.ID]; dup {
					rows[at] = row
					continue
				}
				seen[item.ID] = len(rows)
				rows = append(rows, row)
			}
			if len(rows) > 0 {
				if err := tx.Create(&rows).Error; err != nil {
					return fmt.Errorf("create items for %q: %w", def.Slug, err)
				}
			}
			created = append(created, def.Slug)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
