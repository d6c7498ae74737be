package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kidzstudio/examportal/internal/menufile"
	"github.com/kidzstudio/examportal/internal/models"
	"github.com/kidzstudio/examportal/internal/navigation"
	"github.com/kidzstudio/examportal/internal/realtime"
	apperrors "github.com/kidzstudio/examportal/pkg/errors"
	"github.com/kidzstudio/examportal/pkg/validator"
)

// Import replaces the items of def.Slug with the definition's items in one
// transaction, creating the menu when it does not exist. Unlike tree reads,
// imports are strict: unresolved parents, duplicate keys and cycles reject
// the whole definition.
func (s *MenuService) Import(ctx context.Context, def menufile.Menu) (*MenuDTO, error) {
	ctx = ensureContext(ctx)

	slug := normaliseKey(def.Slug)
	if !validator.IsMenuKey(slug) {
		return nil, apperrors.NewBadRequest("menu slug must be lower-case letters, digits, '-' or '_'")
	}

	items, err := def.NavigationItems()
	if err != nil {
		return nil, apperrors.NewBadRequest(err.Error())
	}
	for _, item := range items {
		if !validator.IsMenuKey(item.ID) {
			return nil, apperrors.NewBadRequest(fmt.Sprintf("item key %q must be lower-case letters, digits, '-' or '_'", item.ID))
		}
		if err := checkItemFields(item.ID, item.Title, item.URL); err != nil {
			return nil, err
		}
	}
	if err := strictCheck(items); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		menu, err := s.loadMenu(ctx, tx, slug)
		switch {
		case errors.Is(err, apperrors.ErrMenuNotFound):
			name := strings.TrimSpace(def.Name)
			if name == "" {
				return apperrors.NewBadRequest("menu name is required")
			}
			menu = &models.Menu{Slug: slug, Name: name, Description: strings.TrimSpace(def.Description)}
			if err := tx.Create(menu).Error; err != nil {
				return fmt.Errorf("menu service: create menu: %w", err)
			}
		case err != nil:
			return err
		default:
			updates := map[string]any{}
			if name := strings.TrimSpace(def.Name); name != "" {
				updates["name"] = name
			}
			if desc := strings.TrimSpace(def.Description); desc != "" {
				updates["description"] = desc
			}
			if len(updates) > 0 {
				if err := tx.Model(menu).Updates(updates).Error; err != nil {
					return fmt.Errorf("menu service: update menu: %w", err)
				}
			}
			if err := tx.Where("menu_id = ?", menu.ID).Delete(&models.MenuItem{}).Error; err != nil {
				return fmt.Errorf("menu service: clear items: %w", err)
			}
		}

		if len(items) == 0 {
			return nil
		}
		rows := make([]models.MenuItem, 0, len(items))
		for _, item := range items {
			rows = append(rows, models.NewMenuItem(menu.ID, item))
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("menu service: create items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("menu imported", zap.String("menu", slug), zap.Int("items", len(items)))
	s.changed(ctx, realtime.EventMenuImported, slug)
	return s.Get(ctx, slug)
}

// Export returns the menu as a definition with a flat item list.
func (s *MenuService) Export(ctx context.Context, slug string) (*menufile.Menu, error) {
	ctx = ensureContext(ctx)

	menu, err := s.loadMenu(ctx, s.db, slug)
	if err != nil {
		return nil, err
	}
	rows, err := s.loadItems(ctx, s.db, menu.ID)
	if err != nil {
		return nil, err
	}

	def := menufile.FromNavigation(menu.Slug, menu.Name, menu.Description, models.NavigationItems(rows))
	return &def, nil
}

// strictCheck turns the first build warning into the matching API error.
func strictCheck(items []navigation.Item) error {
	for _, warning := range navigation.Build(items).Warnings {
		switch warning.Kind {
		case navigation.WarnDuplicateID:
			return apperrors.NewDuplicateID(warning.ItemID)
		case navigation.WarnUnresolvedParent:
			return apperrors.NewInvalidReference(warning.ItemID, warning.Ref)
		case navigation.WarnUnreachable:
			return apperrors.ErrParentCycle.WithMessage(warning.Message)
		}
	}
	return nil
}
