package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kidzstudio/examportal/internal/models"
	"github.com/kidzstudio/examportal/internal/navigation"
	"github.com/kidzstudio/examportal/internal/realtime"
	apperrors "github.com/kidzstudio/examportal/pkg/errors"
	"github.com/kidzstudio/examportal/pkg/validator"
)

// MenuItemDTO is the API shape of a stored menu item.
type MenuItemDTO struct {
	navigation.Item
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// MenuItemInput describes item create payloads. Empty enum fields take their
// defaults and a nil Visible means visible.
type MenuItemInput struct {
	Key       string
	Title     string
	URL       string
	Kind      string
	ParentKey string
	Order     int
	Icon      string
	Visible   *bool
	Status    string
	Target    string
	Metadata  map[string]any
}

// MenuItemUpdateInput describes item update payloads; nil fields are left
// unchanged. An empty ParentKey moves the item to the root level.
type MenuItemUpdateInput struct {
	Title     *string
	URL       *string
	Kind      *string
	ParentKey *string
	Order     *int
	Icon      *string
	Visible   *bool
	Status    *string
	Target    *string
	Metadata  map[string]any
}

// Items returns the stored items of a menu in build input order, including
// hidden and inactive ones.
func (s *MenuService) Items(ctx context.Context, slug string) ([]MenuItemDTO, error) {
	ctx = ensureContext(ctx)

	menu, err := s.loadMenu(ctx, s.db, slug)
	if err != nil {
		return nil, err
	}
	rows, err := s.loadItems(ctx, s.db, menu.ID)
	if err != nil {
		return nil, err
	}

	out := make([]MenuItemDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapMenuItem(row))
	}
	return out, nil
}

// Item returns a single item by key.
func (s *MenuService) Item(ctx context.Context, slug, key string) (*MenuItemDTO, error) {
	ctx = ensureContext(ctx)

	menu, err := s.loadMenu(ctx, s.db, slug)
	if err != nil {
		return nil, err
	}
	row, err := s.loadItem(ctx, s.db, menu.ID, key)
	if err != nil {
		return nil, err
	}
	dto := mapMenuItem(*row)
	return &dto, nil
}

// CreateItem adds an item to a menu. The key must be unused within the menu
// and the parent, when given, must already exist.
func (s *MenuService) CreateItem(ctx context.Context, slug string, input MenuItemInput) (*MenuItemDTO, error) {
	ctx = ensureContext(ctx)

	key := normaliseKey(input.Key)
	if !validator.IsMenuKey(key) {
		return nil, apperrors.NewBadRequest("item key must be lower-case letters, digits, '-' or '_'")
	}
	title := strings.TrimSpace(input.Title)
	if err := checkItemFields(key, title, input.URL); err != nil {
		return nil, err
	}

	kind, err := navigation.ParseKind(input.Kind)
	if err != nil {
		return nil, apperrors.NewBadRequest(err.Error())
	}
	status, err := navigation.ParseStatus(input.Status)
	if err != nil {
		return nil, apperrors.NewBadRequest(err.Error())
	}
	target, err := navigation.ParseTarget(input.Target)
	if err != nil {
		return nil, apperrors.NewBadRequest(err.Error())
	}
	metadata, err := encodeJSONMap(input.Metadata)
	if err != nil {
		return nil, apperrors.NewBadRequest("invalid metadata payload")
	}

	var created models.MenuItem
	var menuSlug string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		menu, err := s.loadMenu(ctx, tx, slug)
		if err != nil {
			return err
		}
		menuSlug = menu.Slug

		if _, err := s.loadItem(ctx, tx, menu.ID, key); err == nil {
			return apperrors.NewDuplicateID(key)
		} else if !errors.Is(err, apperrors.ErrMenuItemNotFound) {
			return err
		}

		parent := normaliseKey(input.ParentKey)
		if parent != "" {
			if parent == key {
				return apperrors.ErrParentCycle.WithMessage(fmt.Sprintf("item %q cannot be its own parent", key))
			}
			if _, err := s.loadItem(ctx, tx, menu.ID, parent); err != nil {
				if errors.Is(err, apperrors.ErrMenuItemNotFound) {
					return apperrors.NewInvalidReference(key, parent)
				}
				return err
			}
		}

		created = models.NewMenuItem(menu.ID, navigation.Item{
			ID:       key,
			Title:    title,
			URL:      strings.TrimSpace(input.URL),
			Kind:     kind,
			ParentID: optionalRef(parent),
			Order:    input.Order,
			Icon:     strings.TrimSpace(input.Icon),
			Visible:  input.Visible == nil || *input.Visible,
			Status:   status,
			Target:   target,
		})
		created.Metadata = metadata

		if err := tx.Create(&created).Error; err != nil {
			switch classifyViolation(err) {
			case violationUnique:
				return apperrors.NewDuplicateID(key)
			case violationForeignKey:
				// The menu was deleted while the item was being written.
				return apperrors.ErrMenuNotFound
			}
			return fmt.Errorf("menu service: create item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("menu item created", zap.String("menu", menuSlug), zap.String("item", key))
	s.changed(ctx, realtime.EventMenuUpdated, menuSlug)

	dto := mapMenuItem(created)
	return &dto, nil
}

// UpdateItem modifies an item. Re-parenting is rejected when the new parent
// does not exist or is the item itself or one of its descendants.
func (s *MenuService) UpdateItem(ctx context.Context, slug, key string, input MenuItemUpdateInput) (*MenuItemDTO, error) {
	ctx = ensureContext(ctx)
	key = normaliseKey(key)

	var (
		updated  models.MenuItem
		menuSlug string
		modified bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		menu, err := s.loadMenu(ctx, tx, slug)
		if err != nil {
			return err
		}
		menuSlug = menu.Slug

		row, err := s.loadItem(ctx, tx, menu.ID, key)
		if err != nil {
			return err
		}

		updates, err := s.itemUpdates(ctx, tx, menu.ID, row, input)
		if err != nil {
			return err
		}
		if len(updates) > 0 {
			if err := tx.Model(row).Updates(updates).Error; err != nil {
				return fmt.Errorf("menu service: update item: %w", err)
			}
			modified = true
		}

		reloaded, err := s.loadItem(ctx, tx, menu.ID, key)
		if err != nil {
			return err
		}
		updated = *reloaded
		return nil
	})
	if err != nil {
		return nil, err
	}

	if modified {
		s.changed(ctx, realtime.EventMenuUpdated, menuSlug)
	}
	dto := mapMenuItem(updated)
	return &dto, nil
}

func (s *MenuService) itemUpdates(ctx context.Context, tx *gorm.DB, menuID string, row *models.MenuItem, input MenuItemUpdateInput) (map[string]any, error) {
	updates := map[string]any{}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperrors.NewBadRequest("item title is required")
		}
		updates["title"] = title
	}
	if input.URL != nil {
		if err := checkItemFields(row.Key, row.Title, *input.URL); err != nil {
			return nil, err
		}
		updates["url"] = strings.TrimSpace(*input.URL)
	}
	if input.Kind != nil {
		kind, err := navigation.ParseKind(*input.Kind)
		if err != nil {
			return nil, apperrors.NewBadRequest(err.Error())
		}
		updates["kind"] = string(kind)
	}
	if input.Status != nil {
		status, err := navigation.ParseStatus(*input.Status)
		if err != nil {
			return nil, apperrors.NewBadRequest(err.Error())
		}
		updates["status"] = string(status)
	}
	if input.Target != nil {
		target, err := navigation.ParseTarget(*input.Target)
		if err != nil {
			return nil, apperrors.NewBadRequest(err.Error())
		}
		updates["target"] = string(target)
	}
	if input.Order != nil {
		updates["ordering"] = *input.Order
	}
	if input.Icon != nil {
		updates["icon"] = strings.TrimSpace(*input.Icon)
	}
	if input.Visible != nil {
		updates["visible"] = *input.Visible
	}
	if input.Metadata != nil {
		metadata, err := encodeJSONMap(input.Metadata)
		if err != nil {
			return nil, apperrors.NewBadRequest("invalid metadata payload")
		}
		updates["metadata"] = metadata
	}

	if input.ParentKey != nil {
		parent := normaliseKey(*input.ParentKey)
		if parent == "" {
			updates["parent_key"] = nil
		} else {
			if err := s.checkParent(ctx, tx, menuID, row.Key, parent); err != nil {
				return nil, err
			}
			updates["parent_key"] = parent
		}
	}

	return updates, nil
}

// checkParent verifies parent exists and is not key or one of its descendants.
func (s *MenuService) checkParent(ctx context.Context, tx *gorm.DB, menuID, key, parent string) error {
	if parent == key {
		return apperrors.ErrParentCycle.WithMessage(fmt.Sprintf("item %q cannot be its own parent", key))
	}

	rows, err := s.loadItems(ctx, tx, menuID)
	if err != nil {
		return err
	}
	parents := make(map[string]string, len(rows))
	for _, row := range rows {
		if row.ParentKey != nil {
			parents[row.Key] = *row.ParentKey
		} else {
			parents[row.Key] = ""
		}
	}

	if _, ok := parents[parent]; !ok {
		return apperrors.NewInvalidReference(key, parent)
	}

	seen := map[string]struct{}{}
	for current := parent; current != ""; current = parents[current] {
		if current == key {
			return apperrors.ErrParentCycle.WithMessage(fmt.Sprintf("moving %q under %q would create a cycle", key, parent))
		}
		if _, loop := seen[current]; loop {
			break
		}
		seen[current] = struct{}{}
	}
	return nil
}

// DeleteItem removes an item; its children move up to the item's parent.
func (s *MenuService) DeleteItem(ctx context.Context, slug, key string) error {
	ctx = ensureContext(ctx)
	key = normaliseKey(key)

	var menuSlug string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		menu, err := s.loadMenu(ctx, tx, slug)
		if err != nil {
			return err
		}
		menuSlug = menu.Slug

		row, err := s.loadItem(ctx, tx, menu.ID, key)
		if err != nil {
			return err
		}

		// Reassign children to the deleted item's parent
		if err := tx.Model(&models.MenuItem{}).
			Where(map[string]any{"menu_id": menu.ID, "parent_key": row.Key}).
			Update("parent_key", row.ParentKey).Error; err != nil {
			return fmt.Errorf("menu service: reassign children: %w", err)
		}

		if err := tx.Delete(row).Error; err != nil {
			return fmt.Errorf("menu service: delete item: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("menu item deleted", zap.String("menu", menuSlug), zap.String("item", key))
	s.changed(ctx, realtime.EventMenuUpdated, menuSlug)
	return nil
}

func (s *MenuService) loadItem(ctx context.Context, db *gorm.DB, menuID, key string) (*models.MenuItem, error) {
	var row models.MenuItem
	err := db.WithContext(ctx).
		Where(map[string]any{"menu_id": menuID, "key": normaliseKey(key)}).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("menu service: load item: %w", err)
	}
	return &row, nil
}

func mapMenuItem(row models.MenuItem) MenuItemDTO {
	return MenuItemDTO{
		Item:      row.Navigation(),
		Metadata:  decodeJSONMap(row.Metadata),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func optionalRef(value string) *string {
	if value == "" {
		return nil
	}
	return navigation.ParentRef(value)
}
