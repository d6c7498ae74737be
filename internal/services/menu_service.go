package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kidzstudio/examportal/internal/cache"
	"github.com/kidzstudio/examportal/internal/models"
	"github.com/kidzstudio/examportal/internal/navigation"
	"github.com/kidzstudio/examportal/internal/realtime"
	apperrors "github.com/kidzstudio/examportal/pkg/errors"
	"github.com/kidzstudio/examportal/pkg/logger"
	"github.com/kidzstudio/examportal/pkg/validator"
)

const defaultTreeTTL = 5 * time.Minute

// EventPublisher receives menu change notifications. *realtime.Hub satisfies it.
type EventPublisher interface {
	Publish(stream, event string, data any)
}

// MenuService stores menus and their items and builds navigation trees from them.
type MenuService struct {
	db        *gorm.DB
	cache     cache.Store
	ttl       time.Duration
	publisher EventPublisher
	orphans   navigation.OrphanPolicy
	icons     *navigation.IconTable
	log       *zap.Logger

	// generations counts invalidations per menu slug so a tree built from
	// rows read before a write is never left in the cache.
	genMu       sync.Mutex
	generations map[string]uint64
}

// MenuServiceOption customises a MenuService.
type MenuServiceOption func(*MenuService)

// WithTreeCache caches built trees in store for ttl. A non-positive ttl uses the default.
func WithTreeCache(store cache.Store, ttl time.Duration) MenuServiceOption {
	return func(s *MenuService) {
		s.cache = store
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithPublisher sends change events to publisher.
func WithPublisher(publisher EventPublisher) MenuServiceOption {
	return func(s *MenuService) {
		s.publisher = publisher
	}
}

// WithDefaultOrphanPolicy sets the policy used when a tree request does not choose one.
func WithDefaultOrphanPolicy(policy navigation.OrphanPolicy) MenuServiceOption {
	return func(s *MenuService) {
		s.orphans = policy
	}
}

// WithIconTable sets the table used to report unknown icons.
func WithIconTable(table *navigation.IconTable) MenuServiceOption {
	return func(s *MenuService) {
		if table != nil {
			s.icons = table
		}
	}
}

// MenuDTO is the API shape of a menu.
type MenuDTO struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ItemCount   int64     `json:"item_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MenuInput describes menu create payloads.
type MenuInput struct {
	Slug        string
	Name        string
	Description string
}

// MenuUpdateInput describes menu update payloads; nil fields are left unchanged.
type MenuUpdateInput struct {
	Name        *string
	Description *string
}

// NewMenuService constructs a menu service.
func NewMenuService(db *gorm.DB, opts ...MenuServiceOption) (*MenuService, error) {
	if db == nil {
		return nil, errors.New("menu service: db is required")
	}

	svc := &MenuService{
		db:      db,
		ttl:     defaultTreeTTL,
		orphans: navigation.OrphanDrop,
		icons:   navigation.DefaultIconTable(),
		log:     logger.WithModule("menus"),

		generations: make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// List returns every menu ordered by slug.
func (s *MenuService) List(ctx context.Context) ([]MenuDTO, error) {
	ctx = ensureContext(ctx)

	var menus []models.Menu
	if err := s.db.WithContext(ctx).Order("slug ASC").Find(&menus).Error; err != nil {
		return nil, fmt.Errorf("menu service: list menus: %w", err)
	}

	counts, err := s.countItems(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]MenuDTO, 0, len(menus))
	for _, menu := range menus {
		out = append(out, mapMenu(menu, counts[menu.ID]))
	}
	return out, nil
}

// Get returns a single menu by slug.
func (s *MenuService) Get(ctx context.Context, slug string) (*MenuDTO, error) {
	ctx = ensureContext(ctx)

	menu, err := s.loadMenu(ctx, s.db, slug)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.MenuItem{}).Where("menu_id = ?", menu.ID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("menu service: count items: %w", err)
	}

	dto := mapMenu(*menu, count)
	return &dto, nil
}

// Create registers a new, empty menu.
func (s *MenuService) Create(ctx context.Context, input MenuInput) (*MenuDTO, error) {
	ctx = ensureContext(ctx)

	slug := normaliseKey(input.Slug)
	if !validator.IsMenuKey(slug) {
		return nil, apperrors.NewBadRequest("menu slug must be lower-case letters, digits, '-' or '_'")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("menu name is required")
	}

	menu := models.Menu{
		Slug:        slug,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
	}
	if err := s.db.WithContext(ctx).Create(&menu).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.ErrConflict.WithMessage(fmt.Sprintf("menu %q already exists", slug))
		}
		return nil, fmt.Errorf("menu service: create menu: %w", err)
	}

	s.log.Info("menu created", zap.String("menu", slug))
	s.changed(ctx, realtime.EventMenuCreated, slug)

	dto := mapMenu(menu, 0)
	return &dto, nil
}

// Update modifies menu metadata.
func (s *MenuService) Update(ctx context.Context, slug string, input MenuUpdateInput) (*MenuDTO, error) {
	ctx = ensureContext(ctx)

	menu, err := s.loadMenu(ctx, s.db, slug)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewBadRequest("menu name is required")
		}
		if name != menu.Name {
			updates["name"] = name
		}
	}
	if input.Description != nil {
		if desc := strings.TrimSpace(*input.Description); desc != menu.Description {
			updates["description"] = desc
		}
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(menu).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("menu service: update menu: %w", err)
		}
		s.changed(ctx, realtime.EventMenuUpdated, menu.Slug)
	}

	return s.Get(ctx, menu.Slug)
}

// Delete removes a menu and all of its items.
func (s *MenuService) Delete(ctx context.Context, slug string) error {
	ctx = ensureContext(ctx)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		menu, err := s.loadMenu(ctx, tx, slug)
		if err != nil {
			return err
		}
		if err := tx.Where("menu_id = ?", menu.ID).Delete(&models.MenuItem{}).Error; err != nil {
			return fmt.Errorf("menu service: delete items: %w", err)
		}
		if err := tx.Delete(menu).Error; err != nil {
			return fmt.Errorf("menu service: delete menu: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slug = normaliseKey(slug)
	s.log.Info("menu deleted", zap.String("menu", slug))
	s.changed(ctx, realtime.EventMenuDeleted, slug)
	return nil
}

func (s *MenuService) loadMenu(ctx context.Context, db *gorm.DB, slug string) (*models.Menu, error) {
	var menu models.Menu
	err := db.WithContext(ctx).Where("slug = ?", normaliseKey(slug)).First(&menu).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMenuNotFound
		}
		return nil, fmt.Errorf("menu service: load menu: %w", err)
	}
	return &menu, nil
}

func (s *MenuService) countItems(ctx context.Context) (map[string]int64, error) {
	type row struct {
		MenuID string
		Total  int64
	}
	var rows []row
	if err := s.db.WithContext(ctx).
		Model(&models.MenuItem{}).
		Select("menu_id, COUNT(*) AS total").
		Group("menu_id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("menu service: count items: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.MenuID] = r.Total
	}
	return counts, nil
}

// changed drops cached trees for slug and notifies subscribers with event.
func (s *MenuService) changed(ctx context.Context, event, slug string) {
	s.invalidate(ctx, slug)
	s.publish(event, slug)
}

func (s *MenuService) publish(event, slug string) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(realtime.StreamMenus, event, realtime.MenuChange{Slug: slug})
}

func mapMenu(menu models.Menu, count int64) MenuDTO {
	return MenuDTO{
		ID:          menu.ID,
		Slug:        menu.Slug,
		Name:        menu.Name,
		Description: menu.Description,
		ItemCount:   count,
		CreatedAt:   menu.CreatedAt,
		UpdatedAt:   menu.UpdatedAt,
	}
}
