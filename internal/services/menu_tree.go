package services

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kidzstudio/examportal/internal/models"
	"github.com/kidzstudio/examportal/internal/monitoring"
	"github.com/kidzstudio/examportal/internal/navigation"
)

const treeCachePrefix = "menu-tree:"

// itemOrder lists items in build input order. Ties on ordering fall back to
// creation time, then key.
var itemOrder = clause.OrderBy{Columns: []clause.OrderByColumn{
	{Column: clause.Column{Name: "ordering"}},
	{Column: clause.Column{Name: "created_at"}},
	{Column: clause.Column{Name: "key"}},
}}

// TreeOptions tunes a tree request.
type TreeOptions struct {
	// Orphans overrides the service's default orphan policy when set.
	Orphans *navigation.OrphanPolicy
}

// TreeResult is a built menu tree with the problems found while building it.
type TreeResult struct {
	Menu     string               `json:"menu"`
	Orphans  string               `json:"orphans"`
	Roots    []*navigation.Node   `json:"roots"`
	Warnings []navigation.Warning `json:"warnings"`
	Cached   bool                 `json:"cached"`
}

// Tree loads the menu's items, drops hidden and inactive subtrees and builds
// the ordered forest. Configuration problems are reported as warnings; they
// never fail the request.
func (s *MenuService) Tree(ctx context.Context, slug string, opts TreeOptions) (*TreeResult, error) {
	ctx = ensureContext(ctx)
	slug = normaliseKey(slug)

	policy := s.orphans
	if opts.Orphans != nil {
		policy = *opts.Orphans
	}
	key := treeCacheKey(slug, policy)

	if cached, ok := s.cachedTree(ctx, key); ok {
		monitoring.RecordTreeBuild(slug, "cache", 0)
		return cached, nil
	}

	gen := s.generation(slug)
	menu, err := s.loadMenu(ctx, s.db, slug)
	if err != nil {
		return nil, err
	}
	rows, err := s.loadItems(ctx, s.db, menu.ID)
	if err != nil {
		return nil, err
	}

	result := navigation.Build(navigation.Filter(models.NavigationItems(rows)), navigation.WithOrphanPolicy(policy))
	warnings := append(result.Warnings, navigation.CheckIcons(result.Roots, s.icons)...)

	tree := &TreeResult{
		Menu:     menu.Slug,
		Orphans:  policy.String(),
		Roots:    result.Roots,
		Warnings: warnings,
	}

	monitoring.RecordTreeBuild(menu.Slug, "build", navigation.Count(tree.Roots))
	for _, warning := range warnings {
		monitoring.RecordTreeWarning(menu.Slug, string(warning.Kind))
		s.log.Warn("menu configuration problem",
			zap.String("menu", menu.Slug),
			zap.String("kind", string(warning.Kind)),
			zap.String("item", warning.ItemID),
			zap.String("ref", warning.Ref),
		)
	}

	s.storeTree(ctx, slug, key, gen, tree)
	return tree, nil
}

// WarmAll builds and caches the tree of every menu. It keeps going after a
// failure and returns how many menus were warmed with the combined error.
func (s *MenuService) WarmAll(ctx context.Context) (int, error) {
	ctx = ensureContext(ctx)

	var slugs []string
	if err := s.db.WithContext(ctx).Model(&models.Menu{}).Order("slug ASC").Pluck("slug", &slugs).Error; err != nil {
		return 0, fmt.Errorf("menu service: list menus: %w", err)
	}

	var (
		warmed int
		errs   error
	)
	for _, slug := range slugs {
		if err := ctx.Err(); err != nil {
			return warmed, multierr.Append(errs, err)
		}
		if _, err := s.Tree(ctx, slug, TreeOptions{}); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("warm %s: %w", slug, err))
			continue
		}
		warmed++
	}
	return warmed, errs
}

func (s *MenuService) loadItems(ctx context.Context, db *gorm.DB, menuID string) ([]models.MenuItem, error) {
	var rows []models.MenuItem
	if err := db.WithContext(ctx).
		Where("menu_id = ?", menuID).
		Order(itemOrder).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("menu service: load items: %w", err)
	}
	return rows, nil
}

func (s *MenuService) cachedTree(ctx context.Context, key string) (*TreeResult, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn("tree cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var tree TreeResult
	if err := json.Unmarshal(data, &tree); err != nil {
		s.log.Warn("discarding corrupt cached tree", zap.String("key", key), zap.Error(err))
		_ = s.cache.Delete(ctx, key)
		return nil, false
	}
	tree.Cached = true
	return &tree, true
}

// storeTree caches tree unless the menu was invalidated after gen was read.
// The generation is checked again after the write because an invalidation
// may delete the key just before Set lands.
func (s *MenuService) storeTree(ctx context.Context, slug, key string, gen uint64, tree *TreeResult) {
	if s.cache == nil || s.generation(slug) != gen {
		return
	}

	data, err := json.Marshal(tree)
	if err != nil {
		s.log.Warn("tree cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		s.log.Warn("tree cache write failed", zap.String("key", key), zap.Error(err))
		return
	}
	if s.generation(slug) != gen {
		if err := s.cache.Delete(ctx, key); err != nil {
			s.log.Warn("tree cache invalidation failed", zap.String("menu", slug), zap.Error(err))
		}
	}
}

func (s *MenuService) generation(slug string) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.generations[slug]
}

// invalidate bumps the menu's generation before dropping its cached trees.
func (s *MenuService) invalidate(ctx context.Context, slug string) {
	slug = normaliseKey(slug)
	s.genMu.Lock()
	s.generations[slug]++
	s.genMu.Unlock()

	if s.cache == nil {
		return
	}
	keys := []string{
		treeCacheKey(slug, navigation.OrphanDrop),
		treeCacheKey(slug, navigation.OrphanPromote),
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.Warn("tree cache invalidation failed", zap.String("menu", slug), zap.Error(err))
	}
}

func treeCacheKey(slug string, policy navigation.OrphanPolicy) string {
	return treeCachePrefix + slug + ":" + policy.String()
}
