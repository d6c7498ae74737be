package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kidzstudio/examportal/internal/api"
	"github.com/kidzstudio/examportal/internal/app"
	"github.com/kidzstudio/examportal/internal/app/maintenance"
	iauth "github.com/kidzstudio/examportal/internal/auth"
	"github.com/kidzstudio/examportal/internal/cache"
	"github.com/kidzstudio/examportal/internal/database"
	"github.com/kidzstudio/examportal/internal/menufile"
	"github.com/kidzstudio/examportal/internal/models"
	"github.com/kidzstudio/examportal/internal/monitoring"
	"github.com/kidzstudio/examportal/internal/monitoring/checks"
	"github.com/kidzstudio/examportal/internal/realtime"
	"github.com/kidzstudio/examportal/internal/render"
	"github.com/kidzstudio/examportal/internal/services"
	"github.com/kidzstudio/examportal/pkg/logger"
	"github.com/kidzstudio/examportal/web"
)

const probeTimeout = 2 * time.Second

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// runtimeStack bundles long-lived services used by the HTTP server.
type runtimeStack struct {
	DB         *gorm.DB
	Cache      cache.Store
	Menus      *services.MenuService
	Hub        *realtime.Hub
	Monitoring *monitoring.Module
	Cleaner    *maintenance.Cleaner
	Router     *gin.Engine
}

// bootstrapRuntime initialises the database, cache, services, and the HTTP router.
func bootstrapRuntime(ctx context.Context, cfg *app.Config, log *zap.Logger) (*runtimeStack, error) {
	stack := &runtimeStack{}
	var err error
	success := false

	defer func() {
		if !success {
			stack.Shutdown(context.Background(), log)
		}
	}()

	if mode := strings.TrimSpace(cfg.Server.GinMode); mode != "" {
		gin.SetMode(mode)
	}

	stack.DB, err = initialiseDatabase(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	stack.Cache, err = cfg.Cache.NewStore(stack.DB)
	if err != nil {
		return nil, fmt.Errorf("initialise cache: %w", err)
	}
	log.Info("tree cache ready", zap.String("backend", cacheBackend(cfg.Cache)), zap.Duration("ttl", cfg.Cache.TTL))

	policy, err := cfg.Navigation.Policy()
	if err != nil {
		return nil, fmt.Errorf("navigation.orphan_policy: %w", err)
	}
	icons, rejected := cfg.Navigation.IconTable()
	for _, name := range rejected {
		log.Warn("ignoring icon alias with unknown target", zap.String("icon", name))
	}

	stack.Monitoring, err = monitoring.NewModule(monitoring.Options{Version: version})
	if err != nil {
		return nil, fmt.Errorf("initialise monitoring: %w", err)
	}
	monitoring.SetModule(stack.Monitoring)

	stack.Hub = realtime.NewHub(realtime.WithAllowedOrigins(cfg.Server.AllowedOrigins...))

	opts := []services.MenuServiceOption{
		services.WithPublisher(stack.Hub),
		services.WithDefaultOrphanPolicy(policy),
		services.WithIconTable(icons),
	}
	if stack.Cache != nil {
		opts = append(opts, services.WithTreeCache(stack.Cache, cfg.Cache.TTL))
	}
	stack.Menus, err = services.NewMenuService(stack.DB, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialise menu service: %w", err)
	}

	jwtSvc, err := iauth.NewJWTService(cfg.Auth.JWTServiceConfig())
	if err != nil {
		return nil, fmt.Errorf("initialise jwt service: %w", err)
	}

	renderer, err := render.NewRenderer(web.Templates(), icons)
	if err != nil {
		return nil, fmt.Errorf("initialise renderer: %w", err)
	}

	stack.Cleaner = maintenance.NewCleaner(stack.Cache, stack.Menus,
		maintenance.WithPurgeSchedule(cfg.Maintenance.CachePurgeSchedule),
		maintenance.WithWarmSchedule(cfg.Maintenance.TreeWarmSchedule),
		maintenance.WithJobTimeout(cfg.Maintenance.JobTimeout),
	)
	if err := stack.Cleaner.Start(); err != nil {
		return nil, fmt.Errorf("start maintenance jobs: %w", err)
	}

	registerHealthChecks(stack.Monitoring.Health(), stack)

	stack.Router, err = api.NewRouter(api.Dependencies{
		Config:     cfg,
		JWT:        jwtSvc,
		Menus:      stack.Menus,
		Renderer:   renderer,
		Icons:      icons,
		Hub:        stack.Hub,
		Monitoring: stack.Monitoring,
	})
	if err != nil {
		return nil, fmt.Errorf("build api router: %w", err)
	}

	success = true
	return stack, nil
}

func registerHealthChecks(health *monitoring.HealthManager, stack *runtimeStack) {
	health.RegisterLiveness(checks.Realtime(stack.Hub, 0, realtime.StreamMenus))
	health.RegisterReadiness(checks.Database(stack.DB, probeTimeout))
	health.RegisterReadiness(checks.Cache(stack.Cache, probeTimeout))
	health.RegisterReadiness(checks.Maintenance(stack.Cleaner, 0))
}

// Shutdown gracefully stops background jobs and releases resources.
func (s *runtimeStack) Shutdown(ctx context.Context, log *zap.Logger) {
	if s == nil {
		return
	}

	if s.Cleaner != nil {
		stopCtx := s.Cleaner.Stop()
		select {
		case <-stopCtx.Done():
		case <-ctx.Done():
			log.Warn("maintenance jobs still running at shutdown")
		}
	}

	if s.DB != nil {
		closeDatabase(s.DB, log)
	}
}

func initialiseDatabase(ctx context.Context, cfg *app.Config, log *zap.Logger) (*gorm.DB, error) {
	dbCfg := cfg.Database.ConnectionConfig()
	db, err := database.Open(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	seed, err := loadSeed(ctx, db, cfg.Navigation, log)
	if err != nil {
		closeDatabase(db, log)
		return nil, err
	}

	if err := database.AutoMigrateAndSeed(db, seed); err != nil {
		closeDatabase(db, log)
		return nil, fmt.Errorf("auto-migrate database: %w", err)
	}

	logger.WithModule("database").Info("database connected", zap.String("driver", strings.ToLower(strings.TrimSpace(dbCfg.Driver))))
	return db, nil
}

// loadSeed returns the menu definitions to seed: the configured seed file, or
// the embedded default when enabled and no menu exists yet. Validation
// findings are logged; structural errors abort start-up.
func loadSeed(ctx context.Context, db *gorm.DB, cfg app.NavigationConfig, log *zap.Logger) (*menufile.File, error) {
	var (
		seed   *menufile.File
		source string
		err    error
	)

	switch {
	case strings.TrimSpace(cfg.SeedFile) != "":
		source = cfg.SeedFile
		seed, err = menufile.Load(cfg.SeedFile)
	case cfg.SeedDefault:
		if err := database.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("auto-migrate database: %w", err)
		}
		var count int64
		if err := db.WithContext(ctx).Model(&models.Menu{}).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("count menus: %w", err)
		}
		if count > 0 {
			return nil, nil
		}
		source = "embedded:" + web.SeedFile
		fsys, fsErr := web.Seed()
		if fsErr != nil {
			return nil, fmt.Errorf("open embedded seed: %w", fsErr)
		}
		seed, err = menufile.LoadFS(fsys, web.SeedFile)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load menu seed: %w", err)
	}

	icons, _ := cfg.IconTable()
	report := menufile.Validate(seed, icons)
	for _, issue := range report.Issues {
		log.Warn("menu seed issue", zap.String("source", source), zap.String("issue", issue.String()))
	}
	if report.HasErrors() {
		return nil, fmt.Errorf("menu seed %s has structural errors", source)
	}

	log.Info("seeding menus", zap.String("source", source), zap.Int("menus", len(seed.Menus)))
	return seed, nil
}

func cacheBackend(cfg app.CacheConfig) string {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		return "memory"
	}
	return backend
}

func closeDatabase(db *gorm.DB, log *zap.Logger) {
	if db == nil {
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("failed to obtain underlying sql DB for closing", zap.Error(err))
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Warn("failed to close database", zap.Error(err))
	}
}

