package api

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kidzstudio/examportal/internal/app"
	iauth "github.com/kidzstudio/examportal/internal/auth"
	"github.com/kidzstudio/examportal/internal/handlers"
	"github.com/kidzstudio/examportal/internal/middleware"
	"github.com/kidzstudio/examportal/internal/monitoring"
	"github.com/kidzstudio/examportal/internal/navigation"
	"github.com/kidzstudio/examportal/internal/realtime"
	"github.com/kidzstudio/examportal/internal/render"
	"github.com/kidzstudio/examportal/internal/services"
)

// Dependencies are the collaborators the router wires into handlers. Hub and
// Monitoring are optional; Icons defaults to the built-in table.
type Dependencies struct {
	Config     *app.Config
	JWT        *iauth.JWTService
	Menus      *services.MenuService
	Renderer   *render.Renderer
	Icons      *navigation.IconTable
	Hub        *realtime.Hub
	Monitoring *monitoring.Module
}

// NewRouter builds the Gin engine, wires middleware and registers the
// navigation, admin, realtime, health and metrics routes.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	if deps.Config == nil {
		return nil, fmt.Errorf("config must be provided")
	}
	if deps.JWT == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if deps.Menus == nil {
		return nil, fmt.Errorf("menu service must be provided")
	}
	if deps.Renderer == nil {
		return nil, fmt.Errorf("renderer must be provided")
	}
	cfg := deps.Config

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger("/health", "/health/live", "/health/ready", metricsEndpoint(cfg)))
	r.Use(middleware.Metrics(metricsEndpoint(cfg)))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins...))

	registerHealthRoutes(r, cfg, deps.Monitoring)

	api := r.Group("/api")

	admin := api.Group("")
	admin.Use(middleware.Auth(deps.JWT), middleware.RequireRole(iauth.RoleAdmin))

	registerMenuRoutes(api, admin, deps)
	registerRealtimeRoutes(api, deps)
	registerMonitoringRoutes(admin, handlers.NewMonitoringHandler(deps.Monitoring, cfg))

	if cfg.Monitoring.Prometheus.Enabled {
		endpoint := metricsEndpoint(cfg)
		if deps.Monitoring != nil {
			r.GET(endpoint, gin.WrapH(deps.Monitoring.Handler()))
		} else {
			r.GET(endpoint, gin.WrapH(promhttp.Handler()))
		}
	}

	// Fallback
	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}

func metricsEndpoint(cfg *app.Config) string {
	endpoint := strings.TrimSpace(cfg.Monitoring.Prometheus.Endpoint)
	if endpoint == "" {
		return "/metrics"
	}
	return endpoint
}
