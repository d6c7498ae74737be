package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kidzstudio/examportal/internal/app"
	"github.com/kidzstudio/examportal/internal/handlers"
	"github.com/kidzstudio/examportal/internal/monitoring"
)

// registerHealthRoutes mounts the probes at the root and under /api. HEAD is
// accepted alongside GET for load balancers that probe without a body.
func registerHealthRoutes(r *gin.Engine, cfg *app.Config, mon *monitoring.Module) {
	var health *handlers.HealthHandler
	if cfg.Monitoring.Health.Enabled {
		health = handlers.NewHealthHandler(mon)
	}

	for _, group := range []gin.IRoutes{r, r.Group("/api")} {
		if health == nil {
			group.Match(probeMethods, "/health", handlers.HealthDisabled)
			group.Match(probeMethods, "/health/live", handlers.HealthDisabled)
			group.Match(probeMethods, "/health/ready", handlers.HealthDisabled)
			continue
		}
		group.Match(probeMethods, "/health", health.Overview)
		group.Match(probeMethods, "/health/live", health.Live)
		group.Match(probeMethods, "/health/ready", health.Ready)
	}
}

var probeMethods = []string{http.MethodGet, http.MethodHead}
