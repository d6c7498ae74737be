package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kidzstudio/examportal/internal/app"
	"github.com/kidzstudio/examportal/internal/monitoring"
	apperrors "github.com/kidzstudio/examportal/pkg/errors"
	"github.com/kidzstudio/examportal/pkg/response"
)

// MonitoringHandler surfaces monitoring summaries for administrators.
type MonitoringHandler struct {
	module *monitoring.Module
	cfg    *app.Config
}

// NewMonitoringHandler constructs a monitoring handler. Returns nil when monitoring is disabled.
func NewMonitoringHandler(module *monitoring.Module, cfg *app.Config) *MonitoringHandler {
	if module == nil || cfg == nil {
		return nil
	}
	if !cfg.Monitoring.Health.Enabled && !cfg.Monitoring.Prometheus.Enabled {
		return nil
	}
	return &MonitoringHandler{module: module, cfg: cfg}
}

// Summary returns tree build, realtime and maintenance statistics together
// with the metrics endpoint.
func (h *MonitoringHandler) Summary(c *gin.Context) {
	endpoint := strings.TrimSpace(h.cfg.Monitoring.Prometheus.Endpoint)
	if endpoint == "" {
		endpoint = "/metrics"
	}

	response.Success(c, http.StatusOK, gin.H{
		"summary": h.module.Summary(),
		"prometheus": gin.H{
			"enabled":  h.cfg.Monitoring.Prometheus.Enabled,
			"endpoint": endpoint,
		},
	})
}

// Menu GET /api/monitoring/menus/:slug
func (h *MonitoringHandler) Menu(c *gin.Context) {
	slug := strings.ToLower(strings.TrimSpace(c.Param("slug")))
	stats, ok := h.module.Summary().Menu(slug)
	if !ok {
		response.Error(c, apperrors.ErrNotFound.WithMessage("no tree builds recorded for menu "+slug))
		return
	}
	response.Success(c, http.StatusOK, stats)
}
