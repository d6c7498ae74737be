package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kidzstudio/examportal/internal/monitoring"
)

// HealthHandler serves liveness and readiness probes. Probe responses keep a
// flat shape (no response envelope) so load balancers can read them directly.
type HealthHandler struct {
	manager *monitoring.HealthManager
	version string
}

// NewHealthHandler returns nil when the module has no health manager.
func NewHealthHandler(module *monitoring.Module) *HealthHandler {
	if module == nil || module.Health() == nil {
		return nil
	}
	return &HealthHandler{manager: module.Health(), version: module.Version()}
}

// Overview GET /health
func (h *HealthHandler) Overview(c *gin.Context) {
	report := h.manager.EvaluateReadiness(c.Request.Context())
	c.Header("Cache-Control", "no-store")
	c.JSON(probeStatus(report), gin.H{
		"success":    report.Success,
		"status":     report.Status,
		"version":    h.version,
		"checked_at": time.Now().UTC(),
	})
}

// Live GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	h.writeReport(c, h.manager.EvaluateLiveness(c.Request.Context()))
}

// Ready GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	h.writeReport(c, h.manager.EvaluateReadiness(c.Request.Context()))
}

func (h *HealthHandler) writeReport(c *gin.Context, report monitoring.HealthReport) {
	c.Header("Cache-Control", "no-store")
	c.JSON(probeStatus(report), gin.H{
		"success":    report.Success,
		"status":     report.Status,
		"version":    h.version,
		"checks":     report.Checks,
		"checked_at": time.Now().UTC(),
	})
}

// HealthDisabled answers probe routes when health checks are turned off.
func HealthDisabled(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"status":  "disabled",
	})
}

func probeStatus(report monitoring.HealthReport) int {
	if report.Success {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}
