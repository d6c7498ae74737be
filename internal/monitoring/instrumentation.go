package monitoring

import (
	"strings"
	"time"

	"github.com/kidzstudio/examportal/pkg/metrics"
)

const (
	sourceBuild = "build"
	sourceCache = "cache"
)

// RecordTreeBuild counts a tree served for menu. source is "build" for a fresh
// build and "cache" for a cached tree; nodes is ignored for cache hits.
func RecordTreeBuild(menu, source string, nodes int) {
	menu = normalizeLabel(menu)
	if source != sourceCache {
		source = sourceBuild
		metrics.TreeNodes.WithLabelValues(menu).Set(float64(nodes))
	}
	metrics.TreeBuilds.WithLabelValues(menu, source).Inc()

	if module := CurrentModule(); module != nil {
		module.stats.recordBuild(menu, source, nodes, time.Now())
	}
}

// RecordTreeWarning counts a configuration problem found while building menu.
func RecordTreeWarning(menu, kind string) {
	menu = normalizeLabel(menu)
	kind = normalizeLabel(kind)
	metrics.TreeWarnings.WithLabelValues(menu, kind).Inc()

	if module := CurrentModule(); module != nil {
		module.stats.recordWarning(menu, kind)
	}
}

// RecordMaintenanceRun records a background job execution. status is
// "success" or "failure"; reason carries the error text of failed runs.
func RecordMaintenanceRun(job, status, reason string, duration time.Duration) {
	job = normalizeLabel(job)
	status = normalizeLabel(status)
	if duration < 0 {
		duration = 0
	}
	metrics.MaintenanceRuns.WithLabelValues(job, status).Inc()

	if module := CurrentModule(); module != nil {
		module.stats.recordMaintenance(job, status, strings.TrimSpace(reason), duration, time.Now())
	}
}

// RecordRealtimeConnection adjusts the connected client gauge by delta.
func RecordRealtimeConnection(delta int64) {
	if delta == 0 {
		return
	}
	metrics.RealtimeClients.Add(float64(delta))

	if module := CurrentModule(); module != nil {
		if module.stats.realtimeConnections.Add(delta) < 0 {
			module.stats.realtimeConnections.Store(0)
		}
	}
}

// RecordRealtimeBroadcast counts an event published on stream.
func RecordRealtimeBroadcast(stream string) {
	if module := CurrentModule(); module != nil {
		module.stats.realtimeBroadcasts.Add(1)
	}
}

// RecordRealtimeFailure records a dropped or failed realtime delivery.
func RecordRealtimeFailure(stream, failure, message string) {
	if module := CurrentModule(); module != nil {
		module.stats.recordRealtimeFailure(FailureRecord{
			Stream:   normalizeLabel(stream),
			Type:     normalizeLabel(failure),
			Message:  message,
			Occurred: time.Now(),
		})
	}
}

func normalizeLabel(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return "unknown"
	}
	return value
}
