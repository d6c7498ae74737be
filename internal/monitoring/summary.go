package monitoring

import "time"

// Summary surfaces aggregated monitoring data for the admin dashboard.
type Summary struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Menus       []MenuSummary      `json:"menus"`
	Realtime    RealtimeSummary    `json:"realtime"`
	Maintenance MaintenanceSummary `json:"maintenance"`
}

// Menu returns the statistics of one menu, if it has been built.
func (s Summary) Menu(slug string) (MenuSummary, bool) {
	for _, menu := range s.Menus {
		if menu.Menu == slug {
			return menu, true
		}
	}
	return MenuSummary{}, false
}

// MenuSummary describes the tree builds of one menu.
type MenuSummary struct {
	Menu        string            `json:"menu"`
	Builds      uint64            `json:"builds"`
	CacheHits   uint64            `json:"cache_hits"`
	Nodes       int               `json:"nodes"`
	Warnings    map[string]uint64 `json:"warnings,omitempty"`
	LastBuiltAt time.Time         `json:"last_built_at"`
}

type FailureRecord struct {
	Stream   string    `json:"stream"`
	Type     string    `json:"type"`
	Message  string    `json:"message"`
	Occurred time.Time `json:"occurred_at"`
}

type RealtimeSummary struct {
	ActiveConnections int64          `json:"active_connections"`
	Broadcasts        uint64         `json:"broadcasts"`
	Failures          uint64         `json:"failures"`
	LastFailure       *FailureRecord `json:"last_failure,omitempty"`
}

type MaintenanceSummary struct {
	Jobs []MaintenanceJobSummary `json:"jobs"`
}

type MaintenanceJobSummary struct {
	Job                 string        `json:"job"`
	LastStatus          string        `json:"last_status"`
	LastRunAt           time.Time     `json:"last_run_at"`
	LastDuration        time.Duration `json:"last_duration"`
	LastError           string        `json:"last_error,omitempty"`
	TotalRuns           uint64        `json:"total_runs"`
	ConsecutiveFailures uint64        `json:"consecutive_failures"`
}
