package monitoring

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

type statStore struct {
	menus       sync.Map // string -> *menuStats
	maintenance sync.Map // string -> *maintenanceStats

	realtimeConnections atomic.Int64
	realtimeBroadcasts  atomic.Uint64
	realtimeFailures    atomic.Uint64
	realtimeLastFailure atomic.Pointer[FailureRecord]
}

func newStatStore() *statStore {
	return &statStore{}
}

type menuStats struct {
	mu          sync.Mutex
	builds      uint64
	cacheHits   uint64
	nodes       int
	warnings    map[string]uint64
	lastBuiltAt time.Time
}

type maintenanceStats struct {
	mu                  sync.Mutex
	lastStatus          string
	lastRunAt           time.Time
	lastDuration        time.Duration
	lastError           string
	totalRuns           uint64
	consecutiveFailures uint64
}

func (s *statStore) menu(name string) *menuStats {
	value, _ := s.menus.LoadOrStore(name, &menuStats{warnings: map[string]uint64{}})
	return value.(*menuStats)
}

func (s *statStore) recordBuild(menu, source string, nodes int, at time.Time) {
	stats := s.menu(menu)
	stats.mu.Lock()
	defer stats.mu.Unlock()

	if source == sourceCache {
		stats.cacheHits++
		return
	}
	stats.builds++
	stats.nodes = nodes
	stats.lastBuiltAt = at
}

func (s *statStore) recordWarning(menu, kind string) {
	stats := s.menu(menu)
	stats.mu.Lock()
	defer stats.mu.Unlock()
	stats.warnings[kind]++
}

func (s *statStore) recordMaintenance(job, status, reason string, duration time.Duration, at time.Time) {
	value, _ := s.maintenance.LoadOrStore(job, &maintenanceStats{})
	stats := value.(*maintenanceStats)
	stats.mu.Lock()
	defer stats.mu.Unlock()

	stats.totalRuns++
	stats.lastStatus = status
	stats.lastRunAt = at
	stats.lastDuration = duration
	stats.lastError = reason
	if status == "success" {
		stats.consecutiveFailures = 0
	} else {
		stats.consecutiveFailures++
	}
}

func (s *statStore) recordRealtimeFailure(record FailureRecord) {
	s.realtimeFailures.Add(1)
	s.realtimeLastFailure.Store(&record)
}

func (s *statStore) summary() Summary {
	menus := []MenuSummary{}
	s.menus.Range(func(key, value any) bool {
		stats := value.(*menuStats)
		stats.mu.Lock()
		warnings := make(map[string]uint64, len(stats.warnings))
		for kind, count := range stats.warnings {
			warnings[kind] = count
		}
		menus = append(menus, MenuSummary{
			Menu:        key.(string),
			Builds:      stats.builds,
			CacheHits:   stats.cacheHits,
			Nodes:       stats.nodes,
			Warnings:    warnings,
			LastBuiltAt: stats.lastBuiltAt,
		})
		stats.mu.Unlock()
		return true
	})
	sort.Slice(menus, func(i, j int) bool { return menus[i].Menu < menus[j].Menu })

	jobs := []MaintenanceJobSummary{}
	s.maintenance.Range(func(key, value any) bool {
		stats := value.(*maintenanceStats)
		stats.mu.Lock()
		jobs = append(jobs, MaintenanceJobSummary{
			Job:                 key.(string),
			LastStatus:          stats.lastStatus,
			LastRunAt:           stats.lastRunAt,
			LastDuration:        stats.lastDuration,
			LastError:           stats.lastError,
			TotalRuns:           stats.totalRuns,
			ConsecutiveFailures: stats.consecutiveFailures,
		})
		stats.mu.Unlock()
		return true
	})
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Job < jobs[j].Job })

	return Summary{
		GeneratedAt: time.Now(),
		Menus:       menus,
		Realtime: RealtimeSummary{
			ActiveConnections: s.realtimeConnections.Load(),
			Broadcasts:        s.realtimeBroadcasts.Load(),
			Failures:          s.realtimeFailures.Load(),
			LastFailure:       s.realtimeLastFailure.Load(),
		},
		Maintenance: MaintenanceSummary{Jobs: jobs},
	}
}
