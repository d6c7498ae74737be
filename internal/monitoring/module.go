package monitoring

import (
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options control monitoring module configuration.
type Options struct {
	// Version is exported as the version label of examportal_build_info.
	Version string
}

// Module owns the health probes, the summary statistics and the metrics endpoint.
type Module struct {
	registry *prometheus.Registry
	stats    *statStore
	health   *HealthManager
	version  string
}

// NewModule constructs a monitoring module. Its handler serves the module's
// own registry together with the process-wide default one.
func NewModule(opts Options) (*Module, error) {
	version := opts.Version
	if version == "" {
		version = "dev"
	}

	registry := prometheus.NewRegistry()
	buildInfo := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "examportal_build_info",
		Help:        "Build information of the running examportal server",
		ConstLabels: prometheus.Labels{"version": version},
	})
	buildInfo.Set(1)
	if err := registry.Register(buildInfo); err != nil {
		return nil, err
	}

	return &Module{
		registry: registry,
		stats:    newStatStore(),
		health:   NewHealthManager(),
		version:  version,
	}, nil
}

// Registry exposes the module's Prometheus registry.
func (m *Module) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler returns an http.Handler serving Prometheus metrics.
func (m *Module) Handler() http.Handler {
	if m == nil || m.registry == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	gatherers := prometheus.Gatherers{m.registry, prometheus.DefaultGatherer}
	return promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{})
}

// Version returns the build version the module reports.
func (m *Module) Version() string {
	if m == nil {
		return ""
	}
	return m.version
}

// Health exposes the health manager.
func (m *Module) Health() *HealthManager {
	if m == nil {
		return nil
	}
	return m.health
}

// Summary returns the module's aggregated statistics.
func (m *Module) Summary() Summary {
	if m == nil {
		return Summary{}
	}
	return m.stats.summary()
}

var globalModule atomic.Pointer[Module]

// SetModule configures the process-wide module used by the Record helpers.
func SetModule(module *Module) {
	if module == nil {
		return
	}
	globalModule.Store(module)
}

// CurrentModule returns the process-wide monitoring module, or nil when unset.
func CurrentModule() *Module {
	return globalModule.Load()
}

// Snapshot returns the summary of the process-wide module.
func Snapshot() Summary {
	return CurrentModule().Summary()
}
