package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/kidzstudio/examportal/internal/monitoring"
	"github.com/kidzstudio/examportal/pkg/logger"
)

const (
	JobCachePurge = "cache_purge"
	JobTreeWarmup = "tree_warmup"

	defaultPurgeSpec  = "@every 15m"
	defaultWarmSpec   = "@hourly"
	defaultJobTimeout = time.Minute
)

// Purger removes expired cache entries. cache.Store implementations satisfy it.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Warmer rebuilds and caches every menu tree. *services.MenuService satisfies it.
type Warmer interface {
	WarmAll(ctx context.Context) (int, error)
}

// Cleaner schedules the cache purge and tree warm-up jobs.
type Cleaner struct {
	purger  Purger
	warmer  Warmer
	cron    *cron.Cron
	log     *zap.Logger
	timeout time.Duration

	purgeSchedule string
	warmSchedule  string
	scheduled     []string
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithPurgeSchedule overrides the cron specification of the cache purge.
// "-" disables the job.
func WithPurgeSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.purgeSchedule = spec
		}
	}
}

// WithWarmSchedule overrides the cron specification of the tree warm-up.
// "-" disables the job.
func WithWarmSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.warmSchedule = spec
		}
	}
}

// WithJobTimeout bounds each job run.
func WithJobTimeout(timeout time.Duration) Option {
	return func(cleaner *Cleaner) {
		if timeout > 0 {
			cleaner.timeout = timeout
		}
	}
}

// NewCleaner constructs a Cleaner. A nil purger or warmer skips that job.
func NewCleaner(purger Purger, warmer Warmer, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		purger:        purger,
		warmer:        warmer,
		timeout:       defaultJobTimeout,
		purgeSchedule: defaultPurgeSpec,
		warmSchedule:  defaultWarmSpec,
		log:           logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}
	return cleaner
}

// Start registers the enabled jobs and launches the scheduler when at least one is registered.
func (c *Cleaner) Start() error {
	if c.purger != nil && c.purgeSchedule != "-" {
		if _, err := c.cron.AddFunc(c.purgeSchedule, func() { _ = c.run(JobCachePurge, c.purge) }); err != nil {
			return fmt.Errorf("maintenance: schedule %s: %w", JobCachePurge, err)
		}
		c.scheduled = append(c.scheduled, JobCachePurge)
	}

	if c.warmer != nil && c.warmSchedule != "-" {
		if _, err := c.cron.AddFunc(c.warmSchedule, func() { _ = c.run(JobTreeWarmup, c.warm) }); err != nil {
			return fmt.Errorf("maintenance: schedule %s: %w", JobTreeWarmup, err)
		}
		c.scheduled = append(c.scheduled, JobTreeWarmup)
	}

	if len(c.scheduled) > 0 {
		c.cron.Start()
	}
	return nil
}

// Jobs lists the jobs Start scheduled.
func (c *Cleaner) Jobs() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.scheduled...)
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes every configured job sequentially, returning the combined error.
func (c *Cleaner) RunOnce() error {
	var errs error
	if c.purger != nil {
		errs = multierr.Append(errs, c.run(JobCachePurge, c.purge))
	}
	if c.warmer != nil {
		errs = multierr.Append(errs, c.run(JobTreeWarmup, c.warm))
	}
	return errs
}

func (c *Cleaner) run(job string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start)

	if err != nil {
		c.log.Warn("maintenance job failed", zap.String("job", job), zap.Duration("duration", duration), zap.Error(err))
		monitoring.RecordMaintenanceRun(job, "failure", err.Error(), duration)
		return fmt.Errorf("%s: %w", job, err)
	}
	monitoring.RecordMaintenanceRun(job, "success", "", duration)
	return nil
}

func (c *Cleaner) purge(ctx context.Context) error {
	removed, err := c.purger.PurgeExpired(ctx)
	if err != nil {
		return err
	}
	if removed > 0 {
		c.log.Debug("purged expired cache entries", zap.Int64("removed", removed))
	}
	return nil
}

func (c *Cleaner) warm(ctx context.Context) error {
	warmed, err := c.warmer.WarmAll(ctx)
	c.log.Debug("warmed menu trees", zap.Int("menus", warmed))
	return err
}
