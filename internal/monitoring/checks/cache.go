package checks

import (
	"context"
	"time"

	"github.com/kidzstudio/examportal/internal/monitoring"
)

const defaultCacheTimeout = time.Second

// CachePinger is implemented by tree cache stores that can be probed.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// Cache returns a readiness probe for the tree cache. Stores without a Ping
// method are in-process and always reported up.
func Cache(store any, timeout time.Duration) monitoring.Check {
	return monitoring.NewCheck("cache", func(ctx context.Context) monitoring.ProbeResult {
		start := time.Now()
		if store == nil {
			return monitoring.ProbeResult{
				Status:   monitoring.StatusDegraded,
				Details:  "tree cache disabled",
				Duration: time.Since(start),
			}
		}
		pinger, ok := store.(CachePinger)
		if !ok {
			return monitoring.ProbeResult{
				Status:   monitoring.StatusUp,
				Details:  "in-memory",
				Duration: time.Since(start),
			}
		}

		probeCtx, cancel := context.WithTimeout(ctx, chooseTimeout(timeout, defaultCacheTimeout))
		defer cancel()

		return monitoring.ResultFromError("cache", pinger.Ping(probeCtx), time.Since(start))
	})
}
