package checks

import (
	"context"
	"fmt"
	"time"

	"github.com/kidzstudio/examportal/internal/monitoring"
)

// DefaultFailureWindow is how long a realtime delivery failure keeps the hub
// degraded.
const DefaultFailureWindow = 5 * time.Minute

// RealtimeObserver exposes the hub state the realtime check reports on.
type RealtimeObserver interface {
	Clients() int
	Subscribers(stream string) int
}

// Realtime reports the hub's connected clients and the subscribers of each
// stream. The hub is degraded while its last delivery failure is younger
// than window; zero uses DefaultFailureWindow.
func Realtime(observer RealtimeObserver, window time.Duration, streams ...string) monitoring.Check {
	if window <= 0 {
		window = DefaultFailureWindow
	}
	return monitoring.NewCheck("realtime", func(ctx context.Context) monitoring.ProbeResult {
		start := time.Now()
		if observer == nil {
			return monitoring.ProbeResult{
				Status:   monitoring.StatusDegraded,
				Details:  "realtime hub unavailable",
				Duration: time.Since(start),
			}
		}

		details := fmt.Sprintf("%d clients", observer.Clients())
		for _, stream := range streams {
			details += fmt.Sprintf("; %s: %d subscribers", stream, observer.Subscribers(stream))
		}

		status := monitoring.StatusUp
		if module := monitoring.CurrentModule(); module != nil {
			last := module.Summary().Realtime.LastFailure
			if last != nil && start.Sub(last.Occurred) < window {
				status = monitoring.StatusDegraded
				details += fmt.Sprintf("; %s delivery failed on %s %s ago", last.Type, last.Stream, start.Sub(last.Occurred).Round(time.Second))
			}
		}

		return monitoring.ProbeResult{
			Status:   status,
			Details:  details,
			Duration: time.Since(start),
		}
	})
}
