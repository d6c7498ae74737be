package checks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kidzstudio/examportal/internal/monitoring"
)

const defaultMaintenanceMaxAge = 6 * time.Hour

// JobLister reports which maintenance jobs are scheduled.
// *maintenance.Cleaner satisfies it.
type JobLister interface {
	Jobs() []string
}

// Maintenance reports failing or stale background jobs. Only the jobs the
// lister has scheduled are judged; a nil lister judges every recorded job.
// Scheduled jobs that have not run yet count as healthy.
func Maintenance(jobs JobLister, maxAge time.Duration) monitoring.Check {
	if maxAge <= 0 {
		maxAge = defaultMaintenanceMaxAge
	}

	return monitoring.NewCheck("maintenance", func(ctx context.Context) monitoring.ProbeResult {
		start := time.Now()

		var scheduled map[string]bool
		if jobs != nil {
			scheduled = make(map[string]bool)
			for _, job := range jobs.Jobs() {
				scheduled[job] = false
			}
			if len(scheduled) == 0 {
				return monitoring.ProbeResult{
					Status:   monitoring.StatusUp,
					Details:  "no maintenance jobs scheduled",
					Duration: time.Since(start),
				}
			}
		}

		status := monitoring.StatusUp
		var notes []string
		now := time.Now()

		for _, job := range monitoring.Snapshot().Maintenance.Jobs {
			if scheduled != nil {
				if _, ok := scheduled[job.Job]; !ok {
					continue
				}
				scheduled[job.Job] = true
			}

			if job.ConsecutiveFailures > 0 {
				status = worstStatus(status, monitoring.StatusDown)
				notes = append(notes, fmt.Sprintf("%s: %d consecutive failures", job.Job, job.ConsecutiveFailures))
			}
			if !job.LastRunAt.IsZero() && now.Sub(job.LastRunAt) > maxAge {
				status = worstStatus(status, monitoring.StatusDegraded)
				notes = append(notes, job.Job+": stale run "+job.LastRunAt.UTC().Format(time.RFC3339))
			}
		}

		for job, ran := range scheduled {
			if !ran {
				notes = append(notes, job+": pending first run")
			}
		}

		return monitoring.ProbeResult{
			Status:   status,
			Details:  strings.Join(notes, "; "),
			Duration: time.Since(start),
		}
	})
}

func worstStatus(current, candidate monitoring.ProbeStatus) monitoring.ProbeStatus {
	if current == monitoring.StatusDown || candidate == monitoring.StatusDown {
		return monitoring.StatusDown
	}
	if current == monitoring.StatusDegraded || candidate == monitoring.StatusDegraded {
		return monitoring.StatusDegraded
	}
	return monitoring.StatusUp
}
