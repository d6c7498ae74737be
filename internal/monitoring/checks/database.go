package checks

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/kidzstudio/examportal/internal/models"
	"github.com/kidzstudio/examportal/internal/monitoring"
)

const defaultDatabaseTimeout = 2 * time.Second

// Database returns a readiness probe that pings the database and confirms the
// menus table can be queried. The menu count is reported as details.
func Database(db *gorm.DB, timeout time.Duration) monitoring.Check {
	return monitoring.NewCheck("database", func(ctx context.Context) monitoring.ProbeResult {
		start := time.Now()
		if db == nil {
			return monitoring.ProbeResult{
				Status:   monitoring.StatusDown,
				Details:  "database not configured",
				Duration: time.Since(start),
			}
		}

		probeCtx, cancel := context.WithTimeout(ctx, chooseTimeout(timeout, defaultDatabaseTimeout))
		defer cancel()

		sqlDB, err := db.DB()
		if err != nil {
			return monitoring.ResultFromError("database", err, time.Since(start))
		}
		if err := sqlDB.PingContext(probeCtx); err != nil {
			return monitoring.ResultFromError("database", err, time.Since(start))
		}

		var menus int64
		if err := db.WithContext(probeCtx).Model(&models.Menu{}).Count(&menus).Error; err != nil {
			return monitoring.ResultFromError("database", fmt.Errorf("count menus: %w", err), time.Since(start))
		}

		return monitoring.ProbeResult{
			Status:   monitoring.StatusUp,
			Details:  fmt.Sprintf("%d menus", menus),
			Duration: time.Since(start),
		}
	})
}

func chooseTimeout(provided, fallback time.Duration) time.Duration {
	if provided <= 0 {
		return fallback
	}
	return provided
}
