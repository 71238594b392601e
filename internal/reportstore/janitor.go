package reportstore

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"finassist/internal/logger"
	"finassist/internal/metrics"
)

// Janitor periodically purges reports older than the retention window.
type Janitor struct {
	store     Store
	retention time.Duration
	cron      *cron.Cron
	now       func() time.Time
}

// NewJanitor schedules a purge on the given cron spec, e.g. "@every 1h".
func NewJanitor(store Store, schedule string, retention time.Duration) (*Janitor, error) {
	j := &Janitor{
		store:     store,
		retention: retention,
		cron:      cron.New(),
		now:       time.Now,
	}
	if _, err := j.cron.AddFunc(schedule, func() { j.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid janitor schedule %q: %w", schedule, err)
	}
	return j, nil
}

// Start begins running scheduled purges in the background.
func (j *Janitor) Start() {
	j.cron.Start()
	logger.Get().Infow("report janitor started", "retention", j.retention.String())
}

// Stop halts the scheduler and waits for a running purge to finish.
func (j *Janitor) Stop() {
	<-j.cron.Stop().Done()
}

// RunOnce purges expired reports immediately and returns how many were removed.
func (j *Janitor) RunOnce(ctx context.Context) int {
	removed, err := j.store.Purge(ctx, j.now().Add(-j.retention))
	if err != nil {
		logger.Get().Errorw("report purge failed", "removed", removed, "error", err)
	}
	if removed > 0 {
		metrics.ReportsPurged.Add(float64(removed))
		logger.Get().Infow("purged expired reports", "count", removed)
	}
	return removed
}
