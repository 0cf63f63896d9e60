package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron"

	"paxboard/internal"
)

// Refresher reloads a source on a fixed interval.
type Refresher struct {
	cron    *cron.Cron
	cache   *TableCache
	source  string
	timeout time.Duration
	logger  *internal.Logger
}

// NewRefresher schedules a reload of source every interval. Each reload is
// bounded by timeout.
func NewRefresher(cache *TableCache, source string, interval, timeout time.Duration, logger *internal.Logger) (*Refresher, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("refresh interval must be positive, got %s", interval)
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	r := &Refresher{
		cron:    cron.New(),
		cache:   cache,
		source:  source,
		timeout: timeout,
		logger:  logger.WithComponent("Refresher"),
	}

	spec := fmt.Sprintf("@every %s", interval)
	if err := r.cron.AddFunc(spec, r.refresh); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	return r, nil
}

// Start runs the schedule in the background
func (r *Refresher) Start() {
	r.logger.Info("refreshing %s on schedule", r.source)
	r.cron.Start()
}

// Stop halts the schedule
func (r *Refresher) Stop() {
	r.cron.Stop()
}

func (r *Refresher) refresh() {
	ctx := context.Background()
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := r.cache.Refresh(ctx, r.source); err != nil {
		r.logger.Error("refresh of %s failed, keeping last table: %v", r.source, err)
		return
	}
	r.logger.Info("refreshed %s in %s", r.source, time.Since(start).Round(time.Millisecond))
}
