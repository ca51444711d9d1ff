package dashboard

import (
	"context"
	"log/slog"
	"time"
)

// Refresher recomputes the dashboard snapshot on a fixed interval so that
// reads of Latest stay cheap. Each tick is independent of the previous one.
type Refresher struct {
	interval time.Duration
	service  *Service
	timeout  time.Duration
}

// NewRefresher creates a refresher for service. The per-tick timeout defaults
// to the interval itself.
func NewRefresher(interval time.Duration, service *Service) *Refresher {
	return &Refresher{
		interval: interval,
		service:  service,
		timeout:  interval,
	}
}

// Start begins periodic recomputation.
// Runs until context is cancelled.
func (r *Refresher) Start(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	slog.Info("[Refresher] Starting snapshot refresher", "interval", r.interval)

	// Warm the cache so the first dashboard read does not pay for it.
	failures := r.refresh(ctx, 0)

	for {
		select {
		case <-ticker.C:
			failures = r.refresh(ctx, failures)
		case <-ctx.Done():
			slog.Info("[Refresher] Stopping (context cancelled)")
			return nil
		}
	}
}

// refresh runs one computation and returns the updated count of consecutive
// failures.
func (r *Refresher) refresh(ctx context.Context, failures int) int {
	tickCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	snap, err := r.service.Snapshot(tickCtx)
	if err != nil {
		if ctx.Err() != nil {
			return failures
		}
		failures++
		slog.Error("[Refresher] Snapshot refresh failed",
			"error", err,
			"consecutive_failures", failures,
		)
		return failures
	}

	if failures > 0 {
		slog.Info("[Refresher] Snapshot refresh recovered", "after_failures", failures)
	}
	slog.Debug("[Refresher] Snapshot refreshed",
		"unique_visits", snap.UniqueVisits,
		"events_considered", snap.EventsConsidered,
	)
	return 0
}
