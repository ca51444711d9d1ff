package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	v1 "github.com/pulse-lab/pulse/internal/api/v1"
	"github.com/pulse-lab/pulse/internal/core/metrics"
	"github.com/pulse-lab/pulse/internal/core/storage"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const snapshotKey = "snapshot"

// SnapshotObserver receives the duration and result of every computation.
type SnapshotObserver interface {
	ObserveSnapshot(elapsed time.Duration, s metrics.Snapshot)
}

// Service serves the operator metrics view. It pulls a bounded window of
// events plus every feedback row and post counter, then hands the inputs to
// the aggregator.
type Service struct {
	events     storage.EventStore
	content    storage.ContentStore
	aggregator *metrics.Aggregator
	fetchLimit int
	observer   SnapshotObserver
	nowFn      func() time.Time

	group singleflight.Group

	mu     sync.RWMutex
	latest *metrics.Snapshot
}

// Option configures a Service.
type Option func(*Service)

// WithObserver reports every computed snapshot to o.
func WithObserver(o SnapshotObserver) Option {
	return func(s *Service) {
		s.observer = o
	}
}

// WithFetchLimit caps how many recent events feed one computation.
func WithFetchLimit(n int) Option {
	return func(s *Service) {
		s.fetchLimit = n
	}
}

// NewService creates the dashboard service.
func NewService(
	events storage.EventStore,
	content storage.ContentStore,
	aggregator *metrics.Aggregator,
	opts ...Option,
) *Service {
	if events == nil {
		panic("dashboard: event store must not be nil")
	}
	if content == nil {
		panic("dashboard: content store must not be nil")
	}
	if aggregator == nil {
		aggregator = metrics.NewAggregator(metrics.DefaultOptions())
	}

	s := &Service{
		events:     events,
		content:    content,
		aggregator: aggregator,
		fetchLimit: storage.DefaultEventFetchLimit,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot computes a fresh snapshot. Concurrent callers share one
// computation. Any input fetch failure is returned as is; nothing is retried.
func (s *Service) Snapshot(ctx context.Context) (metrics.Snapshot, error) {
	v, err, shared := s.group.Do(snapshotKey, func() (interface{}, error) {
		return s.compute(ctx)
	})
	if err != nil {
		return metrics.Snapshot{}, err
	}
	if shared {
		slog.Debug("[Dashboard] Shared in-flight snapshot computation")
	}
	return v.(metrics.Snapshot), nil
}

// Latest returns the most recently computed snapshot, computing one if none
// exists yet.
func (s *Service) Latest(ctx context.Context) (metrics.Snapshot, error) {
	s.mu.RLock()
	latest := s.latest
	s.mu.RUnlock()

	if latest != nil {
		return *latest, nil
	}
	return s.Snapshot(ctx)
}

func (s *Service) compute(ctx context.Context) (metrics.Snapshot, error) {
	start := time.Now()
	in, err := s.fetchInputs(ctx)
	if err != nil {
		return metrics.Snapshot{}, err
	}

	snap := s.aggregator.Compute(in, s.nowFn())
	elapsed := time.Since(start)

	if s.observer != nil {
		s.observer.ObserveSnapshot(elapsed, snap)
	}

	s.mu.Lock()
	s.latest = &snap
	s.mu.Unlock()

	slog.Debug("[Dashboard] Snapshot computed",
		"events_considered", snap.EventsConsidered,
		"events_skipped", snap.EventsSkipped,
		"duration", elapsed,
	)
	return snap, nil
}

// fetchInputs loads the three inputs concurrently as one point-in-time view.
func (s *Service) fetchInputs(ctx context.Context) (metrics.Input, error) {
	var (
		events   []*v1.Event
		feedback []v1.Feedback
		posts    []v1.PostCounter
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		events, err = s.events.QueryEvents(gctx, storage.EventQuery{Limit: s.fetchLimit}.Normalized())
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		feedback, err = s.content.ListFeedback(gctx)
		if err != nil {
			return fmt.Errorf("list feedback: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		posts, err = s.content.ListPostCounters(gctx)
		if err != nil {
			return fmt.Errorf("list post counters: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return metrics.Input{}, err
	}

	return metrics.Input{
		Events:   events,
		Feedback: feedback,
		Posts:    posts,
	}, nil
}
