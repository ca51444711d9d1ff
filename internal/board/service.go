package board

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	v1 "github.com/pulse-lab/pulse/internal/api/v1"
	"github.com/pulse-lab/pulse/internal/core/partition"
	"github.com/pulse-lab/pulse/internal/core/quota"
	"github.com/pulse-lab/pulse/internal/core/storage"
	"github.com/pulse-lab/pulse/internal/device"
	"github.com/pulse-lab/pulse/internal/identity"
)

// Emitter appends server-side events without failing the caller.
type Emitter interface {
	Emit(ctx context.Context, evt *v1.Event)
}

// Service implements the quota-gated user actions of the board.
// Every action runs under its device's stripe lock, so the check and the
// record of one device's quota never interleave.
type Service struct {
	content  storage.ContentStore
	counters storage.CounterStore
	events   Emitter
	identity *identity.Provider
	limits   quota.Limits
	observer quota.Observer

	locks        partition.Locks
	now          func() time.Time
	newID        func() string
	feedPageSize int
}

// Option configures a Service.
type Option func(*Service)

// WithObserver reports every quota decision to o.
func WithObserver(o quota.Observer) Option {
	return func(s *Service) {
		s.observer = o
	}
}

// WithFeedPageSize caps the number of posts returned by the feed.
func WithFeedPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.feedPageSize = n
		}
	}
}

// NewService wires the board. counters is the shared counter store; each
// device sees its own namespace of it.
func NewService(content storage.ContentStore, counters storage.CounterStore, events Emitter, limits quota.Limits, opts ...Option) *Service {
	if content == nil {
		panic("board: content store must not be nil")
	}
	if counters == nil {
		panic("board: counter store must not be nil")
	}
	if events == nil {
		panic("board: emitter must not be nil")
	}
	s := &Service{
		content:      content,
		counters:     counters,
		events:       events,
		identity:     identity.NewProvider(),
		limits:       limits,
		now:          time.Now,
		newID:        uuid.NewString,
		feedPageSize: 50,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterRoutes registers the device-scoped routes behind the device middleware.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/v1", device.Middleware())
	g.GET("/me", s.MeHandler)
	g.POST("/sessions", s.StartSessionHandler)
	g.GET("/feed", s.FeedHandler)
	g.POST("/posts", s.CreatePostHandler)
	g.GET("/posts/:post_id/likes", s.LikeStatusHandler)
	g.POST("/posts/:post_id/likes", s.LikeHandler)
	g.POST("/posts/:post_id/shares", s.ShareHandler)
	g.POST("/feedback", s.FeedbackHandler)
	g.GET("/quota", s.QuotaHandler)
}

// deviceScope is the per-request view of one device.
type deviceScope struct {
	id       string
	store    storage.CounterStore
	enforcer *quota.Enforcer
}

// acquire locks the device's stripe and binds an enforcer to its counters.
// The returned func releases the lock.
func (s *Service) acquire(c *gin.Context) (*deviceScope, func()) {
	id := device.ID(c)
	unlock := s.locks.Lock(id)

	store := storage.Scoped(s.counters, id)
	opts := []quota.Option{quota.WithClock(s.now)}
	if s.observer != nil {
		opts = append(opts, quota.WithObserver(s.observer))
	}

	return &deviceScope{
		id:       id,
		store:    store,
		enforcer: quota.NewEnforcer(store, s.limits, opts...),
	}, unlock
}

// pseudoID resolves the device's pseudo identity for event attribution.
// On failure the event is recorded without identity rather than under a new one.
func (s *Service) pseudoID(ctx context.Context, scope *deviceScope) string {
	id, created, err := s.identity.Identify(ctx, scope.store)
	if err != nil {
		slog.Warn("[Board] Pseudo identity unavailable, recording anonymously", "device_id", scope.id, "error", err)
		return ""
	}
	if created {
		s.events.Emit(ctx, &v1.Event{EventName: v1.EventFirstVisit, UserPseudoID: id})
	}
	return id
}

func (s *Service) emit(ctx context.Context, name, pseudoID, postID string, metadata map[string]interface{}) {
	s.events.Emit(ctx, &v1.Event{
		EventName:    name,
		UserPseudoID: pseudoID,
		PostID:       postID,
		Metadata:     metadata,
	})
}
