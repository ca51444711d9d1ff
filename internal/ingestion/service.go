package ingestion

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	v1 "github.com/pulse-lab/pulse/internal/api/v1"
	"github.com/pulse-lab/pulse/internal/core/storage"
)

// Service owns the event log write path: the public /v1/events endpoints and
// the server-side emitter used by other services.
type Service struct {
	store            storage.EventStore
	maxBodySizeBytes int
	now              func() time.Time
	newID            func() string
}

func NewService(repo storage.EventStore, maxBodySizeMB int) *Service {
	if repo == nil {
		panic("ingestion: store must not be nil")
	}
	if maxBodySizeMB <= 0 {
		maxBodySizeMB = 1 // default to 1MB
	}
	return &Service{
		store:            repo,
		maxBodySizeBytes: maxBodySizeMB * 1024 * 1024,
		now:              time.Now,
		newID:            uuid.NewString,
	}
}

// RegisterRoutes registers the ingestion service routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/events", s.IngestHandler)
	r.GET("/v1/events", s.ListEventsHandler)
}

// stamp assigns the service-owned fields of a new event.
func (s *Service) stamp(evt *v1.Event) {
	evt.ID = s.newID()
	evt.CreatedAt = s.now().UTC()
}

// Emit appends a server-side event without failing the caller: an append
// error is logged and swallowed. The user action that produced the event has
// already succeeded and is not rolled back.
func (s *Service) Emit(ctx context.Context, evt *v1.Event) {
	if err := evt.Validate(); err != nil {
		slog.Error("[Ingestion] Dropping invalid server-side event", "error", err, "event_name", evt.EventName)
		return
	}
	s.stamp(evt)

	if err := s.store.AppendEvent(ctx, evt); err != nil {
		slog.Error("[Ingestion] Failed to append event",
			"error", err,
			"event_id", evt.ID,
			"event_name", evt.EventName)
		return
	}

	slog.Debug("[Ingestion] Emitted event",
		"event_id", evt.ID,
		"event_name", evt.EventName,
		"post_id", evt.PostID)
}
