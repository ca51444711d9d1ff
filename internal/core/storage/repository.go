package storage

import (
	"context"
	"errors"
	"time"

	v1 "github.com/pulse-lab/pulse/internal/api/v1"
)

var (
	// ErrNotFound is returned when a referenced row (e.g. a post) does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable wraps failures of the underlying persistence layer.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// DefaultEventFetchLimit bounds the working set handed to the metrics aggregator.
const DefaultEventFetchLimit = 10000

// EventQuery filters events. Zero values mean "no filter".
// Results are always ordered by created_at DESC (most recent first).
type EventQuery struct {
	Names    []string
	PseudoID string
	From     time.Time // inclusive
	To       time.Time // exclusive
	Limit    int
}

// Normalized fills the default limit and caps it at DefaultEventFetchLimit.
func (q EventQuery) Normalized() EventQuery {
	if q.Limit <= 0 || q.Limit > DefaultEventFetchLimit {
		q.Limit = DefaultEventFetchLimit
	}
	return q
}

// EventStore is the append-only event log.
type EventStore interface {
	// AppendEvent persists one event. ID and CreatedAt must already be set.
	AppendEvent(ctx context.Context, event *v1.Event) error

	// QueryEvents returns events matching q, most recent first, at most q.Limit rows.
	QueryEvents(ctx context.Context, q EventQuery) ([]*v1.Event, error)
}

// ContentStore holds posts and feedback ratings.
type ContentStore interface {
	CreatePost(ctx context.Context, post *v1.Post) error

	// IncrementLikes adds one like and returns the new counter.
	// Returns ErrNotFound if the post does not exist.
	IncrementLikes(ctx context.Context, postID string) (int, error)

	// ListPosts returns the newest posts first.
	ListPosts(ctx context.Context, limit int) ([]*v1.Post, error)

	// ListPostCounters returns the like counter of every post.
	ListPostCounters(ctx context.Context) ([]v1.PostCounter, error)

	SaveFeedback(ctx context.Context, feedback *v1.Feedback) error

	// ListFeedback returns every feedback row.
	ListFeedback(ctx context.Context) ([]v1.Feedback, error)
}

// CounterStore is the device-local key/value map used by the quota enforcer
// and the identity provider. Values are JSON-serializable.
type CounterStore interface {
	// Get decodes the value stored under key into dst.
	// An absent key is not an error: found is false and dst is left untouched.
	Get(ctx context.Context, key string, dst any) (found bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value any) error
}
