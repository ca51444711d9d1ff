package quota

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/pulse-lab/pulse/internal/core/storage"
	"github.com/pulse-lab/pulse/internal/core/window"
)

// Enforcer evaluates and records the like, post and fetch policies of one
// device against that device's CounterStore.
//
// An Enforcer holds no state of its own. It is not safe to drive the same
// CounterStore from concurrent callers; serialize per device.
type Enforcer struct {
	store    storage.CounterStore
	limits   Limits
	now      func() time.Time
	observer Observer
}

// Option configures an Enforcer.
type Option func(*Enforcer)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(e *Enforcer) {
		e.now = now
	}
}

// WithObserver reports every enforced decision to o. Read-only checks are
// not reported.
func WithObserver(o Observer) Option {
	return func(e *Enforcer) {
		e.observer = o
	}
}

// NewEnforcer binds the policies to a device's counter store.
func NewEnforcer(store storage.CounterStore, limits Limits, opts ...Option) *Enforcer {
	if store == nil {
		panic("quota: counter store must not be nil")
	}
	e := &Enforcer{
		store:  store,
		limits: limits,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Limits returns the configured limits.
func (e *Enforcer) Limits() Limits {
	return e.limits
}

// --- Like policy: lifetime ceiling per (device, post) ---

// LikesGiven returns how many likes this device has given postID.
func (e *Enforcer) LikesGiven(ctx context.Context, postID string) int {
	var likes map[string]int
	e.load(ctx, keyLikesGiven, &likes)
	return likes[postID]
}

// RemainingLikes returns max(0, ceiling - given).
func (e *Enforcer) RemainingLikes(ctx context.Context, postID string) int {
	return e.likeDecision(e.LikesGiven(ctx, postID)).Remaining
}

// CanLike reports whether another like on postID is allowed.
func (e *Enforcer) CanLike(ctx context.Context, postID string) bool {
	return e.LikesGiven(ctx, postID) < e.limits.LikeCeiling
}

// CheckLike evaluates the like policy without recording.
func (e *Enforcer) CheckLike(ctx context.Context, postID string) Decision {
	return e.likeDecision(e.LikesGiven(ctx, postID))
}

// RecordLike counts one like on postID. A rejected like leaves the counter
// untouched and returns a non-allowed Decision with a nil error. The stored
// map must be readable: a read failure is ErrRecordFailed, never a reset.
func (e *Enforcer) RecordLike(ctx context.Context, postID string) (Decision, error) {
	if postID == "" {
		return Decision{}, fmt.Errorf("%w: post id is required", ErrInvalidKey)
	}

	likes, err := e.readLikes(ctx)
	if err != nil {
		return Decision{}, fmt.Errorf("%w: like on post %s: %w", ErrRecordFailed, postID, err)
	}
	given := likes[postID]
	if given >= e.limits.LikeCeiling {
		return e.observe(e.likeDecision(given)), nil
	}

	likes[postID] = given + 1
	if err := e.store.Set(ctx, keyLikesGiven, likes); err != nil {
		return Decision{}, fmt.Errorf("%w: like on post %s: %w", ErrRecordFailed, postID, err)
	}

	d := e.likeDecision(given)
	d.Remaining = e.limits.LikeCeiling - likes[postID]
	return e.observe(d), nil
}

// ReleaseLike takes back one like recorded by RecordLike when the action it
// guarded did not happen. Callers hold the same per-device serialization as
// for the RecordLike being undone.
func (e *Enforcer) ReleaseLike(ctx context.Context, postID string) error {
	likes, err := e.readLikes(ctx)
	if err != nil {
		return fmt.Errorf("%w: release like on post %s: %w", ErrRecordFailed, postID, err)
	}
	given, ok := likes[postID]
	if !ok || given == 0 {
		return nil
	}
	if given == 1 {
		delete(likes, postID)
	} else {
		likes[postID] = given - 1
	}
	if err := e.store.Set(ctx, keyLikesGiven, likes); err != nil {
		return fmt.Errorf("%w: release like on post %s: %w", ErrRecordFailed, postID, err)
	}
	return nil
}

func (e *Enforcer) likeDecision(given int) Decision {
	remaining := e.limits.LikeCeiling - given
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Policy:    PolicyLike,
		Allowed:   given < e.limits.LikeCeiling,
		Limit:     e.limits.LikeCeiling,
		Remaining: remaining,
	}
}

// --- Post policy: at most PostLimit posts per rolling PostWindow ---

// CheckPost evaluates the sliding window. When the window is full the wait is
// the time until the oldest surviving timestamp leaves it, in whole seconds.
func (e *Enforcer) CheckPost(ctx context.Context) Decision {
	now := e.now()
	var stored []int64
	e.load(ctx, keyPostTimestamps, &stored)
	return e.postDecision(e.prune(stored, now), now)
}

// RecordPost appends the current time to the post sequence. It does not
// re-check the limit; callers are expected to call CheckPost first, or use
// TryPost.
func (e *Enforcer) RecordPost(ctx context.Context) error {
	now := e.now()
	live, err := e.readPostTimestamps(ctx, now)
	if err != nil {
		return fmt.Errorf("%w: post timestamp: %w", ErrRecordFailed, err)
	}
	live = append(live, now.UnixMilli())
	if err := e.store.Set(ctx, keyPostTimestamps, live); err != nil {
		return fmt.Errorf("%w: post timestamp: %w", ErrRecordFailed, err)
	}
	return nil
}

// TryPost checks the post window and records the post in one step.
func (e *Enforcer) TryPost(ctx context.Context) (Decision, error) {
	now := e.now()
	live, err := e.readPostTimestamps(ctx, now)
	if err != nil {
		return Decision{}, fmt.Errorf("%w: post timestamp: %w", ErrRecordFailed, err)
	}
	d := e.postDecision(live, now)
	if !d.Allowed {
		return e.observe(d), nil
	}

	live = append(live, now.UnixMilli())
	if err := e.store.Set(ctx, keyPostTimestamps, live); err != nil {
		return Decision{}, fmt.Errorf("%w: post timestamp: %w", ErrRecordFailed, err)
	}
	d.Remaining--
	return e.observe(d), nil
}

// ReleasePost drops the newest timestamp of the post sequence, undoing a
// TryPost whose post was never created.
func (e *Enforcer) ReleasePost(ctx context.Context) error {
	live, err := e.readPostTimestamps(ctx, e.now())
	if err != nil {
		return fmt.Errorf("%w: release post timestamp: %w", ErrRecordFailed, err)
	}
	if len(live) == 0 {
		return nil
	}
	if err := e.store.Set(ctx, keyPostTimestamps, live[:len(live)-1]); err != nil {
		return fmt.Errorf("%w: release post timestamp: %w", ErrRecordFailed, err)
	}
	return nil
}

func (e *Enforcer) postDecision(live []int64, now time.Time) Decision {
	d := Decision{
		Policy: PolicyPost,
		Limit:  e.limits.PostLimit,
	}
	if len(live) < e.limits.PostLimit {
		d.Allowed = true
		d.Remaining = e.limits.PostLimit - len(live)
		return d
	}

	oldest := time.UnixMilli(live[0])
	d.WaitSeconds = window.CeilSeconds(e.limits.PostWindow - now.Sub(oldest))
	return d
}

// readPostTimestamps loads the live sequence for a write. A read failure is
// returned so the stored sequence is never replaced by a partial one.
func (e *Enforcer) readPostTimestamps(ctx context.Context, now time.Time) ([]int64, error) {
	var stored []int64
	if _, err := e.store.Get(ctx, keyPostTimestamps, &stored); err != nil {
		return nil, err
	}
	return e.prune(stored, now), nil
}

// prune drops every timestamp that has left the window (now-W, now]. The
// result is sorted ascending.
func (e *Enforcer) prune(stored []int64, now time.Time) []int64 {
	cutoff := now.Add(-e.limits.PostWindow).UnixMilli()
	live := make([]int64, 0, len(stored))
	for _, ts := range stored {
		// exclusive boundary: a timestamp exactly W old has left the window
		if ts > cutoff {
			live = append(live, ts)
		}
	}
	sort.Slice(live, func(i, j int) bool { return live[i] < live[j] })
	return live
}

// --- Fetch policy: cooldown since the last successful fetch ---

// CheckFetch evaluates the cooldown without recording.
func (e *Enforcer) CheckFetch(ctx context.Context) Decision {
	d := Decision{Policy: PolicyFetch, Limit: 1, Allowed: true, Remaining: 1}

	var last int64
	if !e.load(ctx, keyLastFetch, &last) {
		return d
	}

	elapsed := e.now().Sub(time.UnixMilli(last))
	if elapsed < 0 {
		// last fetch stamped in the future: wait out one full cooldown
		elapsed = 0
	}
	if elapsed >= e.limits.FetchCooldown {
		return d
	}

	d.Allowed = false
	d.Remaining = 0
	d.WaitSeconds = window.CeilSeconds(e.limits.FetchCooldown - elapsed)
	return d
}

// AdmitFetch evaluates the cooldown for a fetch about to happen and reports
// the decision. The fetch is recorded separately with RecordFetch once it
// has succeeded.
func (e *Enforcer) AdmitFetch(ctx context.Context) Decision {
	return e.observe(e.CheckFetch(ctx))
}

// CanFetch reports whether the cooldown has elapsed.
func (e *Enforcer) CanFetch(ctx context.Context) bool {
	return e.CheckFetch(ctx).Allowed
}

// RecordFetch overwrites the last-fetch timestamp with now.
func (e *Enforcer) RecordFetch(ctx context.Context) error {
	if err := e.store.Set(ctx, keyLastFetch, e.now().UnixMilli()); err != nil {
		return fmt.Errorf("%w: fetch timestamp: %w", ErrRecordFailed, err)
	}
	return nil
}

// --- helpers ---

// readLikes loads the per-post like map for a write.
func (e *Enforcer) readLikes(ctx context.Context) (map[string]int, error) {
	var likes map[string]int
	if _, err := e.store.Get(ctx, keyLikesGiven, &likes); err != nil {
		return nil, err
	}
	if likes == nil {
		likes = make(map[string]int)
	}
	return likes, nil
}

// load reads key into dst for a check and reports whether a value was found.
// Read failures fail open: they are logged and treated as "no usage so far".
// Only checks use load; the record paths never persist a fail-open value.
func (e *Enforcer) load(ctx context.Context, key string, dst any) bool {
	found, err := e.store.Get(ctx, key, dst)
	if err != nil {
		slog.Warn("[Quota] Counter read failed, treating as zero usage", "key", key, "error", err)
		return false
	}
	return found
}

func (e *Enforcer) observe(d Decision) Decision {
	if e.observer != nil {
		e.observer.ObserveDecision(d)
	}
	return d
}
