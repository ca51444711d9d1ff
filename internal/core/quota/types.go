package quota

import (
	"errors"
	"fmt"
	"time"
)

// Policy names one of the independent quota policies.
type Policy string

const (
	PolicyLike  Policy = "like"
	PolicyPost  Policy = "post"
	PolicyFetch Policy = "fetch"
)

// Counter store keys. All three live in the same device-local store.
const (
	keyLikesGiven     = "likes_given"
	keyPostTimestamps = "post_timestamps"
	keyLastFetch      = "last_fetch"
)

var (
	// ErrRecordFailed is returned when a quota counter could not be persisted.
	// Write failures are never swallowed: dropping them would grant unlimited actions.
	ErrRecordFailed = errors.New("quota record failed")

	// ErrInvalidKey is returned when a per-artifact policy is called without an artifact id.
	ErrInvalidKey = errors.New("invalid quota key")
)

// Limits configures the three policies.
type Limits struct {
	// LikeCeiling is the lifetime number of likes one device may give one post.
	LikeCeiling int
	// PostLimit is the number of posts allowed per rolling PostWindow.
	PostLimit  int
	PostWindow time.Duration
	// FetchCooldown is the minimum time between two feed fetches.
	FetchCooldown time.Duration
}

// DefaultLimits returns 5 likes per post, 3 posts per 10 minutes and a 3s fetch cooldown.
func DefaultLimits() Limits {
	return Limits{
		LikeCeiling:   5,
		PostLimit:     3,
		PostWindow:    10 * time.Minute,
		FetchCooldown: 3 * time.Second,
	}
}

// Validate rejects non-positive limits.
func (l Limits) Validate() error {
	if l.LikeCeiling <= 0 {
		return fmt.Errorf("like ceiling must be > 0")
	}
	if l.PostLimit <= 0 {
		return fmt.Errorf("post limit must be > 0")
	}
	if l.PostWindow <= 0 {
		return fmt.Errorf("post window must be > 0")
	}
	if l.FetchCooldown <= 0 {
		return fmt.Errorf("fetch cooldown must be > 0")
	}
	return nil
}

// Decision is the outcome of a policy evaluation. A rejection is a normal
// result, not an error.
type Decision struct {
	Policy      Policy `json:"policy"`
	Allowed     bool   `json:"allowed"`
	Limit       int    `json:"limit"`
	Remaining   int    `json:"remaining"`
	WaitSeconds int    `json:"wait_seconds"`
}

// Message renders a human-readable explanation of a rejection.
// Allowed decisions return an empty string.
func (d Decision) Message() string {
	if d.Allowed {
		return ""
	}
	switch d.Policy {
	case PolicyLike:
		return fmt.Sprintf("You have already given this post %d likes.", d.Limit)
	case PolicyPost:
		return fmt.Sprintf("You can post %d times every few minutes. Please wait %s.", d.Limit, FormatWait(d.WaitSeconds))
	case PolicyFetch:
		return fmt.Sprintf("Please wait %s before refreshing.", FormatWait(d.WaitSeconds))
	default:
		return "Quota exceeded."
	}
}

// FormatWait renders a wait time such as "45s" or "9m 5s".
func FormatWait(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	m, s := seconds/60, seconds%60
	if s == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dm %ds", m, s)
}

// Observer receives every decision the enforcer produces.
type Observer interface {
	ObserveDecision(d Decision)
}
