package metrics

import (
	"time"

	v1 "github.com/pulse-lab/pulse/internal/api/v1"
	"github.com/pulse-lab/pulse/internal/core/window"
)

// Options tunes the aggregator.
type Options struct {
	SessionGap time.Duration
}

// DefaultOptions returns a 30 minute session gap.
func DefaultOptions() Options {
	return Options{SessionGap: DefaultSessionGap}
}

// Input is one point-in-time snapshot of the three source collections.
type Input struct {
	Events   []*v1.Event
	Feedback []v1.Feedback
	Posts    []v1.PostCounter
}

// Aggregator reconstructs product metrics from raw rows.
// It is a pure function of its input and "now": it performs no I/O, keeps no
// state between calls and never mutates the input.
type Aggregator struct {
	opts Options
}

// NewAggregator creates an aggregator. A non-positive session gap falls back
// to DefaultSessionGap.
func NewAggregator(opts Options) *Aggregator {
	if opts.SessionGap <= 0 {
		opts.SessionGap = DefaultSessionGap
	}
	return &Aggregator{opts: opts}
}

// Compute returns the metrics snapshot. Malformed rows are skipped and never
// contribute to a numerator or a denominator; Compute never fails.
func (a *Aggregator) Compute(in Input, now time.Time) Snapshot {
	events, skipped := wellFormed(in.Events)

	s := EmptySnapshot(now)
	s.EventsConsidered = len(events)
	s.EventsSkipped = skipped

	s.UniqueVisits = uniqueVisits(events)
	s.ActivationRate = activationRate(events, s.UniqueVisits)
	s.ActivationGoalMet = s.ActivationRate > ActivationGoal
	s.QRScans = countNamed(events, v1.EventQRScan)
	s.DAU = dailyActive(events, now)

	s.TotalPosts, s.TotalLikes = postTotals(in.Posts)
	s.TotalShares = countNamed(events, v1.EventSharePost)
	s.EngagementRate = window.Percent(
		int64(s.TotalLikes+s.TotalShares),
		int64(countNamed(events, v1.EventSessionStart, v1.EventFirstVisit)),
		1,
	)

	s.AvgSessionMinutes, s.SessionCount = averageSession(events, a.opts.SessionGap)
	s.ChurnRate = churnRate(events, now)
	s.Day1Retention = dayOneRetention(events, now)
	s.ViralCoefficient = window.Ratio(int64(s.TotalShares), int64(s.UniqueVisits), 2)

	s.Feedback = feedbackBreakdown(in.Feedback)
	s.NPSScore = window.PercentDiff(int64(s.Feedback.Happy), int64(s.Feedback.Sad), int64(s.Feedback.Total))
	s.NPSThresholdMet = s.NPSScore > NPSThreshold

	return s
}

// wellFormed drops nil events and events without a timestamp.
func wellFormed(events []*v1.Event) ([]*v1.Event, int) {
	out := make([]*v1.Event, 0, len(events))
	for _, e := range events {
		if e == nil || e.CreatedAt.IsZero() {
			continue
		}
		out = append(out, e)
	}
	return out, len(events) - len(out)
}

func uniqueVisits(events []*v1.Event) int {
	seen := make(map[string]struct{})
	for _, e := range events {
		if e.HasIdentity() {
			seen[e.UserPseudoID] = struct{}{}
		}
	}
	return len(seen)
}

func activationRate(events []*v1.Event, unique int) float64 {
	posted := make(map[string]struct{})
	for _, e := range events {
		if e.EventName == v1.EventPostCreated && e.HasIdentity() {
			posted[e.UserPseudoID] = struct{}{}
		}
	}
	return window.Percent(int64(len(posted)), int64(unique), 1)
}

func countNamed(events []*v1.Event, names ...string) int {
	n := 0
	for _, e := range events {
		for _, name := range names {
			if e.EventName == name {
				n++
				break
			}
		}
	}
	return n
}

// dailyActive counts identities with at least one event in [now-24h, now).
func dailyActive(events []*v1.Event, now time.Time) int {
	return len(activeIn(events, window.Trailing(now, window.Day)))
}

func activeIn(events []*v1.Event, span window.Span) map[string]struct{} {
	active := make(map[string]struct{})
	for _, e := range events {
		if e.HasIdentity() && span.Contains(e.CreatedAt) {
			active[e.UserPseudoID] = struct{}{}
		}
	}
	return active
}

// postTotals skips rows with a negative like counter.
func postTotals(posts []v1.PostCounter) (total, likes int) {
	for _, p := range posts {
		if p.Likes < 0 {
			continue
		}
		total++
		likes += p.Likes
	}
	return total, likes
}

func averageSession(events []*v1.Event, gap time.Duration) (float64, int) {
	byIdentity := make(map[string][]time.Time)
	for _, e := range events {
		if e.HasIdentity() {
			byIdentity[e.UserPseudoID] = append(byIdentity[e.UserPseudoID], e.CreatedAt)
		}
	}

	var (
		total time.Duration
		count int
	)
	for _, timestamps := range byIdentity {
		for _, d := range Sessions(timestamps, gap) {
			total += d
			count++
		}
	}
	return window.AverageMinutes(total, int64(count), 1), count
}

// churnRate is the share of identities active in [now-8d, now-7d) that have no
// event in [now-24h, now).
func churnRate(events []*v1.Event, now time.Time) float64 {
	weekAgo := activeIn(events, window.Ago(now, 8*window.Day, 7*window.Day))
	recent := activeIn(events, window.Trailing(now, window.Day))

	churned := 0
	for id := range weekAgo {
		if _, ok := recent[id]; !ok {
			churned++
		}
	}
	return window.Percent(int64(churned), int64(len(weekAgo)), 1)
}

// dayOneRetention anchors every identity on its earliest first_visit (t0).
// Identities with t0 at least 24h in the past are eligible; they returned if
// any other event falls in [t0+24h, t0+48h).
func dayOneRetention(events []*v1.Event, now time.Time) float64 {
	firstVisit := make(map[string]time.Time)
	for _, e := range events {
		if e.EventName != v1.EventFirstVisit || !e.HasIdentity() {
			continue
		}
		if t0, ok := firstVisit[e.UserPseudoID]; !ok || e.CreatedAt.Before(t0) {
			firstVisit[e.UserPseudoID] = e.CreatedAt
		}
	}

	cutoff := now.Add(-window.Day)
	eligible := make(map[string]window.Span)
	for id, t0 := range firstVisit {
		if !t0.After(cutoff) {
			eligible[id] = window.After(t0, window.Day, 2*window.Day)
		}
	}

	returned := make(map[string]struct{})
	for _, e := range events {
		if e.EventName == v1.EventFirstVisit {
			continue
		}
		span, ok := eligible[e.UserPseudoID]
		if ok && span.Contains(e.CreatedAt) {
			returned[e.UserPseudoID] = struct{}{}
		}
	}
	return window.Percent(int64(len(returned)), int64(len(eligible)), 1)
}

// feedbackBreakdown counts known ratings; unknown ratings are skipped.
func feedbackBreakdown(rows []v1.Feedback) FeedbackBreakdown {
	var b FeedbackBreakdown
	for _, f := range rows {
		switch f.Rating {
		case v1.RatingHappy:
			b.Happy++
		case v1.RatingNormal:
			b.Normal++
		case v1.RatingSad:
			b.Sad++
		default:
			continue
		}
		b.Total++
	}
	return b
}
