package window

import (
	"fmt"
	"time"
)

// Day is the fixed 24h unit used by the daily metrics windows.
const Day = 24 * time.Hour

// Span is a half-open time interval [Start, End).
type Span struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside [Start, End).
func (s Span) Contains(t time.Time) bool {
	return !t.Before(s.Start) && t.Before(s.End)
}

// Trailing returns the window of width d that ends at now: [now-d, now).
func Trailing(now time.Time, d time.Duration) Span {
	return Span{Start: now.Add(-d), End: now}
}

// Ago returns the window [now-from, now-to). from must be larger than to.
// Example: Ago(now, 8*Day, 7*Day) is "a week ago".
func Ago(now time.Time, from, to time.Duration) Span {
	return Span{Start: now.Add(-from), End: now.Add(-to)}
}

// After returns the window [t+from, t+to) relative to an anchor timestamp.
func After(t time.Time, from, to time.Duration) Span {
	return Span{Start: t.Add(from), End: t.Add(to)}
}

// CeilSeconds converts d into whole seconds, rounding any fraction up.
// Negative durations yield 0.
func CeilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	secs := d / time.Second
	if d%time.Second != 0 {
		secs++
	}
	return int(secs)
}

// ParseDuration parses Go duration syntax (e.g. "3s", "10m", "1h") plus "Xd"
// for whole days, which time.ParseDuration does not support.
func ParseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, fmt.Errorf("duration must not be empty")
	}

	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", s, err)
		}
		if days <= 0 {
			return 0, fmt.Errorf("duration must be positive, got %q", s)
		}
		return time.Duration(days) * Day, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %q", s)
	}
	return d, nil
}
