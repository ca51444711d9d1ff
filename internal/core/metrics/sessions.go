package metrics

import (
	"sort"
	"time"
)

// DefaultSessionGap is the inactivity gap that closes a session.
const DefaultSessionGap = 30 * time.Minute

// Sessions partitions one identity's timestamps into sessions and returns the
// duration of each, in chronological order. A new session starts whenever the
// gap to the previous event exceeds gap; the trailing session is always closed.
// The input is not modified and may be in any order.
func Sessions(timestamps []time.Time, gap time.Duration) []time.Duration {
	if len(timestamps) == 0 {
		return nil
	}

	sorted := make([]time.Time, len(timestamps))
	copy(sorted, timestamps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	var durations []time.Duration
	start, last := sorted[0], sorted[0]
	for _, ts := range sorted[1:] {
		if ts.Sub(last) > gap {
			durations = append(durations, last.Sub(start))
			start = ts
		}
		last = ts
	}
	return append(durations, last.Sub(start))
}
