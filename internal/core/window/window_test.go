package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSpan_Contains(t *testing.T) {
	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	span := Trailing(now, Day)

	require.True(t, span.Contains(now.Add(-Day)), "start is inclusive")
	require.True(t, span.Contains(now.Add(-time.Second)))
	require.False(t, span.Contains(now), "end is exclusive")
	require.False(t, span.Contains(now.Add(-Day-time.Nanosecond)))
}

func TestAgo(t *testing.T) {
	now := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	span := Ago(now, 8*Day, 7*Day)

	require.Equal(t, now.Add(-8*Day), span.Start)
	require.Equal(t, now.Add(-7*Day), span.End)
	require.True(t, span.Contains(now.Add(-7*Day-12*time.Hour)))
	require.False(t, span.Contains(now.Add(-7*Day)))
}

func TestAfter(t *testing.T) {
	t0 := time.Date(2026, 2, 10, 6, 0, 0, 0, time.UTC)
	span := After(t0, Day, 2*Day)

	require.True(t, span.Contains(t0.Add(25*time.Hour)))
	require.False(t, span.Contains(t0.Add(49*time.Hour)))
	require.False(t, span.Contains(t0.Add(23*time.Hour)))
}

func TestCeilSeconds(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want int
	}{
		{in: 0, want: 0},
		{in: -time.Second, want: 0},
		{in: time.Nanosecond, want: 1},
		{in: time.Second, want: 1},
		{in: 1500 * time.Millisecond, want: 2},
		{in: 10 * time.Minute, want: 600},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, CeilSeconds(tc.in), "input %s", tc.in)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      time.Duration
		wantError bool
	}{
		{name: "seconds", input: "3s", want: 3 * time.Second},
		{name: "minutes", input: "10m", want: 10 * time.Minute},
		{name: "days suffix", input: "8d", want: 8 * Day},
		{name: "empty invalid", input: "", wantError: true},
		{name: "negative invalid", input: "-1m", wantError: true},
		{name: "zero invalid", input: "0s", wantError: true},
		{name: "zero days invalid", input: "0d", wantError: true},
		{name: "bad day format invalid", input: "xd", wantError: true},
		{name: "unknown unit invalid", input: "10x", wantError: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDuration(tc.input)
			if tc.wantError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}
