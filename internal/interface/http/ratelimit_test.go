package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nurturemyplants/plantcare/internal/infra/config"
)

func TestFixedWindowLimiterAllowsUpToLimit(t *testing.T) {
	l := newFixedWindowLimiter(config.WindowQuota{Window: time.Hour, Limit: 3})
	now := time.Date(2026, 3, 14, 10, 15, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		ok, _ := l.allow("10.0.0.1")
		require.True(t, ok, "hit %d should fit the window", i+1)
	}
	ok, resetAt := l.allow("10.0.0.1")
	require.False(t, ok)
	require.Equal(t, time.Date(2026, 3, 14, 11, 0, 0, 0, time.UTC), resetAt)
}

func TestFixedWindowLimiterKeysAreIndependent(t *testing.T) {
	l := newFixedWindowLimiter(config.WindowQuota{Window: time.Hour, Limit: 1})
	now := time.Date(2026, 3, 14, 10, 15, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	ok, _ := l.allow("10.0.0.1")
	require.True(t, ok)
	ok, _ = l.allow("10.0.0.1")
	require.False(t, ok)

	ok, _ = l.allow("10.0.0.2")
	require.True(t, ok)
}

func TestFixedWindowLimiterResetsOnWindowBoundary(t *testing.T) {
	l := newFixedWindowLimiter(config.WindowQuota{Window: time.Hour, Limit: 1})
	now := time.Date(2026, 3, 14, 10, 59, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	ok, _ := l.allow("10.0.0.1")
	require.True(t, ok)
	ok, _ = l.allow("10.0.0.1")
	require.False(t, ok)

	now = time.Date(2026, 3, 14, 11, 0, 1, 0, time.UTC)
	ok, _ = l.allow("10.0.0.1")
	require.True(t, ok, "new window should grant a fresh budget")
}

func TestFixedWindowLimiterPrunesStaleCounters(t *testing.T) {
	l := newFixedWindowLimiter(config.WindowQuota{Window: time.Hour, Limit: 5})
	now := time.Date(2026, 3, 14, 10, 15, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.allow("10.0.0.1")
	l.allow("10.0.0.2")
	l.allow("10.0.0.3")
	require.Len(t, l.counts, 3)

	now = now.Add(2 * time.Hour)
	l.allow("10.0.0.1")
	require.Len(t, l.counts, 1)
}

func TestRetryHint(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{-time.Second, "now"},
		{0, "now"},
		{10 * time.Second, "11 seconds"},
		{90 * time.Second, "2 minutes"},
		{45 * time.Minute, "46 minutes"},
		{3 * time.Hour, "4 hours"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, retryHint(tc.d), "hint for %s", tc.d)
	}
}
