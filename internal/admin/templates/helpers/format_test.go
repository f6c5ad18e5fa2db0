package helpers

import (
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestCurrency(t *testing.T) {
	t.Parallel()

	require.Equal(t, "$0.00", Currency(0))
	require.Equal(t, "$39.99", Currency(39.99))
	require.Equal(t, "$1234.50", Currency(1234.5))
}

func TestDate(t *testing.T) {
	t.Parallel()

	require.Equal(t, "—", Date(time.Time{}))

	ts := time.Date(2025, 6, 1, 14, 30, 0, 0, time.UTC)
	require.Equal(t, "Jun 01, 2025", Date(ts))
	require.Equal(t, "Jun 01, 2025 14:30", DateTime(ts))
}

func TestRelative(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"zero", time.Time{}, "—"},
		{"seconds", now.Add(-30 * time.Second), "just now"},
		{"one minute", now.Add(-time.Minute), "1 minute ago"},
		{"minutes", now.Add(-5 * time.Minute), "5 minutes ago"},
		{"hours", now.Add(-3 * time.Hour), "3 hours ago"},
		{"days", now.Add(-48 * time.Hour), "2 days ago"},
		{"old", now.Add(-90 * 24 * time.Hour), "Mar 03, 2025"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, Relative(tt.t, now))
		})
	}
}

func TestPlaceholder(t *testing.T) {
	t.Parallel()

	require.Equal(t, "—", Placeholder(""))
	require.Equal(t, "—", Placeholder("   "))
	require.Equal(t, "Rabat", Placeholder("Rabat"))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	require.Equal(t, "short", Truncate("short", 10))
	require.Equal(t, "long text…", Truncate("long text that keeps going", 9))
	require.Equal(t, "unchanged", Truncate("unchanged", 0))

	// Multibyte names must be cut on rune boundaries, not bytes.
	got := Truncate("محمد الأمين بن عبد الله", 10)
	require.True(t, utf8.ValidString(got))
	require.Equal(t, "محمد الأمي…", got)
	require.Equal(t, "Chloé", Truncate("Chloé", 5))
}
