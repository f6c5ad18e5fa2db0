// Package helpers provides formatting functions shared by the dashboard
// templates.
package helpers

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Currency renders a monetary amount with a dollar sign and two decimals.
func Currency(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

// Date renders a timestamp as a short human readable date, e.g. "Jun 01, 2025".
// The zero time renders as a placeholder dash.
func Date(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("Jan 02, 2006")
}

// DateTime renders a timestamp with the time of day included.
func DateTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("Jan 02, 2006 15:04")
}

// Relative renders a timestamp as a coarse "time ago" string for the recent
// orders list.
func Relative(t, now time.Time) string {
	if t.IsZero() {
		return "—"
	}

	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	case d < 30*24*time.Hour:
		return plural(int(d.Hours()/24), "day")
	default:
		return t.Format("Jan 02, 2006")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

// Placeholder substitutes a dash for absent free-text values so table cells
// never render empty.
func Placeholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return "—"
	}
	return s
}

// Truncate shortens long free-text fields for table cells. It cuts on rune
// boundaries so multibyte names never yield invalid UTF-8.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	trimmed := strings.TrimSpace(string(runes[:max]))
	return trimmed + "…"
}
