package stats

import "time"

// Window is a trailing time range used to scope statistics.
type Window int

const (
	// Last7Days covers the trailing week.
	Last7Days Window = 7
	// Last30Days covers the trailing month.
	Last30Days Window = 30
	// Last90Days covers the trailing quarter.
	Last90Days Window = 90
)

// AllWindows lists the selectable ranges in menu order.
func AllWindows() []Window {
	return []Window{Last7Days, Last30Days, Last90Days}
}

// ParseWindow maps the query-string values used by the statistics page onto
// a Window, defaulting to the trailing 30 days.
func ParseWindow(value string) Window {
	switch value {
	case "7days":
		return Last7Days
	case "90days":
		return Last90Days
	default:
		return Last30Days
	}
}

// Param returns the query-string value for the window.
func (w Window) Param() string {
	switch w {
	case Last7Days:
		return "7days"
	case Last90Days:
		return "90days"
	default:
		return "30days"
	}
}

// Label returns the human readable range description.
func (w Window) Label() string {
	switch w {
	case Last7Days:
		return "Last 7 Days"
	case Last90Days:
		return "Last 90 Days"
	default:
		return "Last 30 Days"
	}
}

// Cutoff computes the inclusive lower bound of the window, in epoch
// milliseconds, relative to now. It is evaluated at the moment statistics
// are requested, never cached.
func (w Window) Cutoff(now time.Time) int64 {
	days := int(w)
	if days <= 0 {
		days = int(Last30Days)
	}
	return now.AddDate(0, 0, -days).UnixMilli()
}
