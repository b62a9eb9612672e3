package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidWindow is returned for an unrecognized time window name.
var ErrInvalidWindow = errors.New("invalid time window")

// TimeWindow selects which calendar days a report covers.
type TimeWindow string

const (
	WindowToday      TimeWindow = "today"
	WindowYesterday  TimeWindow = "yesterday"
	WindowLast7Days  TimeWindow = "last7days"
	WindowLast30Days TimeWindow = "last30days"
	WindowAll        TimeWindow = "all"
)

// ParseTimeWindow accepts the canonical names plus a few aliases. Blank
// selects WindowAll.
func ParseTimeWindow(s string) (TimeWindow, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "total":
		return WindowAll, nil
	case "today":
		return WindowToday, nil
	case "yesterday":
		return WindowYesterday, nil
	case "last7days", "7d", "weekly", "week":
		return WindowLast7Days, nil
	case "last30days", "30d", "monthly", "month":
		return WindowLast30Days, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidWindow, s)
	}
}

// Range returns the inclusive date range for the window relative to now.
// Bounds are calendar days; last7days and last30days reach back seven and
// thirty days from today and include today.
func (w TimeWindow) Range(now time.Time) DateRange {
	today := CalendarDate(now)
	back := func(days int) *time.Time {
		t := today.AddDate(0, 0, -days)
		return &t
	}

	switch w {
	case WindowToday:
		return DateRange{From: &today}
	case WindowYesterday:
		y := back(1)
		return DateRange{From: y, To: y}
	case WindowLast7Days:
		return DateRange{From: back(7)}
	case WindowLast30Days:
		return DateRange{From: back(30)}
	default:
		return DateRange{}
	}
}
