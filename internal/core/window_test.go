package core

import (
	"errors"
	"testing"
	"time"
)

func TestParseTimeWindow(t *testing.T) {
	tests := []struct {
		in   string
		want TimeWindow
	}{
		{"", WindowAll},
		{"total", WindowAll},
		{"Today", WindowToday},
		{"yesterday", WindowYesterday},
		{"7d", WindowLast7Days},
		{"weekly", WindowLast7Days},
		{"last30days", WindowLast30Days},
		{"month", WindowLast30Days},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeWindow(tt.in)
			if err != nil || got != tt.want {
				t.Errorf("ParseTimeWindow(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
			}
		})
	}

	if _, err := ParseTimeWindow("fortnight"); !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("err = %v, want ErrInvalidWindow", err)
	}
}

func TestTimeWindowRange(t *testing.T) {
	now := time.Date(2024, 6, 10, 23, 59, 0, 0, time.UTC)
	day := func(m time.Month, d int) time.Time { return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		window TimeWindow
		in     []time.Time
		out    []time.Time
	}{
		{
			window: WindowToday,
			in:     []time.Time{day(6, 10)},
			out:    []time.Time{day(6, 9)},
		},
		{
			window: WindowYesterday,
			in:     []time.Time{day(6, 9)},
			out:    []time.Time{day(6, 10), day(6, 8)},
		},
		{
			window: WindowLast7Days,
			in:     []time.Time{day(6, 10), day(6, 3)},
			out:    []time.Time{day(6, 2)},
		},
		{
			window: WindowLast30Days,
			in:     []time.Time{day(6, 10), day(5, 11)},
			out:    []time.Time{day(5, 10)},
		},
		{
			window: WindowAll,
			in:     []time.Time{day(1, 1), day(6, 10)},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.window), func(t *testing.T) {
			r := tt.window.Range(now)
			for _, d := range tt.in {
				if !r.Contains(d) {
					t.Errorf("%s should include %s", tt.window, d.Format("2006-01-02"))
				}
			}
			for _, d := range tt.out {
				if r.Contains(d) {
					t.Errorf("%s should exclude %s", tt.window, d.Format("2006-01-02"))
				}
			}
		})
	}
}
