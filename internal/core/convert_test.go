package core

import (
	"testing"
	"time"
)

func TestParseCents(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{"pt-BR with thousands", "R$ 1.234,56", 123456},
		{"pt-BR decimal comma", "45,00", 4500},
		{"zero", "R$ 0,00", 0},
		{"en-US with thousands", "$1,234.56", 123456},
		{"plain decimal point", "12.50", 1250},
		{"integer", "89", 8900},
		{"repeated dot grouping", "1.234.567", 123456700},
		{"repeated comma grouping", "1,234,567", 123456700},
		{"sub-cent floors", "10,999", 1099},
		{"single dot is decimal", "1.234", 123},
		{"negative", "-5,50", -550},
		{"non-breaking space", "R$ 12,30", 1230},
		{"excel wrapper", `="19,90"`, 1990},
		{"blank", "   ", 0},
		{"dash only", "-", 0},
		{"letters only", "grátis", 0},
		{"overflows int64", "R$ 999999999999999999999,00", 0},
		{"just above int64", "92233720368547758,08", 0},
		{"largest representable", "92233720368547758,07", 9223372036854775807},
		{"negative overflow", "-999999999999999999999", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseCents(tt.input); got != tt.want {
				t.Errorf("ParseCents(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseClicks(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"42", 42},
		{"1.234", 1234},
		{"1,234", 1234},
		{" 7 ", 7},
		{"", 0},
		{"-3", 0},
		{"n/a", 0},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseClicks(tt.input); got != tt.want {
				t.Errorf("ParseClicks(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseOrderDate(t *testing.T) {
	now := time.Date(2024, 5, 20, 15, 30, 0, 0, time.UTC)
	today := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		input        string
		want         time.Time
		wantFallback bool
	}{
		{"day first with seconds", "03/04/2024 14:22:10", time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC), false},
		{"day first with minutes", "03/04/2024 14:22", time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC), false},
		{"day first date only", "31/12/2023", time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), false},
		{"iso date", "2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), false},
		{"iso timestamp", "2024-01-15 08:00:00", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), false},
		{"rfc3339 keeps its own calendar day", "2024-01-15T23:30:00-03:00", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), false},
		{"slashed iso", "2024/02/29", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), false},
		{"blank falls back to today", "", today, true},
		{"garbage falls back to today", "ontem", today, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, fallback := ParseOrderDate(tt.input, now)
			if !got.Equal(tt.want) {
				t.Errorf("date = %v, want %v", got, tt.want)
			}
			if fallback != tt.wantFallback {
				t.Errorf("fallback = %v, want %v", fallback, tt.wantFallback)
			}
		})
	}
}

func TestCleanCell(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`="2401ABC"`, "2401ABC"},
		{`"quoted"`, "quoted"},
		{"  spaced  ", "spaced"},
		{"=123", "123"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := CleanCell(tt.input); got != tt.want {
				t.Errorf("CleanCell(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPgHelpers(t *testing.T) {
	if ToPgText("  ").Valid {
		t.Error("ToPgText(blank) should be NULL")
	}
	if ToPgTextPtr(nil).Valid {
		t.Error("ToPgTextPtr(nil) should be NULL")
	}
	if p := PgTextPtr(ToPgText("abc")); p == nil || *p != "abc" {
		t.Errorf("PgTextPtr round trip = %v", p)
	}
	if ToPgUUID("not-a-uuid").Valid {
		t.Error("ToPgUUID(invalid) should be NULL")
	}
	id := "6f1c2a4e-8a3b-4c7d-9e0f-112233445566"
	if got := PgUUIDToString(ToPgUUID(id)); got != id {
		t.Errorf("uuid round trip = %q, want %q", got, id)
	}
	d := ToPgDate(time.Date(2024, 3, 9, 22, 0, 0, 0, time.UTC))
	if !d.Valid || d.Time.Day() != 9 || d.Time.Hour() != 0 {
		t.Errorf("ToPgDate = %+v", d)
	}
}
