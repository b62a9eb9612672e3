package core

// convert.go turns export cell text into typed values, and typed values into
// pgtype parameters for the Postgres store.
//
// Export quirks handled here:
//   - pt-BR money ("R$ 1.234,56") next to en-US money ("$1,234.56")
//   - day-first dates with optional time of day, plus ISO timestamps
//   - Excel formula wrappers (="123")

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(math.MaxInt64)
	minCents = decimal.NewFromInt(math.MinInt64)
)

// Day-first layouts come before ISO ones; the platform's Brazilian exports
// write 03/04/2024 for 3 April.
var orderDateLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"2/1/2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"02-01-2006",
	"02.01.2006",
}

// ParseCents converts a money string to integer cents, flooring any
// sub-cent remainder. Unparseable input and amounts outside the int64 range
// yield 0.
//
// Separator rules:
//   - both ',' and '.' present: the rightmost one is the decimal separator
//   - only ',' present once: decimal comma ("45,00")
//   - a separator repeated: thousands grouping ("1.234.567")
//   - only '.' present once: decimal point ("12.50")
func ParseCents(raw string) int64 {
	s := normalizeDecimal(CleanCell(raw))
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	cents := d.Mul(hundred).Floor()
	if cents.GreaterThan(maxCents) || cents.LessThan(minCents) {
		return 0
	}
	return cents.IntPart()
}

// normalizeDecimal strips currency symbols and grouping and returns a plain
// "-1234.56" style string, or "" if no digits remain.
func normalizeDecimal(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == ',', r == '.':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	s = b.String()
	if strings.Trim(s, "-.,") == "" {
		return ""
	}

	commas := strings.Count(s, ",")
	dots := strings.Count(s, ".")

	switch {
	case commas > 0 && dots > 0:
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case commas == 1:
		s = strings.Replace(s, ",", ".", 1)
	case commas > 1:
		s = strings.ReplaceAll(s, ",", "")
	case dots > 1:
		s = strings.ReplaceAll(s, ".", "")
	}
	return s
}

// ParseClicks parses a click counter. Grouping separators are ignored;
// blank, negative or unparseable input yields 0.
func ParseClicks(raw string) int64 {
	s := CleanCell(raw)
	s = strings.NewReplacer(".", "", ",", "", " ", "", "\u00a0", "").Replace(s)
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ParseOrderDate returns the calendar date in raw. When raw is blank or
// matches no known layout it returns today's date (from now) and
// fallback=true.
func ParseOrderDate(raw string, now time.Time) (date time.Time, fallback bool) {
	s := CleanCell(raw)
	if s != "" {
		for _, layout := range orderDateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return CalendarDate(t), false
			}
		}
	}
	return CalendarDate(now), true
}

// CleanCell removes common CSV artifacts from a cell value:
// surrounding whitespace, an Excel ="..." wrapper and stray quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}

// ToPgText converts a string to pgtype.Text.
// Returns invalid if the string is empty or only whitespace.
func ToPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// ToPgTextPtr converts an optional string to pgtype.Text.
func ToPgTextPtr(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{Valid: false}
	}
	return ToPgText(*s)
}

// PgTextPtr is the inverse of ToPgTextPtr.
func PgTextPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	return strPtr(t.String)
}

// ToPgDate converts a calendar date to pgtype.Date.
func ToPgDate(t time.Time) pgtype.Date {
	return pgtype.Date{Time: CalendarDate(t), Valid: true}
}

// ToPgDatePtr converts an optional bound; nil becomes SQL NULL.
func ToPgDatePtr(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{Valid: false}
	}
	return ToPgDate(*t)
}

// ToPgTimestamptz converts a time to pgtype.Timestamptz.
func ToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{Valid: false}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

// ToPgUUID converts a string to pgtype.UUID.
// Returns invalid if the string is empty or not a valid UUID.
func ToPgUUID(s string) pgtype.UUID {
	if s == "" {
		return pgtype.UUID{Valid: false}
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return pgtype.UUID{Valid: false}
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}
}

// PgUUIDToString converts a pgtype.UUID to its string representation.
// Returns empty string if the UUID is invalid.
func PgUUIDToString(u pgtype.UUID) string {
	if !u.Valid {
		return ""
	}
	return uuid.UUID(u.Bytes).String()
}
