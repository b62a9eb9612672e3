package web

// Shared request parsing used across handlers.

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/InstaDash/internal/core"
)

// maxJSONBody bounds JSON request bodies; uploads use multipart instead.
const maxJSONBody = 1 << 20

// dateLayout is the wire format for calendar dates in requests.
const dateLayout = "2006-01-02"

// parseIntParam parses a positive integer query parameter with a default.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// parseWindow reads ?window=, defaulting to all.
func parseWindow(r *http.Request) (core.TimeWindow, error) {
	return core.ParseTimeWindow(r.URL.Query().Get("window"))
}

// decodeJSON reads a JSON body into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed JSON body: %v", core.ErrInvalidInput, err)
	}
	return nil
}

// parseDate parses an optional YYYY-MM-DD value. Blank yields the zero time.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, errBadRequest)
	}
	return t, nil
}

// moneyInput accepts either integer cents or a formatted amount such as
// "150,00" or "R$ 1.234,56". Cents win when both are set.
type moneyInput struct {
	AmountCents int64  `json:"amountCents"`
	Amount      string `json:"amount"`
}

func (m moneyInput) cents() (int64, error) {
	if m.AmountCents != 0 {
		return m.AmountCents, nil
	}
	if strings.TrimSpace(m.Amount) == "" {
		return 0, nil
	}
	c := core.ParseCents(m.Amount)
	if c == 0 {
		return 0, fmt.Errorf("invalid number %q: %w", m.Amount, errBadRequest)
	}
	return c, nil
}
