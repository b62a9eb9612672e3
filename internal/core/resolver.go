package core

// resolver.go maps semantic fields to whichever literal header a file uses.
//
// Matching per alias, in alias order:
//  1. exact match after cleaning both sides
//  2. cleaned header contains the cleaned alias
//
// The first alias that matches any header wins, and the first header that
// matches it is used. Cleaning lower-cases and drops whitespace, '_' and '-',
// so "Sub-ID " and "sub_id" both clean to "subid".

import (
	"strings"
	"unicode"
)

// RawRow is one data row paired with the file's header row.
type RawRow struct {
	Headers []string
	Values  []string
}

// Get returns the value at column i, or "" when the row is short.
func (r RawRow) Get(i int) string {
	if i < 0 || i >= len(r.Values) {
		return ""
	}
	return r.Values[i]
}

// cleanHeader normalizes a header or alias for comparison.
func cleanHeader(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == '_' || r == '-' {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// ResolveHeader returns the index of the header selected for aliases,
// or -1 when no alias matches.
func ResolveHeader(aliases []string, headers []string) int {
	cleaned := make([]string, len(headers))
	for i, h := range headers {
		cleaned[i] = cleanHeader(h)
	}
	return resolveCleaned(aliases, cleaned)
}

func resolveCleaned(aliases []string, cleanedHeaders []string) int {
	for _, alias := range aliases {
		a := cleanHeader(alias)
		if a == "" {
			continue
		}
		for i, h := range cleanedHeaders {
			if h == a {
				return i
			}
		}
		for i, h := range cleanedHeaders {
			if strings.Contains(h, a) {
				return i
			}
		}
	}
	return -1
}

// ResolveField returns the raw cell for the first matching alias. The second
// result is false when nothing matches or the matched cell is blank; a blank
// cell does not fall through to later aliases.
func ResolveField(aliases []string, row RawRow) (string, bool) {
	return cellValue(row, ResolveHeader(aliases, row.Headers))
}

func cellValue(row RawRow, idx int) (string, bool) {
	if idx < 0 {
		return "", false
	}
	v := row.Get(idx)
	if strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// ColumnMap caches header resolution for every field of one file so each
// row is not re-matched.
type ColumnMap struct {
	headers []string
	index   map[Field]int
}

// NewColumnMap resolves every field in specs against headers.
func NewColumnMap(headers []string, specs []FieldSpec) ColumnMap {
	cleaned := make([]string, len(headers))
	for i, h := range headers {
		cleaned[i] = cleanHeader(h)
	}

	cm := ColumnMap{
		headers: append([]string(nil), headers...),
		index:   make(map[Field]int, len(specs)),
	}
	for _, spec := range specs {
		cm.index[spec.Field] = resolveCleaned(spec.Aliases, cleaned)
	}
	return cm
}

// Index returns the column index for f, or -1.
func (c ColumnMap) Index(f Field) int {
	if i, ok := c.index[f]; ok {
		return i
	}
	return -1
}

// Header returns the literal header matched for f.
func (c ColumnMap) Header(f Field) (string, bool) {
	i := c.Index(f)
	if i < 0 || i >= len(c.headers) {
		return "", false
	}
	return c.headers[i], true
}

// Value returns the cell for f in row, with ResolveField's blank handling.
func (c ColumnMap) Value(f Field, row RawRow) (string, bool) {
	return cellValue(row, c.Index(f))
}

// Mapping reports field name to matched header for diagnostics.
// Unmatched fields are omitted.
func (c ColumnMap) Mapping() map[string]string {
	out := make(map[string]string, len(c.index))
	for f := range c.index {
		if h, ok := c.Header(f); ok {
			out[f.String()] = h
		}
	}
	return out
}
