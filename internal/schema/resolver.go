package schema

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// HeaderMap maps a canonical column key to its position in the header row.
type HeaderMap map[string]int

// Has reports whether the canonical column was found.
func (h HeaderMap) Has(key string) bool {
	_, ok := h[key]
	return ok
}

// Value returns the cell of row under the canonical column, or "" when the
// column is absent or the row is short.
func (h HeaderMap) Value(row []string, key string) string {
	idx, ok := h[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// Row converts a positional row into a map keyed by canonical column.
func (h HeaderMap) Row(row []string) map[string]string {
	out := make(map[string]string, len(h))
	for key := range h {
		out[key] = h.Value(row, key)
	}
	return out
}

// Capitalize upper-cases the first letter of a column key ("precoW" -> "PrecoW").
func Capitalize(key string) string {
	r, size := utf8.DecodeRuneInString(key)
	if r == utf8.RuneError {
		return key
	}
	return string(unicode.ToUpper(r)) + key[size:]
}

// ResolveHeaders maps the actual header row onto the schema's canonical columns.
// A header matches a column when it equals the canonical key, its capitalized
// form, or one of its aliases; any other casing is accepted as a last resort.
// Missing required columns are errors; unknown columns are warnings.
func ResolveHeaders(headers []string, schema *TableSchema) (resolved HeaderMap, warnings []string, errors []string) {
	resolved = make(HeaderMap)
	matched := make(map[int]bool)

	passes := []func(header, key string) bool{
		func(h, k string) bool { return h == k },
		func(h, k string) bool { return h == Capitalize(k) },
		func(h, k string) bool {
			for _, alias := range schema.Aliases[k] {
				if h == alias {
					return true
				}
			}
			return false
		},
		strings.EqualFold,
	}

	for _, match := range passes {
		for _, key := range schema.Columns {
			if resolved.Has(key) {
				continue
			}
			for i, raw := range headers {
				if matched[i] {
					continue
				}
				if match(strings.TrimSpace(raw), key) {
					resolved[key] = i
					matched[i] = true
					break
				}
			}
		}
	}

	for _, key := range schema.RequiredColumns() {
		if !resolved.Has(key) {
			errors = append(errors, fmt.Sprintf("%s: required column '%s' not found in headers", schema.Name, key))
		}
	}

	for i, raw := range headers {
		if matched[i] || strings.TrimSpace(raw) == "" {
			continue
		}
		warnings = append(warnings, fmt.Sprintf("%s: unexpected column '%s' will be ignored", schema.Name, raw))
	}

	return resolved, warnings, errors
}
