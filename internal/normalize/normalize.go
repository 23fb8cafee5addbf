// Package normalize is the output boundary for field values. Every value
// leaving an extractor passes through here exactly once.
package normalize

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/chemtrack/sds-extractor/internal/sds"
)

// MaxFieldLen is the hard cap on a stored field value, counted in
// characters, not bytes. Longer values are truncated to exactly this
// length including the ellipsis.
const MaxFieldLen = 500

// Value collapses internal whitespace runs to single spaces, trims, and
// truncates to MaxFieldLen. A truncated value is always exactly
// MaxFieldLen characters: 497 of content plus "...". Truncation never
// splits a rune, so the output stays valid UTF-8.
func Value(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= MaxFieldLen {
		return s
	}
	return string([]rune(s)[:MaxFieldLen-3]) + "..."
}

// Record fills any missing canonical keys and normalizes every value in
// place, then returns the same record.
func Record(rec sds.Record) sds.Record {
	rec.FillMissing()
	for k, v := range rec {
		rec[k] = Value(v)
	}
	return rec
}

// FlattenList joins list elements with "; " after stringifying each one.
func FlattenList(items []any) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%v", it))
	}
	return strings.Join(parts, "; ")
}

// FlattenMap renders a nested object as "Key: value; ..." with keys in
// sorted order so the output is deterministic.
func FlattenMap(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", k, m[k]))
	}
	return strings.Join(parts, "; ")
}

// FlattenValue reduces an arbitrary decoded JSON value to a flat string.
func FlattenValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []any:
		return FlattenList(t)
	case map[string]any:
		return FlattenMap(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
