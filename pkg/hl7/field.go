package hl7

import "strings"

// Field returns the 1-based ordinal field from a split segment.
// Out-of-range indexes (including zero and negative) return the empty string.
func Field(fields []string, index int) string {
	if index < 1 || index > len(fields) {
		return ""
	}
	return fields[index-1]
}

// Component splits a field on the component separator and returns the
// 1-based component. Out-of-range indexes return the empty string.
func Component(field string, index int, sep byte) string {
	if field == "" {
		return ""
	}
	components := strings.Split(field, string(sep))
	return Field(components, index)
}

// FirstRepetition returns the first repetition of a possibly repeating
// field. A field without the repetition separator is returned unchanged.
func FirstRepetition(field string, sep byte) string {
	if field == "" {
		return ""
	}
	if i := strings.IndexByte(field, sep); i >= 0 {
		return field[:i]
	}
	return field
}

// looksLikeDatetime reports whether a value starts with 8 digits (YYYYMMDD).
// This is a shape heuristic, not a validation.
func looksLikeDatetime(value string) bool {
	if len(value) < 8 {
		return false
	}
	for i := 0; i < 8; i++ {
		if value[i] < '0' || value[i] > '9' {
			return false
		}
	}
	return true
}

// datetimeFromTiming extracts a datetime token from a timing quantity field.
// The field may be a bare datetime ("20250502130000") or component-based
// ("^^^20250502130000^20250502140000"); the first datetime-shaped value
// wins. Returns "" when nothing in the field looks like a datetime.
func datetimeFromTiming(timing string, componentSep byte) string {
	if timing == "" {
		return ""
	}
	if looksLikeDatetime(timing) {
		return timing
	}
	for _, component := range strings.Split(timing, string(componentSep)) {
		if looksLikeDatetime(component) {
			return component
		}
	}
	return ""
}
