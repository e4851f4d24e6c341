// utils/names.go
package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PlaceholderNull is what spreadsheet exports write for an empty cell.
const PlaceholderNull = "nan"

// NormalizeName turns a raw person name into the key used to compare sponsors
// across exports. "  John   Smith.  " and "JOHN SMITH" share a key.
// Only leading/trailing '.', ',' and ';' are removed; inner punctuation is kept.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || name == PlaceholderNull {
		return ""
	}
	// A Caser keeps state, so each call gets its own.
	name = cases.Upper(language.Und).String(name)
	name = strings.Join(strings.Fields(name), " ")
	return strings.TrimFunc(name, func(r rune) bool {
		return r == '.' || r == ',' || r == ';' || unicode.IsSpace(r)
	})
}

// CleanCell trims a CSV cell and maps the placeholder marker to "".
func CleanCell(value string) string {
	value = strings.TrimSpace(value)
	if value == PlaceholderNull {
		return ""
	}
	return value
}

// ParseBool accepts "true", "yes" and "1" in any case; everything else is false.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		return true
	default:
		return false
	}
}
