package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	maxAccountLen  = 200
	maxCategoryLen = 100

	// DefaultCategory is assigned when a source provides no usable category.
	DefaultCategory = "Uncategorized"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// normalizeDate converts vendor date strings to ISO 8601 YYYY-MM-DD.
// Slash-delimited dates are read as DD/MM/YYYY and reordered. Dash-delimited
// dates are assumed already ISO; any time component after "T" or a space is
// cut. Anything else passes through unchanged — a known weak point of the
// source formats, deliberately not silently "fixed".
func normalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if strings.Contains(raw, "/") {
		parts := strings.Split(raw, "/")
		if len(parts) != 3 {
			return raw
		}
		day, errD := strconv.Atoi(strings.TrimSpace(parts[0]))
		month, errM := strconv.Atoi(strings.TrimSpace(parts[1]))
		year := strings.TrimSpace(parts[2])
		if errD != nil || errM != nil || len(year) < 2 {
			return ""
		}
		if len(year) == 2 {
			year = "20" + year
		}
		return fmt.Sprintf("%s-%02d-%02d", year, month, day)
	}

	if strings.Contains(raw, "-") {
		if idx := strings.IndexAny(raw, "T "); idx > 0 {
			return raw[:idx]
		}
		return raw
	}

	return raw
}

// parseAmount converts strings like "R 12,345.00" or "-£1,234.56" to a
// float64, stripping currency symbols, thousands separators, and whitespace
// (including Unicode variants). A non-numeric result is 0, never an error:
// row-level malformation is recovered, not propagated.
func parseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "R", "")
	s = strings.ReplaceAll(s, "r", "")
	s = strings.ReplaceAll(s, "£", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "") // non-breaking space

	if s == "" || s == "-" {
		return 0
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// cleanText collapses internal whitespace runs and trims.
func cleanText(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// sanitizeAccount trims, collapses whitespace, and caps the raw account
// label. The label is otherwise preserved verbatim for attribution matching.
func sanitizeAccount(s string) string {
	return truncate(cleanText(s), maxAccountLen)
}

// sanitizeCategory guards category cells against spreadsheet formula
// injection by stripping a single leading =, +, - or @, then caps length.
// A cell that is empty after sanitization falls back to DefaultCategory.
func sanitizeCategory(s string) string {
	s = cleanText(s)
	if len(s) > 0 {
		switch s[0] {
		case '=', '+', '-', '@':
			s = strings.TrimSpace(s[1:])
		}
	}
	s = truncate(s, maxCategoryLen)
	if s == "" {
		return DefaultCategory
	}
	return s
}

// truncate caps a string at max bytes without splitting a multi-byte
// UTF-8 rune at the cut point.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// txnType derives the transaction type from the signed amount.
func txnType(amount float64) string {
	if amount < 0 {
		return "expense"
	}
	return "income"
}
