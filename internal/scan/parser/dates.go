package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Date tokens accept /, - and . separators. Labeled patterns are tried
// first; only date of birth falls back to a bare token, and the bare
// form excludes dashes so Emirates ID digit groups never read as dates.
var (
	dobLabeledRe    = regexp.MustCompile(`(?i)\b(?:date of birth|birth date|d\.?o\.?b\.?)\s*[:.]?\s*(\d{1,4}[/\-.]\d{1,2}[/\-.]\d{1,4})`)
	dobBareRe       = regexp.MustCompile(`\b(\d{1,2}[/.]\d{1,2}[/.]\d{4})\b`)
	issueLabeledRe  = regexp.MustCompile(`(?i)\b(?:date of issue|issue date|issued(?: on)?)\s*[:.]?\s*(\d{1,4}[/\-.]\d{1,2}[/\-.]\d{1,4})`)
	expiryLabeledRe = regexp.MustCompile(`(?i)\b(?:date of expiry|expiry date|expires?|valid until)\s*[:.]?\s*(\d{1,4}[/\-.]\d{1,2}[/\-.]\d{1,4})`)
)

const (
	minYear = 1900
	maxYear = 2100

	// Plausible guest age bounds applied to date of birth only
	minAge = 16
	maxAge = 100
)

// normalizeDate turns a raw date token into canonical YYYY-MM-DD form.
// A 4-digit third segment reads as day-month-year; a 4-digit first
// segment reads as year-month-day; anything else is invalid. Range
// violations yield ok=false rather than an error.
func normalizeDate(token string) (string, bool) {
	segs := strings.FieldsFunc(token, func(r rune) bool {
		return r == '/' || r == '-' || r == '.'
	})
	if len(segs) != 3 {
		return "", false
	}

	var day, month, year int
	switch {
	case len(segs[2]) == 4:
		day, month, year = atoi(segs[0]), atoi(segs[1]), atoi(segs[2])
	case len(segs[0]) == 4:
		year, month, day = atoi(segs[0]), atoi(segs[1]), atoi(segs[2])
	default:
		return "", false
	}

	if year < minYear || year > maxYear {
		return "", false
	}
	if month < 1 || month > 12 {
		return "", false
	}
	if day < 1 || day > 31 {
		return "", false
	}

	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}

// plausibleBirthDate rejects syntactically valid dates that cannot be a
// guest's date of birth.
func plausibleBirthDate(normalized string, currentYear int) bool {
	year := atoi(normalized[:4])
	age := currentYear - year
	return age >= minAge && age <= maxAge
}

// extractDateOfBirth runs the DOB cascade: labeled token first, bare
// token fallback, each candidate normalized and plausibility-checked.
func extractDateOfBirth(text string, currentYear int) string {
	rules := []rule{
		{re: dobLabeledRe, norm: func(m []string) (string, bool) {
			return birthCandidate(m[1], currentYear)
		}},
		{re: dobBareRe, norm: func(m []string) (string, bool) {
			return birthCandidate(m[1], currentYear)
		}},
	}
	v, _ := firstMatch(text, rules)
	return v
}

func birthCandidate(token string, currentYear int) (string, bool) {
	normalized, ok := normalizeDate(token)
	if !ok {
		return "", false
	}
	if !plausibleBirthDate(normalized, currentYear) {
		return "", false
	}
	return normalized, true
}

func extractIssueDate(text string) string {
	v, _ := firstMatch(text, []rule{
		{re: issueLabeledRe, norm: func(m []string) (string, bool) { return normalizeDate(m[1]) }},
	})
	return v
}

func extractExpiryDate(text string) string {
	v, _ := firstMatch(text, []rule{
		{re: expiryLabeledRe, norm: func(m []string) (string, bool) { return normalizeDate(m[1]) }},
	})
	return v
}
