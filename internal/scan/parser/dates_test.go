package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
		ok    bool
	}{
		{"day first slash", "15/06/1990", "1990-06-15", true},
		{"day first dot", "15.06.1990", "1990-06-15", true},
		{"year first dash", "1990-06-15", "1990-06-15", true},
		{"single digit segments padded", "5/6/1990", "1990-06-05", true},
		{"month out of range", "32/13/2090", "", false},
		{"day out of range", "32/01/2000", "", false},
		{"year below range", "15/06/1899", "", false},
		{"year above range", "15/06/2101", "", false},
		{"no four digit year", "15/06/90", "", false},
		{"two segments", "15/1990", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := normalizeDate(tt.token)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractDateOfBirth(t *testing.T) {
	const currentYear = 2026

	tests := []struct {
		name string
		text string
		want string
	}{
		{"labeled full phrase", "Date of Birth: 15/06/1990", "1990-06-15"},
		{"labeled abbreviation", "DOB: 15/06/1990", "1990-06-15"},
		{"labeled dotted abbreviation", "D.O.B. 15-06-1990", "1990-06-15"},
		{"bare fallback with dots", "born 15.06.1990 in Amman", "1990-06-15"},
		{"too young", "DOB: 01/01/2020", ""},
		{"too old", "DOB: 01/01/1910", ""},
		{"implausible bare skipped for plausible later one", "03.03.2020 then 15.06.1990", "1990-06-15"},
		{"nothing date-like", "Name: Ahmed Al-Rashid", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractDateOfBirth(tt.text, currentYear))
		})
	}
}

func TestBareDOBIgnoresDashedTokens(t *testing.T) {
	// Emirates ID digit groups use dashes; the bare date fallback must
	// never read them as a date
	assert.Equal(t, "", extractDateOfBirth("784-1990-1234567-1", 2026))
}

func TestExtractIssueAndExpiryDates(t *testing.T) {
	text := "Issue Date: 01/01/2020\nExpiry Date: 01/01/2030"
	assert.Equal(t, "2020-01-01", extractIssueDate(text))
	assert.Equal(t, "2030-01-01", extractExpiryDate(text))

	assert.Equal(t, "2030-06-30", extractExpiryDate("Valid Until 30.06.2030"))
	assert.Equal(t, "2019-02-01", extractIssueDate("Issued on 2019-02-01"))

	// Issue and expiry have no bare fallback
	assert.Equal(t, "", extractIssueDate("01/01/2020"))
	assert.Equal(t, "", extractExpiryDate("01/01/2030"))
}
