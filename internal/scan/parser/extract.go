package parser

import (
	"regexp"
	"strings"
)

// rule pairs a pattern with a normalizer. The normalizer receives the
// submatch slice and may veto the candidate by returning ok=false, in
// which case the cascade moves on to the next candidate.
type rule struct {
	re   *regexp.Regexp
	norm func(m []string) (string, bool)
}

// firstMatch evaluates an ordered rule cascade over the text. Rules are
// tried in order; within a rule, candidates are tried in text order.
// The first candidate that survives its normalizer wins.
func firstMatch(text string, rules []rule) (string, bool) {
	for _, r := range rules {
		for _, m := range r.re.FindAllStringSubmatch(text, -1) {
			if v, ok := r.norm(m); ok {
				return v, true
			}
		}
	}
	return "", false
}

// --- Emirates ID ---

var emiratesIDRules = []rule{
	// Full form with the 784 prefix, any of dash/space/colon separators
	{
		re:   regexp.MustCompile(`\b784[-\s:]?\d{4}[-\s:]?\d{7}[-\s:]?\d\b`),
		norm: func(m []string) (string, bool) { return formatEmiratesID(digitsOf(m[0])) },
	},
	// Prefix-less form: birth year + serial + check digit
	{
		re:   regexp.MustCompile(`\b\d{4}[-\s]\d{7}[-\s]\d\b`),
		norm: func(m []string) (string, bool) { return formatEmiratesID(digitsOf(m[0])) },
	},
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// formatEmiratesID renders the canonical 784-YYYY-NNNNNNN-C form,
// supplying the implicit 784 prefix for 12-digit candidates.
func formatEmiratesID(digits string) (string, bool) {
	switch len(digits) {
	case 15:
		if !strings.HasPrefix(digits, "784") {
			return "", false
		}
		return "784-" + digits[3:7] + "-" + digits[7:14] + "-" + digits[14:], true
	case 12:
		return "784-" + digits[0:4] + "-" + digits[4:11] + "-" + digits[11:], true
	default:
		return "", false
	}
}

func extractEmiratesID(text string) string {
	v, _ := firstMatch(text, emiratesIDRules)
	return v
}

// --- License number ---

var licenseNumberRules = []rule{
	{
		re:   regexp.MustCompile(`(?i)licen[cs]e\s*(?:no|number|#)?\s*[:.]?\s*([A-Za-z0-9]{6,12})\b`),
		norm: func(m []string) (string, bool) { return strings.ToUpper(m[1]), true },
	},
	{
		re:   regexp.MustCompile(`\bDL\s*[:.]?\s*([A-Za-z0-9]{6,12})\b`),
		norm: func(m []string) (string, bool) { return strings.ToUpper(m[1]), true },
	},
	// Standalone two-letter prefix + numeric body
	{
		re:   regexp.MustCompile(`\b([A-Z]{2}\d{6,9})\b`),
		norm: func(m []string) (string, bool) { return m[1], true },
	},
}

func extractLicenseNumber(text string) string {
	v, _ := firstMatch(text, licenseNumberRules)
	return v
}

// --- Passport number ---

var passportNumberRules = []rule{
	{
		re:   regexp.MustCompile(`(?i)passport\s*(?:no|number|#)?\s*[:.]?\s*([A-Za-z]{1,2}\d{6,9})\b`),
		norm: func(m []string) (string, bool) { return strings.ToUpper(m[1]), true },
	},
	{
		re:   regexp.MustCompile(`\bP\s*:\s*([A-Za-z]{1,2}\d{6,9})\b`),
		norm: func(m []string) (string, bool) { return strings.ToUpper(m[1]), true },
	},
}

func extractPassportNumber(text string) string {
	v, _ := firstMatch(text, passportNumberRules)
	return v
}

// --- Full name ---

// Words that disqualify a name candidate: they are document boilerplate,
// not people. Matched per word so they never reject a real name that
// merely contains one as a substring.
var nameStoplist = map[string]bool{
	"EMIRATES": true,
	"PASSPORT": true,
	"LICENSE":  true,
	"LICENCE":  true,
	"UNITED":   true,
	"ARAB":     true,
	"IDENTITY": true,
	"CARD":     true,
	"DRIVING":  true,
	"NATIONAL": true,
}

var fullNameRules = []rule{
	// Labeled capture; also covers "Full Name:" and "Surname:"
	{
		re:   regexp.MustCompile(`(?i)name\s*:\s*([^\r\n]{2,60})`),
		norm: nameCandidate,
	},
	// A shouting line of its own, the way card fronts print names
	{
		re:   regexp.MustCompile(`(?m)^([A-Z][A-Z \-'.]{9,49})$`),
		norm: nameCandidate,
	},
	// Mixed-case multi-word, allowing Al-/Bin/Ibn infixes
	{
		re:   regexp.MustCompile(`\b([A-Z][a-z]+(?: (?:(?:Al|Bin|Ibn|AL|BIN|IBN)[- ])?[A-Z][a-z]+(?:-[A-Z][a-z]+)?){1,3})\b`),
		norm: nameCandidate,
	},
}

func nameCandidate(m []string) (string, bool) {
	name := strings.TrimSpace(strings.Trim(strings.TrimSpace(m[1]), ".,:;"))
	if len(name) <= 5 {
		return "", false
	}
	if len(strings.Fields(name)) < 2 {
		return "", false
	}
	for _, word := range strings.Fields(strings.ToUpper(name)) {
		if nameStoplist[word] {
			return "", false
		}
	}
	return name, true
}

func extractFullName(text string) string {
	v, _ := firstMatch(text, fullNameRules)
	return v
}

// --- Nationality ---

var nationalityRules = []rule{
	{
		re: regexp.MustCompile(`(?i)\b(?:nationality|nation|country)\b\s*[:.]?\s*([A-Za-z][A-Za-z ]{2,24})`),
		norm: func(m []string) (string, bool) {
			v := strings.TrimSpace(m[1])
			if strings.Contains(strings.ToUpper(v), "EMIRATES") {
				return "", false
			}
			if len(v) < 3 {
				return "", false
			}
			return v, true
		},
	},
}

func extractNationality(text string) string {
	v, _ := firstMatch(text, nationalityRules)
	return v
}

// --- Gender ---

var genderRules = []rule{
	{
		re: regexp.MustCompile(`(?i)\b(?:sex|gender)\b\s*[:.]?\s*([A-Za-z]+)`),
		norm: func(m []string) (string, bool) {
			switch strings.ToUpper(m[1]) {
			case "M", "MALE":
				return "Male", true
			case "F", "FEMALE":
				return "Female", true
			}
			return titleWord(m[1]), true
		},
	},
}

func titleWord(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

func extractGender(text string) string {
	v, _ := firstMatch(text, genderRules)
	return v
}

// --- License class ---

var licenseClassRules = []rule{
	{
		re: regexp.MustCompile(`(?i)\b(?:class|category|type)\b\s*[:.]?\s*([A-Za-z0-9]{1,3})\b`),
		norm: func(m []string) (string, bool) {
			return "Class " + strings.ToUpper(m[1]), true
		},
	},
}

func extractLicenseClass(text string) string {
	v, _ := firstMatch(text, licenseClassRules)
	return v
}
