package parser

import (
	"strings"

	"github.com/bridgeops/idscan-backend/internal/scan/domain"
)

// Keyword sets per document class, checked in priority order. The first
// class with any keyword present wins; there is no scoring across
// classes.
var documentClasses = []struct {
	docType  domain.DocumentType
	keywords []string
}{
	{domain.DocumentTypeEmiratesID, []string{"emirates id", "uae identity", "identity card", "784-"}},
	{domain.DocumentTypeDriverLicense, []string{"driving licen", "driver licen", "license no", "licence no"}},
	{domain.DocumentTypePassport, []string{"passport"}},
	{domain.DocumentTypeNationalID, []string{"national id", "national identity"}},
}

// classify assigns a document type from raw transcript text using
// case-insensitive keyword presence.
func classify(text string) domain.DocumentType {
	lower := strings.ToLower(text)
	for _, class := range documentClasses {
		for _, kw := range class.keywords {
			if strings.Contains(lower, kw) {
				return class.docType
			}
		}
	}
	return domain.DocumentTypeUnknown
}
