package parser

import (
	"strings"

	"github.com/bridgeops/idscan-backend/internal/scan/domain"
)

// Confidence bounds for any extraction result
const (
	minConfidence = 0.30
	maxConfidence = 0.99
)

// scoreConfidence computes the heuristic confidence for an extracted
// document. The score is purely additive over the terms below and then
// clamped; it summarizes how much structured data was recovered, not
// OCR accuracy. Multiple ID-number fields stack.
func scoreConfidence(doc *domain.ExtractedDocument, rawText string) float64 {
	score := 0.50

	if doc.EmiratesID != "" {
		score += 0.20
	}
	if doc.LicenseNumber != "" {
		score += 0.20
	}
	if doc.PassportNumber != "" {
		score += 0.20
	}
	if doc.FullName != "" {
		score += 0.15
	}
	if doc.DateOfBirth != "" {
		score += 0.10
	}
	if doc.DocumentType != domain.DocumentTypeUnknown {
		score += 0.10
	}

	if len(rawText) < 50 {
		score -= 0.20
	}
	if strings.Contains(rawText, "???") || strings.Contains(rawText, "###") {
		score -= 0.10
	}

	if score < minConfidence {
		return minConfidence
	}
	if score > maxConfidence {
		return maxConfidence
	}
	return score
}
