// Package parser turns a raw OCR transcript into a structured document
// record. Classification, field extraction, date normalization and
// confidence scoring are all pure functions of the transcript; the only
// injected effects are the clock and the employee ID source, so the
// same text always yields the same record under a fixed configuration.
package parser

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/bridgeops/idscan-backend/internal/scan/domain"
	"github.com/bridgeops/idscan-backend/pkg/errors"
)

// EmployeeIDFunc synthesizes a back-office employee reference for
// documents that produced at least one ID number. Injected so callers
// control determinism; the production default draws a random suffix.
type EmployeeIDFunc func(year int) string

// Parser extracts structured fields from recognition transcripts
type Parser struct {
	now        func() time.Time
	employeeID EmployeeIDFunc
}

// Option configures a Parser
type Option func(*Parser)

// WithClock overrides the parser's clock. Tests use a fixed clock to
// make ExtractedAt and the DOB plausibility window deterministic.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) { p.now = now }
}

// WithEmployeeIDSource overrides employee ID synthesis
func WithEmployeeIDSource(fn EmployeeIDFunc) Option {
	return func(p *Parser) { p.employeeID = fn }
}

// New creates a parser with the given options
func New(opts ...Option) *Parser {
	p := &Parser{
		now:        time.Now,
		employeeID: randomEmployeeID,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse derives an ExtractedDocument from transcript text. Extractors
// run unconditionally; a field that finds no match is simply absent,
// never an error. Empty or whitespace-only input is the one failure
// mode: there is nothing to parse, which reads as a recognition
// failure to the caller.
func (p *Parser) Parse(text string) (*domain.ExtractedDocument, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.Recognition("no recognizable content")
	}

	now := p.now().UTC()

	doc := &domain.ExtractedDocument{
		DocumentType: classify(text),
		RawText:      text,
		ExtractedAt:  now,
	}

	doc.EmiratesID = extractEmiratesID(text)
	doc.LicenseNumber = extractLicenseNumber(text)
	doc.PassportNumber = extractPassportNumber(text)
	doc.FullName = extractFullName(text)
	doc.Nationality = extractNationality(text)
	doc.Gender = extractGender(text)
	doc.LicenseClass = extractLicenseClass(text)
	doc.DateOfBirth = extractDateOfBirth(text, now.Year())
	doc.IssueDate = extractIssueDate(text)
	doc.ExpiryDate = extractExpiryDate(text)

	// Only documents that yielded an ID number get an employee reference
	if doc.EmiratesID != "" || doc.LicenseNumber != "" || doc.PassportNumber != "" {
		doc.EmployeeID = p.employeeID(now.Year())
	}

	doc.Confidence = scoreConfidence(doc, text)

	return doc, nil
}

// randomEmployeeID is the production employee ID source
func randomEmployeeID(year int) string {
	var buf [2]byte
	rand.Read(buf[:])
	n := binary.BigEndian.Uint16(buf[:]) % 10000
	return fmt.Sprintf("EMP-%d-%04d", year, n)
}
