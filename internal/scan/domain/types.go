package domain

import "time"

// DocumentType represents the classified type of a scanned document
type DocumentType string

const (
	DocumentTypeEmiratesID    DocumentType = "emirates_id"
	DocumentTypeDriverLicense DocumentType = "driver_license"
	DocumentTypePassport      DocumentType = "passport"
	DocumentTypeNationalID    DocumentType = "national_id"
	DocumentTypeUnknown       DocumentType = "unknown"
)

// Gender values normalized from document text. Unlabelled values pass
// through title-cased.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
)

// ScanStatus represents the lifecycle state of a scan session
type ScanStatus string

const (
	StatusUploading   ScanStatus = "uploading"
	StatusRecognizing ScanStatus = "recognizing"
	StatusParsed      ScanStatus = "parsed"
	StatusFailed      ScanStatus = "failed"
)

// ProgressEvent reports recognition progress. Events carry UI feedback
// only; parsing never depends on them.
type ProgressEvent struct {
	Phase    string  `json:"phase"`
	Fraction float64 `json:"fraction"`
}

// RecognitionResult is the output of one recognition call: the full OCR
// transcript plus the progress events observed while producing it.
// Immutable once returned.
type RecognitionResult struct {
	Text   string
	Events []ProgressEvent
}

// ExtractedDocument is the structured record derived from a transcript.
// Every field is independently optional; absent fields are empty. The
// record is a pure function of the transcript (plus the injected clock
// and employee ID source) and is replaced wholesale on re-scan.
type ExtractedDocument struct {
	DocumentType   DocumentType `json:"document_type"`
	EmiratesID     string       `json:"emirates_id,omitempty"`
	LicenseNumber  string       `json:"license_number,omitempty"`
	PassportNumber string       `json:"passport_number,omitempty"`
	EmployeeID     string       `json:"employee_id,omitempty"`
	FullName       string       `json:"full_name,omitempty"`
	Nationality    string       `json:"nationality,omitempty"`
	Gender         string       `json:"gender,omitempty"`
	LicenseClass   string       `json:"license_class,omitempty"`
	DateOfBirth    string       `json:"date_of_birth,omitempty"`
	IssueDate      string       `json:"issue_date,omitempty"`
	ExpiryDate     string       `json:"expiry_date,omitempty"`
	Confidence     float64      `json:"confidence"`
	RawText        string       `json:"raw_text"`
	ExtractedAt    time.Time    `json:"extracted_at"`
}

// Scan is one scan session: the uploaded image bytes, the lifecycle
// state, and the result of the latest attempt. The image is retained so
// an explicit retry can re-submit the same bytes; it is zeroed when the
// session is cleared or evicted.
type Scan struct {
	ID          string             `json:"scan_id"`
	Status      ScanStatus         `json:"status"`
	Phase       string             `json:"phase,omitempty"`
	Progress    float64            `json:"progress"`
	Document    *ExtractedDocument `json:"document,omitempty"`
	ErrorCode   string             `json:"error_code,omitempty"`
	Error       string             `json:"error,omitempty"`
	Attempt     int                `json:"attempt"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Image       []byte             `json:"-"`
	ContentType string             `json:"-"`
}

// ExtractedFieldKeys lists which optional fields are present, for audit
// trails and events. Field names match the JSON tags.
func (d *ExtractedDocument) ExtractedFieldKeys() []string {
	var keys []string
	add := func(key, value string) {
		if value != "" {
			keys = append(keys, key)
		}
	}
	add("emirates_id", d.EmiratesID)
	add("license_number", d.LicenseNumber)
	add("passport_number", d.PassportNumber)
	add("employee_id", d.EmployeeID)
	add("full_name", d.FullName)
	add("nationality", d.Nationality)
	add("gender", d.Gender)
	add("license_class", d.LicenseClass)
	add("date_of_birth", d.DateOfBirth)
	add("issue_date", d.IssueDate)
	add("expiry_date", d.ExpiryDate)
	return keys
}
