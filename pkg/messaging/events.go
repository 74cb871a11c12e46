package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	// Scan events
	EventScanCompleted = "scan.completed"
	EventScanFailed    = "scan.failed"
	EventScanCleared   = "scan.cleared"
)

// Exchange names
const (
	ExchangeScanEvents = "scan.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            GenerateEventID(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// GenerateEventID creates a unique event ID
func GenerateEventID() string {
	return uuid.New().String()
}

// ScanCompletedEvent is published when a document scan finishes with a parsed result.
// The extracted document itself is not published; consumers fetch it over the API.
type ScanCompletedEvent struct {
	ScanID          string   `json:"scan_id"`
	DocumentType    string   `json:"document_type"`
	FieldsExtracted []string `json:"fields_extracted"`
	Confidence      float64  `json:"confidence"`
	Attempt         int      `json:"attempt"`
	DurationMs      int64    `json:"duration_ms"`
}

// ScanFailedEvent is published when a scan attempt ends in a terminal failure
type ScanFailedEvent struct {
	ScanID  string `json:"scan_id"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Attempt int    `json:"attempt"`
}

// ScanClearedEvent is published when a scan session is discarded by the user
type ScanClearedEvent struct {
	ScanID string `json:"scan_id"`
}
