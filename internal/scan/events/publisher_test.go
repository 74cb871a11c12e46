package events_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/bridgeops/idscan-backend/internal/scan/domain"
	"github.com/bridgeops/idscan-backend/pkg/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanCompletedEvent_PayloadFromScan(t *testing.T) {
	scan := &domain.Scan{
		ID:      "abc123",
		Status:  domain.StatusParsed,
		Attempt: 2,
		Document: &domain.ExtractedDocument{
			DocumentType: domain.DocumentTypeEmiratesID,
			EmiratesID:   "784-1990-1234567-1",
			FullName:     "Ahmed Al-Rashid",
			Confidence:   0.99,
			ExtractedAt:  time.Now().UTC(),
		},
	}

	// Build the payload the way ScanCompleted does
	event := messaging.ScanCompletedEvent{
		ScanID:          scan.ID,
		DocumentType:    string(scan.Document.DocumentType),
		FieldsExtracted: scan.Document.ExtractedFieldKeys(),
		Confidence:      scan.Document.Confidence,
		Attempt:         scan.Attempt,
		DurationMs:      1200,
	}

	assert.Equal(t, "abc123", event.ScanID)
	assert.Equal(t, "emirates_id", event.DocumentType)
	assert.Equal(t, []string{"emirates_id", "full_name"}, event.FieldsExtracted)
	assert.Equal(t, 2, event.Attempt)

	// The raw transcript and image must never leave through an event
	data, err := json.Marshal(event)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "raw_text")
	assert.NotContains(t, string(data), "Ahmed")
}

func TestScanFailedEvent_Payload(t *testing.T) {
	event := messaging.ScanFailedEvent{
		ScanID:  "abc123",
		Code:    "RECOGNITION_FAILED",
		Message: "recognition timed out",
		Attempt: 1,
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var parsed messaging.ScanFailedEvent
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, event, parsed)
}

func TestEventEnvelope(t *testing.T) {
	payload := messaging.ScanClearedEvent{ScanID: "abc123"}

	event, err := messaging.NewEvent(messaging.EventScanCleared, "scanner-service", "corr-1", payload)
	require.NoError(t, err)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "scan.cleared", event.Type)
	assert.Equal(t, "scanner-service", event.Source)
	assert.Equal(t, "corr-1", event.CorrelationID)
	assert.False(t, event.Timestamp.IsZero())

	var data messaging.ScanClearedEvent
	require.NoError(t, json.Unmarshal(event.Data, &data))
	assert.Equal(t, "abc123", data.ScanID)
}
