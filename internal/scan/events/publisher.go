package events

import (
	"context"

	"github.com/bridgeops/idscan-backend/internal/scan/domain"
	"github.com/bridgeops/idscan-backend/pkg/logger"
	"github.com/bridgeops/idscan-backend/pkg/messaging"
)

// ScanEventPublisher publishes scan lifecycle events
type ScanEventPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewScanEventPublisher creates a new scan event publisher
func NewScanEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*ScanEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeScanEvents, "scanner-service", log)
	if err != nil {
		return nil, err
	}

	return &ScanEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// ScanCompleted publishes a scan completed event. The document payload
// stays behind the API; the event only names what was extracted.
func (p *ScanEventPublisher) ScanCompleted(ctx context.Context, scan *domain.Scan, durationMs int64) {
	if scan.Document == nil {
		return
	}

	data := messaging.ScanCompletedEvent{
		ScanID:          scan.ID,
		DocumentType:    string(scan.Document.DocumentType),
		FieldsExtracted: scan.Document.ExtractedFieldKeys(),
		Confidence:      scan.Document.Confidence,
		Attempt:         scan.Attempt,
		DurationMs:      durationMs,
	}

	if err := p.publisher.Publish(ctx, messaging.EventScanCompleted, data); err != nil {
		p.logger.Error().Err(err).Str("scan_id", scan.ID).Msg("failed to publish scan completed event")
	}
}

// ScanFailed publishes a scan failed event
func (p *ScanEventPublisher) ScanFailed(ctx context.Context, scanID, code, message string, attempt int) {
	data := messaging.ScanFailedEvent{
		ScanID:  scanID,
		Code:    code,
		Message: message,
		Attempt: attempt,
	}

	if err := p.publisher.Publish(ctx, messaging.EventScanFailed, data); err != nil {
		p.logger.Error().Err(err).Str("scan_id", scanID).Msg("failed to publish scan failed event")
	}
}

// ScanCleared publishes a scan cleared event
func (p *ScanEventPublisher) ScanCleared(ctx context.Context, scanID string) {
	data := messaging.ScanClearedEvent{ScanID: scanID}

	if err := p.publisher.Publish(ctx, messaging.EventScanCleared, data); err != nil {
		p.logger.Error().Err(err).Str("scan_id", scanID).Msg("failed to publish scan cleared event")
	}
}
