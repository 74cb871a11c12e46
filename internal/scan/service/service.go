// Package service orchestrates the scan lifecycle: upload → recognize →
// parse → terminal state, with explicit retry and clear. Recognition
// runs in a background goroutine; every attempt is tagged with a
// generation number so progress callbacks from a superseded attempt are
// discarded instead of overwriting newer state.
package service

import (
	"context"
	"time"

	"github.com/bridgeops/idscan-backend/internal/scan/domain"
	"github.com/bridgeops/idscan-backend/internal/scan/parser"
	"github.com/bridgeops/idscan-backend/internal/scan/recognizer"
	"github.com/bridgeops/idscan-backend/internal/scan/repository"
	"github.com/bridgeops/idscan-backend/internal/scan/storage"
	"github.com/bridgeops/idscan-backend/pkg/errors"
	"github.com/bridgeops/idscan-backend/pkg/logger"
)

// AuditRecorder persists terminal scan attempts
type AuditRecorder interface {
	Insert(ctx context.Context, entry *repository.AuditEntry) error
}

// EventPublisher announces terminal scan states to downstream consumers
type EventPublisher interface {
	ScanCompleted(ctx context.Context, scan *domain.Scan, durationMs int64)
	ScanFailed(ctx context.Context, scanID, code, message string, attempt int)
	ScanCleared(ctx context.Context, scanID string)
}

// Service coordinates recognition, parsing, storage, audit and events
type Service struct {
	adapter *recognizer.Adapter
	parser  *parser.Parser
	store   *storage.Store
	audits  AuditRecorder
	events  EventPublisher
	log     *logger.Logger
}

// New creates a new scan service
func New(adapter *recognizer.Adapter, p *parser.Parser, store *storage.Store, audits AuditRecorder, events EventPublisher, log *logger.Logger) *Service {
	return &Service{
		adapter: adapter,
		parser:  p,
		store:   store,
		audits:  audits,
		events:  events,
		log:     log,
	}
}

// Upload validates a fresh image and starts its first recognition
// attempt. Validation failures reject the upload before any engine
// call; nothing is stored in that case.
func (s *Service) Upload(ctx context.Context, image []byte, contentType string) (*domain.Scan, error) {
	if err := s.adapter.ValidateImage(image, contentType); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	scan := &domain.Scan{
		ID:          storage.GenerateScanID(),
		Status:      domain.StatusUploading,
		Attempt:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
		Image:       image,
		ContentType: contentType,
	}
	s.store.Put(scan)

	s.log.Info().
		Str("scan_id", scan.ID).
		Int("image_bytes", len(image)).
		Msg("scan session created")

	go s.run(scan.ID, scan.Attempt, image, contentType)

	return s.store.Get(scan.ID), nil
}

// Get returns a snapshot of the scan session
func (s *Service) Get(scanID string) (*domain.Scan, error) {
	scan := s.store.Get(scanID)
	if scan == nil {
		return nil, errors.NotFound("scan")
	}
	return scan, nil
}

// Retry re-runs recognition on the stored image bytes. Only terminal
// sessions can be retried; a session with an attempt in flight is left
// alone. The status check runs inside the store lock so two racing
// retries can never both start an attempt.
func (s *Service) Retry(ctx context.Context, scanID string) (*domain.Scan, error) {
	var (
		found       bool
		inFlight    bool
		attempt     int
		image       []byte
		contentType string
	)
	s.store.Update(scanID, func(sc *domain.Scan) {
		found = true
		if sc.Status == domain.StatusUploading || sc.Status == domain.StatusRecognizing {
			inFlight = true
			return
		}
		sc.Attempt++
		sc.Status = domain.StatusRecognizing
		sc.Phase = ""
		sc.Progress = 0
		sc.Document = nil
		sc.Error = ""
		sc.ErrorCode = ""
		attempt = sc.Attempt
		image = sc.Image
		contentType = sc.ContentType
	})
	if !found {
		return nil, errors.NotFound("scan")
	}
	if inFlight {
		return nil, errors.Conflict("recognition already in progress")
	}

	s.log.Info().Str("scan_id", scanID).Int("attempt", attempt).Msg("scan retry requested")

	go s.run(scanID, attempt, image, contentType)

	return s.store.Get(scanID), nil
}

// Clear discards a terminal session, zeroing its image bytes. The
// status check and the removal happen in one step under the store lock.
func (s *Service) Clear(ctx context.Context, scanID string) error {
	deleted, found := s.store.DeleteIf(scanID, func(sc *domain.Scan) bool {
		return sc.Status != domain.StatusUploading && sc.Status != domain.StatusRecognizing
	})
	if !found {
		return errors.NotFound("scan")
	}
	if !deleted {
		return errors.Conflict("recognition already in progress")
	}

	s.events.ScanCleared(context.Background(), scanID)
	s.log.Info().Str("scan_id", scanID).Msg("scan session cleared")
	return nil
}

// run executes one recognition attempt in the background. The request
// context is not used: a client disconnect must not kill an attempt the
// UI is polling for.
func (s *Service) run(scanID string, attempt int, image []byte, contentType string) {
	ctx := context.Background()
	start := time.Now()

	s.applyIfCurrent(scanID, attempt, func(sc *domain.Scan) {
		sc.Status = domain.StatusRecognizing
	})

	onProgress := func(ev domain.ProgressEvent) {
		s.applyIfCurrent(scanID, attempt, func(sc *domain.Scan) {
			sc.Phase = ev.Phase
			sc.Progress = ev.Fraction
		})
	}

	result, err := s.adapter.Recognize(ctx, image, contentType, onProgress)
	if err != nil {
		s.finishFailed(ctx, scanID, attempt, err, start)
		return
	}

	doc, err := s.parser.Parse(result.Text)
	if err != nil {
		s.finishFailed(ctx, scanID, attempt, err, start)
		return
	}

	durationMs := time.Since(start).Milliseconds()

	current := s.applyIfCurrent(scanID, attempt, func(sc *domain.Scan) {
		sc.Status = domain.StatusParsed
		sc.Progress = 1.0
		sc.Phase = "done"
		sc.Document = doc
	})
	if !current {
		s.log.Debug().Str("scan_id", scanID).Int("attempt", attempt).Msg("discarding result of superseded attempt")
		return
	}

	scan := s.store.Get(scanID)
	if scan != nil {
		s.events.ScanCompleted(ctx, scan, durationMs)
		s.writeAudit(ctx, scan, durationMs, "")
	}

	s.log.Info().
		Str("scan_id", scanID).
		Int("attempt", attempt).
		Str("document_type", string(doc.DocumentType)).
		Int("fields_extracted", len(doc.ExtractedFieldKeys())).
		Float64("confidence", doc.Confidence).
		Int64("duration_ms", durationMs).
		Msg("scan parsed")
}

func (s *Service) finishFailed(ctx context.Context, scanID string, attempt int, err error, start time.Time) {
	code := "RECOGNITION_FAILED"
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		code = appErr.Code
	}
	message := err.Error()
	if appErr != nil {
		message = appErr.Message
	}

	current := s.applyIfCurrent(scanID, attempt, func(sc *domain.Scan) {
		sc.Status = domain.StatusFailed
		sc.ErrorCode = code
		sc.Error = message
		sc.Document = nil
	})
	if !current {
		return
	}

	s.events.ScanFailed(ctx, scanID, code, message, attempt)

	scan := s.store.Get(scanID)
	if scan != nil {
		s.writeAudit(ctx, scan, time.Since(start).Milliseconds(), message)
	}

	s.log.Warn().
		Err(err).
		Str("scan_id", scanID).
		Int("attempt", attempt).
		Msg("scan attempt failed")
}

// applyIfCurrent mutates the scan only when the given attempt is still
// the latest one. Returns whether the mutation was applied. This is the
// ordering guarantee: callbacks and results from a superseded attempt
// never touch newer state.
func (s *Service) applyIfCurrent(scanID string, attempt int, update func(*domain.Scan)) bool {
	applied := false
	s.store.Update(scanID, func(sc *domain.Scan) {
		if sc.Attempt != attempt {
			return
		}
		applied = true
		update(sc)
	})
	return applied
}

func (s *Service) writeAudit(ctx context.Context, scan *domain.Scan, durationMs int64, errorMessage string) {
	entry := &repository.AuditEntry{
		ScanID:       scan.ID,
		Status:       string(scan.Status),
		Attempt:      scan.Attempt,
		DurationMs:   durationMs,
		ErrorMessage: errorMessage,
	}
	if scan.Document != nil {
		entry.DocumentType = string(scan.Document.DocumentType)
		entry.FieldsExtracted = scan.Document.ExtractedFieldKeys()
		entry.Confidence = scan.Document.Confidence
	}

	if err := s.audits.Insert(ctx, entry); err != nil {
		s.log.Error().Err(err).Str("scan_id", scan.ID).Msg("failed to write scan audit entry")
	}
}
