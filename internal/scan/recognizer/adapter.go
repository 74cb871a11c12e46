package recognizer

import (
	"context"
	"mime"
	"strings"
	"time"

	"github.com/bridgeops/idscan-backend/internal/scan/domain"
	"github.com/bridgeops/idscan-backend/pkg/errors"
	"github.com/bridgeops/idscan-backend/pkg/logger"
	"github.com/gabriel-vasile/mimetype"
)

// Adapter wraps the OCR engine with the input contract the rest of the
// service relies on: image-only media types, a size ceiling, a bounded
// recognition timeout, monotonic progress, and a guaranteed terminal
// event. Engine failures and empty transcripts surface as recognition
// errors; invalid input is rejected before the engine is ever invoked.
type Adapter struct {
	engine    Engine
	languages []string
	maxBytes  int64
	timeout   time.Duration
	log       *logger.Logger
}

// NewAdapter creates a recognizer adapter around the given engine
func NewAdapter(engine Engine, languages []string, maxBytes int64, timeout time.Duration, log *logger.Logger) *Adapter {
	return &Adapter{
		engine:    engine,
		languages: languages,
		maxBytes:  maxBytes,
		timeout:   timeout,
		log:       log.WithComponent("recognizer"),
	}
}

// ValidateImage checks the upload constraints without touching the
// engine. The declared media type wins when present; generic or missing
// declarations fall back to content sniffing.
func (a *Adapter) ValidateImage(image []byte, declaredType string) error {
	if len(image) == 0 {
		return errors.Validation("uploaded file is empty")
	}
	if int64(len(image)) > a.maxBytes {
		return errors.Validation("uploaded file exceeds the maximum allowed size")
	}

	mediaType := strings.TrimSpace(declaredType)
	if mediaType != "" {
		if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
			mediaType = parsed
		}
	}
	if mediaType == "" || mediaType == "application/octet-stream" {
		mediaType = mimetype.Detect(image).String()
		if parsed, _, err := mime.ParseMediaType(mediaType); err == nil {
			mediaType = parsed
		}
	}

	if !strings.HasPrefix(mediaType, "image/") {
		return errors.Validation("uploaded file must be an image")
	}
	return nil
}

// Recognize runs one recognition attempt over the image and returns the
// transcript with the observed progress events. Progress fractions are
// strictly increasing and the final event always carries fraction 1.0.
// The call is bounded by the configured timeout; expiry is reported as a
// recognition failure, never retried here.
func (a *Adapter) Recognize(ctx context.Context, image []byte, declaredType string, progress ProgressFunc) (*domain.RecognitionResult, error) {
	if err := a.ValidateImage(image, declaredType); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var events []domain.ProgressEvent
	lastFraction := -1.0
	forward := func(ev domain.ProgressEvent) {
		// Drop out-of-order fractions so the stream stays monotonic
		if ev.Fraction <= lastFraction {
			return
		}
		if ev.Fraction > 1.0 {
			ev.Fraction = 1.0
		}
		lastFraction = ev.Fraction
		events = append(events, ev)
		if progress != nil {
			progress(ev)
		}
	}

	start := time.Now()
	text, err := a.engine.Recognize(ctx, image, a.languages, forward)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			a.log.Warn().Str("engine", a.engine.Name()).Dur("timeout", a.timeout).Msg("recognition timed out")
			return nil, errors.Recognition("recognition timed out")
		}
		return nil, errors.RecognitionWrap(err, "recognition failed")
	}

	if strings.TrimSpace(text) == "" {
		return nil, errors.Recognition("no recognizable content")
	}

	if lastFraction < 1.0 {
		forward(domain.ProgressEvent{Phase: "done", Fraction: 1.0})
	}

	a.log.Debug().
		Str("engine", a.engine.Name()).
		Int("transcript_len", len(text)).
		Dur("duration", time.Since(start)).
		Msg("recognition completed")

	return &domain.RecognitionResult{Text: text, Events: events}, nil
}
