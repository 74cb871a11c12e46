package recognizer

import (
	"context"

	"github.com/bridgeops/idscan-backend/internal/scan/domain"
)

// ProgressFunc receives progress events while a recognition is running.
// Implementations must not block; the engine calls it inline.
type ProgressFunc func(domain.ProgressEvent)

// Engine is the OCR integration boundary. Implementations turn a raster
// image into a raw transcript, reporting coarse progress along the way.
// The engine is a black box: it owns nothing beyond the duration of one
// Recognize call and must honor context cancellation.
type Engine interface {
	// Recognize performs OCR on image bytes with the given language
	// hints and returns the raw transcript.
	Recognize(ctx context.Context, image []byte, languages []string, progress ProgressFunc) (string, error)

	// Name returns the engine name for logging
	Name() string
}
