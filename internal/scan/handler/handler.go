package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/bridgeops/idscan-backend/internal/scan/domain"
	"github.com/bridgeops/idscan-backend/internal/scan/repository"
	"github.com/bridgeops/idscan-backend/pkg/errors"
	"github.com/bridgeops/idscan-backend/pkg/httputil"
	"github.com/bridgeops/idscan-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// ScanService is the scan lifecycle surface the handler depends on
type ScanService interface {
	Upload(ctx context.Context, image []byte, contentType string) (*domain.Scan, error)
	Get(scanID string) (*domain.Scan, error)
	Retry(ctx context.Context, scanID string) (*domain.Scan, error)
	Clear(ctx context.Context, scanID string) error
}

// AuditLister lists recent audit entries
type AuditLister interface {
	ListRecent(ctx context.Context, limit int) ([]repository.AuditEntry, error)
}

// Handler handles HTTP requests for document scanning
type Handler struct {
	service    ScanService
	audits     AuditLister
	maxUpload  int64
	auditLimit int
	log        *logger.Logger
}

// NewHandler creates a new scan handler
func NewHandler(svc ScanService, audits AuditLister, maxUpload int64, auditLimit int, log *logger.Logger) *Handler {
	return &Handler{
		service:    svc,
		audits:     audits,
		maxUpload:  maxUpload,
		auditLimit: auditLimit,
		log:        log,
	}
}

// Routes mounts the scan endpoints on a chi router
func (h *Handler) Routes(r chi.Router) {
	r.Route("/scans", func(r chi.Router) {
		r.Post("/", h.Upload)
		r.Get("/audit", h.ListAudit)
		r.Route("/{scanId}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Post("/retry", h.Retry)
			r.Delete("/", h.Clear)
		})
	})
}

type uploadRequest struct {
	Filename    string `validate:"required,max=255"`
	ContentType string `validate:"omitempty,max=100"`
}

// Upload handles POST /scans
// Accepts a multipart form with a single "file" part: the document image.
// The stream is consumed part by part so the image stays in memory and
// nothing spills to a temp file.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	// Multipart framing overhead on top of the image limit
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+(1<<20))

	mr, err := r.MultipartReader()
	if err != nil {
		httputil.Error(w, errors.Validation("invalid multipart form"))
		return
	}

	var (
		image []byte
		req   uploadRequest
	)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			httputil.Error(w, errors.Validation("file too large or invalid multipart form"))
			return
		}
		if part.FormName() != "file" {
			part.Close()
			continue
		}

		req = uploadRequest{
			Filename:    part.FileName(),
			ContentType: part.Header.Get("Content-Type"),
		}
		image, err = io.ReadAll(io.LimitReader(part, h.maxUpload+1))
		part.Close()
		if err != nil {
			httputil.Error(w, errors.Validation("file too large or invalid multipart form"))
			return
		}
		break
	}

	if image == nil {
		httputil.Error(w, errors.Validation("missing file in request"))
		return
	}
	if int64(len(image)) > h.maxUpload {
		httputil.Error(w, errors.Validation("uploaded file exceeds the maximum allowed size"))
		return
	}
	if err := httputil.Validate(req); err != nil {
		httputil.Error(w, err)
		return
	}

	scan, err := h.service.Upload(r.Context(), image, req.ContentType)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Accepted(w, scan)
}

// Get handles GET /scans/{scanId}
// Returns the session status, progress and (when parsed) the document.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	scanID := chi.URLParam(r, "scanId")
	if scanID == "" {
		httputil.Error(w, errors.BadRequest("missing scanId parameter"))
		return
	}

	scan, err := h.service.Get(scanID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, scan)
}

// Retry handles POST /scans/{scanId}/retry
func (h *Handler) Retry(w http.ResponseWriter, r *http.Request) {
	scanID := chi.URLParam(r, "scanId")

	scan, err := h.service.Retry(r.Context(), scanID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Accepted(w, scan)
}

// Clear handles DELETE /scans/{scanId}
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	scanID := chi.URLParam(r, "scanId")

	if err := h.service.Clear(r.Context(), scanID); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}

// ListAudit handles GET /scans/audit
func (h *Handler) ListAudit(w http.ResponseWriter, r *http.Request) {
	entries, err := h.audits.ListRecent(r.Context(), h.auditLimit)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list scan audit entries")
		httputil.Error(w, errors.Internal("failed to list audit entries"))
		return
	}

	httputil.JSON(w, http.StatusOK, entries)
}
