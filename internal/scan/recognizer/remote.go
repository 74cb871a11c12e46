package recognizer

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/bridgeops/idscan-backend/internal/scan/domain"
)

// RemoteEngine performs OCR by sending images to a tesseract sidecar
// service. The sidecar streams NDJSON progress frames followed by one
// terminal frame carrying the transcript.
type RemoteEngine struct {
	baseURL    string
	httpClient *http.Client
}

// NewRemoteEngine creates an engine client for the given sidecar base URL.
// The HTTP client carries no timeout of its own; the caller bounds each
// recognition through the context.
func NewRemoteEngine(baseURL string) *RemoteEngine {
	return &RemoteEngine{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

func (e *RemoteEngine) Name() string { return "tesseract-remote" }

// ocrFrame mirrors one NDJSON line from the sidecar stream
type ocrFrame struct {
	Phase    string  `json:"phase"`
	Progress float64 `json:"progress"`
	Text     string  `json:"text,omitempty"`
	Error    string  `json:"error,omitempty"`
}

func (e *RemoteEngine) Recognize(ctx context.Context, image []byte, languages []string, progress ProgressFunc) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "document.bin")
	if err != nil {
		return "", fmt.Errorf("ocr: create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return "", fmt.Errorf("ocr: write image data: %w", err)
	}
	if err := writer.WriteField("languages", strings.Join(languages, ",")); err != nil {
		return "", fmt.Errorf("ocr: write languages field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("ocr: close multipart writer: %w", err)
	}

	url := e.baseURL + "/api/v1/ocr"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return "", fmt.Errorf("ocr: create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr: engine request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("ocr: engine returned %d: %s", resp.StatusCode, string(respBody))
	}

	return e.readStream(resp.Body, progress)
}

// readStream consumes the NDJSON frame stream. Every non-terminal frame
// is forwarded as a progress event; the terminal frame ("done") carries
// the transcript.
func (e *RemoteEngine) readStream(r io.Reader, progress ProgressFunc) (string, error) {
	scanner := bufio.NewScanner(r)
	// Transcripts arrive in a single frame and can be large
	scanner.Buffer(make([]byte, 0, 64*1024), 4<<20)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var frame ocrFrame
		if err := json.Unmarshal(line, &frame); err != nil {
			return "", fmt.Errorf("ocr: malformed engine frame: %w", err)
		}

		if frame.Error != "" {
			return "", fmt.Errorf("ocr: engine error: %s", frame.Error)
		}

		if frame.Phase == "done" {
			if progress != nil {
				progress(domain.ProgressEvent{Phase: frame.Phase, Fraction: 1.0})
			}
			return frame.Text, nil
		}

		if progress != nil {
			progress(domain.ProgressEvent{Phase: frame.Phase, Fraction: frame.Progress})
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("ocr: read engine stream: %w", err)
	}

	return "", fmt.Errorf("ocr: engine stream ended without a terminal frame")
}
