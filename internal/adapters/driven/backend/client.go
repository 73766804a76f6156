package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/refsheet-cli/internal/core/domain"
	"github.com/custodia-labs/refsheet-cli/internal/core/ports/driven"
	"github.com/custodia-labs/refsheet-cli/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.Backend = (*Client)(nil)

// Endpoint paths relative to the base URL.
const (
	AnalyzePath = "/api/analyze-practice"
	SheetPath   = "/api/generate-reference-sheet"
)

// RequestIDHeader carries a per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody bounds how much of a non-JSON error body is reported.
const maxErrorBody = 500

// Config holds configuration for the backend client.
type Config struct {
	// BaseURL is the backend root (default: http://localhost:5000).
	BaseURL string

	// Timeout bounds a single request (default: 120s).
	Timeout time.Duration

	// HTTPClient overrides the client used for requests. Optional.
	HTTPClient *http.Client
}

// Client talks to the analysis backend over HTTP.
type Client struct {
	client  *http.Client
	baseURL string
}

// analyzeResponse is the /api/analyze-practice success body.
type analyzeResponse struct {
	Response      string   `json:"response"`
	TotalFiles    int      `json:"total_files"`
	FilesAnalyzed []string `json:"files_analyzed"`
	ModelUsed     string   `json:"model_used"`
}

// sheetRequest is the /api/generate-reference-sheet request body.
type sheetRequest struct {
	Analysis     string                   `json:"analysis"`
	Requirements domain.SheetRequirements `json:"requirements"`
}

// sheetResponse is the /api/generate-reference-sheet success body.
type sheetResponse struct {
	ReferenceSheet string `json:"reference_sheet"`
	ModelUsed      string `json:"model_used"`
	Quality        *struct {
		Score json.RawMessage `json:"score"`
	} `json:"quality"`
}

// errorResponse is the failure body shared by both endpoints.
type errorResponse struct {
	Error   string          `json:"error"`
	Details json.RawMessage `json:"details"`
}

// NewClient creates a new backend client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = domain.DefaultBackendURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = domain.DefaultBackendTimeout
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		client:  client,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Analyze uploads the files as repeated "files" multipart parts.
func (c *Client) Analyze(ctx context.Context, files []domain.UploadFile) (*domain.AnalysisResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	for i := range files {
		f := &files[i]
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, escapeQuotes(f.Name)))
		contentType := f.MIMEType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)

		part, err := mw.CreatePart(header)
		if err != nil {
			return nil, fmt.Errorf("create part %s: %w", f.Name, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, fmt.Errorf("write part %s: %w", f.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	var resp analyzeResponse
	if err := c.do(ctx, http.MethodPost, AnalyzePath, mw.FormDataContentType(), &body, &resp); err != nil {
		return nil, err
	}

	analyzed := resp.FilesAnalyzed
	if analyzed == nil {
		analyzed = []string{}
	}
	return &domain.AnalysisResult{
		Response:      resp.Response,
		TotalFiles:    resp.TotalFiles,
		FilesAnalyzed: analyzed,
		ModelUsed:     resp.ModelUsed,
	}, nil
}

// GenerateReferenceSheet requests a reference sheet for the analysis text.
func (c *Client) GenerateReferenceSheet(
	ctx context.Context,
	analysis string,
	req domain.SheetRequirements,
) (*domain.ReferenceSheet, error) {
	jsonBody, err := json.Marshal(sheetRequest{Analysis: analysis, Requirements: req})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var resp sheetResponse
	if err := c.do(ctx, http.MethodPost, SheetPath, "application/json", bytes.NewReader(jsonBody), &resp); err != nil {
		return nil, err
	}

	sheet := &domain.ReferenceSheet{
		Text:      resp.ReferenceSheet,
		ModelUsed: resp.ModelUsed,
	}
	if resp.Quality != nil {
		sheet.Quality = parseScore(resp.Quality.Score)
	}
	return sheet, nil
}

// Ping checks that the backend answers at its root.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set(RequestIDHeader, uuid.New().String())

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusInternalServerError {
		return &domain.BackendError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("Backend unhealthy (status %d).", resp.StatusCode),
		}
	}
	return nil
}

// do sends a request and decodes a 2xx JSON body into out.
func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.New().String()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	logger.Debug("%s %s (request %s)", method, path, requestID)
	start := time.Now()

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %w", domain.ErrTransport, err)
	}
	logger.Debug("%s %s -> %d in %s", method, path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeFailure(resp.StatusCode, respBody)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// truncateBody cuts body to at most maxErrorBody bytes without splitting
// a UTF-8 sequence.
func truncateBody(body []byte) string {
	if len(body) <= maxErrorBody {
		return string(body)
	}
	cut := maxErrorBody
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return string(body[:cut])
}

// decodeFailure turns a non-2xx response into a *domain.BackendError.
func decodeFailure(status int, body []byte) error {
	var failure errorResponse
	if err := json.Unmarshal(body, &failure); err != nil {
		return &domain.BackendError{
			StatusCode: status,
			Message:    fmt.Sprintf("Request failed with status %d.", status),
			Details:    strings.TrimSpace(truncateBody(body)),
		}
	}

	return &domain.BackendError{
		StatusCode: status,
		Message:    failure.Error,
		Details:    renderDetails(failure.Details),
	}
}

// renderDetails returns string details verbatim and anything else as
// JSON indented by two spaces. Missing and null details render empty.
func renderDetails(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}

	var text string
	if err := json.Unmarshal(trimmed, &text); err == nil {
		return text
	}

	var indented bytes.Buffer
	if err := json.Indent(&indented, trimmed, "", "  "); err != nil {
		return string(trimmed)
	}
	return indented.String()
}

// parseScore accepts a numeric or textual quality score.
func parseScore(raw json.RawMessage) *domain.SheetQuality {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var score float64
	if err := json.Unmarshal(trimmed, &score); err == nil {
		return &domain.SheetQuality{Score: score, Numeric: true}
	}

	var label string
	if err := json.Unmarshal(trimmed, &label); err == nil {
		return &domain.SheetQuality{Label: label}
	}

	return &domain.SheetQuality{Label: string(trimmed)}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
