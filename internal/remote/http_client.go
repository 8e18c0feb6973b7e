package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/michael-freling/testcase-generator/internal/logging"
)

const (
	// maxResponseBytes caps how much of a response body is read
	maxResponseBytes = 10 << 20
	// maxDetailRunes caps a non-JSON error body kept in StatusError
	maxDetailRunes = 200
	// RequestIDHeader carries a per-call id so client and backend logs can be correlated
	RequestIDHeader = "X-Request-ID"
)

// httpClient implements Client over JSON/HTTP
type httpClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     logging.Logger
	newID      func() string
}

// HTTPOption configures the HTTP client
type HTTPOption func(*httpClient)

// WithHTTPClient replaces the underlying *http.Client
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *httpClient) {
		h.httpClient = c
	}
}

// WithLogger sets the logger
func WithLogger(logger logging.Logger) HTTPOption {
	return func(h *httpClient) {
		h.logger = logger
	}
}

// WithRequestIDFunc overrides request id generation
func WithRequestIDFunc(fn func() string) HTTPOption {
	return func(h *httpClient) {
		h.newID = fn
	}
}

// NewHTTPClient creates a client for the service at baseURL, e.g. http://localhost:8000.
// Timeouts come from the caller's context.
func NewHTTPClient(baseURL string, opts ...HTTPOption) (Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}

	c := &httpClient{
		baseURL:    parsed,
		httpClient: &http.Client{},
		logger:     logging.NewNopLogger(),
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GenerateTestCases posts the requirements and returns the raw success body
func (c *httpClient) GenerateTestCases(ctx context.Context, req GenerateRequest) ([]byte, error) {
	return c.post(ctx, GeneratePath, req)
}

// AnalyzeCoverage posts both inputs and returns the raw success body
func (c *httpClient) AnalyzeCoverage(ctx context.Context, req AnalyzeRequest) ([]byte, error) {
	return c.post(ctx, AnalyzePath, req)
}

// Health queries the health endpoint
func (c *httpClient) Health(ctx context.Context) (*HealthStatus, error) {
	body, err := c.do(ctx, http.MethodGet, HealthPath, nil)
	if err != nil {
		return nil, err
	}

	var status HealthStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("failed to decode health response: %w", err)
	}
	return &status, nil
}

func (c *httpClient) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, data)
}

func (c *httpClient) do(ctx context.Context, method, path string, data []byte) ([]byte, error) {
	endpoint := c.baseURL.JoinPath(path).String()
	requestID := c.newID()

	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrRequestFailed, method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %w", ErrRequestFailed, err)
	}

	c.logger.Debug("remote call finished",
		"method", method,
		"path", path,
		"request_id", requestID,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Detail: errorDetail(respBody)}
	}
	return respBody, nil
}

// errorDetail extracts the "detail" of an error body and falls back to the trimmed body
func errorDetail(body []byte) string {
	var envelope struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Detail != "" {
		return envelope.Detail
	}
	detail := []rune(strings.TrimSpace(string(body)))
	if len(detail) > maxDetailRunes {
		return string(detail[:maxDetailRunes]) + "..."
	}
	return string(detail)
}
