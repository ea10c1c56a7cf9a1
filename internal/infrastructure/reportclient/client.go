// Package reportclient talks to the POS report service over HTTP.
package reportclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	reportapp "github.com/erp/pos-reports/internal/application/report"
	"github.com/erp/pos-reports/internal/domain/report"
	infraconfig "github.com/erp/pos-reports/internal/infrastructure/config"
)

// Ensure Client implements Collaborator
var _ reportapp.Collaborator = (*Client)(nil)

const (
	defaultTimeout          = 30 * time.Second
	defaultMaxResponseBytes = 32 << 20
	dateLayout              = "2006-01-02"
)

var (
	// ErrResponseTooLarge is returned when a payload exceeds the size cap
	ErrResponseTooLarge = errors.New("report service response exceeds size limit")
	// ErrInvalidPayload is returned when the body is not a JSON object
	ErrInvalidPayload = errors.New("report service returned an invalid payload")
)

// ServiceError is a non-2xx answer from the report service
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("report service: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("report service: HTTP %d - %s", e.StatusCode, e.Message)
}

// UserMessage returns the message the server sent for the operator
func (e *ServiceError) UserMessage() string {
	return e.Message
}

// Client fetches report payloads from the report service
type Client struct {
	baseURL          *url.URL
	token            string
	maxResponseBytes int64
	httpClient       *http.Client
	logger           *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client from the report_service configuration
func NewClient(cfg infraconfig.ReportServiceConfig, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid report service base URL %q", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxBytes := cfg.MaxResponseBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxResponseBytes
	}

	c := &Client{
		baseURL:          base,
		token:            cfg.Token,
		maxResponseBytes: maxBytes,
		httpClient:       &http.Client{Timeout: timeout},
		logger:           zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchReport implements Collaborator. A JSON null body yields a nil map.
func (c *Client) FetchReport(ctx context.Context, t report.Type, subtype report.Subtype, filters report.Filters) (map[string]any, error) {
	body, err := c.fetchRaw(ctx, t, subtype, filters)
	if err != nil {
		return nil, err
	}
	return decodePayload(body)
}

// fetchRaw performs the request and returns the raw response body
func (c *Client) fetchRaw(ctx context.Context, t report.Type, subtype report.Subtype, filters report.Filters) ([]byte, error) {
	endpoint := c.endpoint(t, subtype, filters)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("report service: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("report service request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("report service: failed to read response: %w", err)
	}
	if int64(len(body)) > c.maxResponseBytes {
		return nil, fmt.Errorf("%w (%d bytes)", ErrResponseTooLarge, c.maxResponseBytes)
	}

	c.logger.Debug("Report service responded",
		zap.String("type", t.String()),
		zap.String("subtype", subtype.String()),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ServiceError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}
	return body, nil
}

// endpoint builds the request URL. Branch-scoped reports live under
// /sucursales/{id}; absent filters are omitted.
func (c *Client) endpoint(t report.Type, subtype report.Subtype, filters report.Filters) string {
	u := *c.baseURL
	path := "/reportes/" + url.PathEscape(t.String())
	if filters.BranchID != nil {
		path = "/sucursales/" + strconv.FormatInt(*filters.BranchID, 10) + path
	}
	u.Path = strings.TrimRight(u.Path, "/") + path

	return u.String() + encodeQuery(subtype, filters)
}

func encodeQuery(subtype report.Subtype, filters report.Filters) string {
	q := url.Values{}
	if subtype != "" {
		q.Set("subtipo", subtype.String())
	}
	if filters.StartDate != nil {
		q.Set("fecha_inicio", filters.StartDate.Format(dateLayout))
	}
	if filters.EndDate != nil {
		q.Set("fecha_fin", filters.EndDate.Format(dateLayout))
	}
	if filters.CategoryID != nil {
		q.Set("categoria_id", strconv.FormatInt(*filters.CategoryID, 10))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// decodePayload parses the body as a JSON object. A {"success":..,"data":{..}}
// envelope is unwrapped. Numbers stay json.Number so large ids and amounts
// keep every digit.
func decodePayload(body []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var payload map[string]any
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after object", ErrInvalidPayload)
	}

	if _, enveloped := payload["success"]; enveloped {
		switch data := payload["data"].(type) {
		case map[string]any:
			return data, nil
		case nil:
			return nil, nil
		}
	}
	return payload, nil
}

// errorMessage extracts the "message" or "error" field of an error body
func errorMessage(body []byte) string {
	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return ""
	}
	for _, key := range []string{"message", "error"} {
		switch v := parsed[key].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case map[string]any:
			if s, ok := v["message"].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}
