package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/miirko99/translation-api/internal/schema"
)

const (
	// DefaultTimeout bounds every upstream call when no timeout is configured.
	DefaultTimeout = 10 * time.Second

	translatePath = "/translate"
	languagesPath = "/languages"
	domainsPath   = "/domains"

	maxResponseBytes = 4 << 20
)

// StatusError is returned when the upstream answers with a non-2xx status.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s endpoint status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s endpoint status %d: %s", e.Endpoint, e.StatusCode, e.Message)
}

// IsClientError reports whether the upstream rejected the request itself (4xx).
func (e *StatusError) IsClientError() bool {
	return e != nil && e.StatusCode >= 400 && e.StatusCode < 500
}

// Client talks to the third-party translation API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient builds a client for baseURL. Paths are appended to the base, so a
// base of "https://host/api" calls "https://host/api/translate".
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return NewClientWithHTTP(baseURL, &http.Client{Timeout: timeout})
}

func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		baseURL: normalizeBaseURL(baseURL),
		client:  httpClient,
	}
}

// BaseURL returns the normalized upstream base.
func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.baseURL
}

// Translate posts payload to the translate endpoint and returns the raw
// response body as the translated text.
func (c *Client) Translate(ctx context.Context, payload []byte) (string, error) {
	if c == nil {
		return "", fmt.Errorf("upstream client is nil")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+translatePath, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build translate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/plain, */*")

	body, err := c.do(httpReq, "translate")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// ListLanguages returns the language codes the upstream currently accepts.
func (c *Client) ListLanguages(ctx context.Context) ([]string, error) {
	return c.list(ctx, "languages", languagesPath)
}

// ListDomains returns the domain names the upstream currently accepts.
func (c *Client) ListDomains(ctx context.Context) ([]string, error) {
	return c.list(ctx, "domains", domainsPath)
}

func (c *Client) list(ctx context.Context, endpoint, path string) ([]string, error) {
	if c == nil {
		return nil, fmt.Errorf("upstream client is nil")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", endpoint, err)
	}
	httpReq.Header.Set("Accept", "application/json")

	body, err := c.do(httpReq, endpoint)
	if err != nil {
		return nil, err
	}

	items, err := schema.DecodeStringList(body)
	if err != nil {
		return nil, fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return items, nil
}

func (c *Client) do(httpReq *http.Request, endpoint string) ([]byte, error) {
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := strings.TrimSpace(string(body))
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return nil, &StatusError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    message,
		}
	}
	return body, nil
}

func normalizeBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}

	parsed, err := url.Parse(base)
	if err != nil {
		return strings.TrimRight(base, "/")
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/")
	parsed.RawQuery = ""
	parsed.Fragment = ""
	return parsed.String()
}
