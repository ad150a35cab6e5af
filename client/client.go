// Package client provides a typed Go client for the impact-analysis service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/blastview/blastview/internal/models"
)

// AnalyzePath is the analysis endpoint, relative to the base URL.
const AnalyzePath = "/api/analyze"

// Client talks to the analysis service.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	timeout    *time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets a bearer token sent with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient sets a custom HTTP client. A nil hc keeps the default.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the request timeout. Zero means no timeout. The timeout is
// applied to a copy of the HTTP client, so a client passed to WithHTTPClient
// is never changed.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = &d }
}

// New creates a client for the given base URL (e.g. "http://127.0.0.1:5000").
// Requests have no timeout unless WithTimeout or a context deadline sets one.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
	for _, o := range opts {
		o(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.timeout != nil {
		hc := *c.httpClient
		hc.Timeout = *c.timeout
		c.httpClient = &hc
	}
	return c
}

// BaseURL returns the analysis service base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Analyze submits one analysis request and decodes the result.
// A non-2xx response returns an *APIError; anything else that goes wrong
// (network, body read, decode) returns a wrapped transport error.
func (c *Client) Analyze(ctx context.Context, req models.AnalyzeRequest) (*models.AnalysisResult, error) {
	var res models.AnalysisResult
	if err := c.post(ctx, AnalyzePath, req, &res); err != nil {
		return nil, err
	}
	if res.Impacts == nil {
		res.Impacts = []models.ImpactRecord{}
	}
	return &res, nil
}

// do executes an HTTP request and decodes the JSON response.
func (c *Client) do(ctx context.Context, method, path string, body any, result any) error {
	u := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseAPIError(resp.StatusCode, respBody)
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// post is a convenience wrapper for POST requests.
func (c *Client) post(ctx context.Context, path string, body any, result any) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}
