// Package apiclient talks to the link dispensing API. Every request carries
// the static x-api-key credential and every failure surfaces as a
// *RequestError.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	HeaderAPIKey    = "x-api-key"
	HeaderRequestID = "X-Request-ID"

	defaultTimeout = 10 * time.Second
)

type requestIDKey struct{}

// WithRequestID returns a context whose outgoing requests carry id in the
// X-Request-ID header.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type Client struct {
	baseURL         string
	apiKey          string
	httpClient      *http.Client
	timeout         time.Duration
	logger          *slog.Logger
	bulkConcurrency int
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds every request, including reading the response body.
// Zero or less disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithBulkConcurrency caps the number of in-flight inserts issued by
// AddBulkLinks. Zero or less means no cap.
func WithBulkConcurrency(n int) Option {
	return func(c *Client) {
		c.bulkConcurrency = n
	}
}

func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: http.DefaultClient,
		timeout:    defaultTimeout,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// do issues one request against {base}{path}. body is JSON encoded when
// non-nil; on success the response is decoded into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &RequestError{Message: fmt.Sprintf("encode request: %v", err), Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &RequestError{Message: fmt.Sprintf("build request: %v", err), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderAPIKey, c.apiKey)
	if id := requestIDFrom(ctx); id != "" {
		req.Header.Set(HeaderRequestID, id)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("API request failed", "method", method, "path", path, "error", err)
		return &RequestError{Message: fmt.Sprintf("request failed: %v", err), Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("API request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{Message: readErrorMessage(resp), StatusCode: resp.StatusCode}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RequestError{
			Message:    fmt.Sprintf("decode response: %v", err),
			StatusCode: resp.StatusCode,
			Err:        err,
		}
	}
	return nil
}

func readErrorMessage(resp *http.Response) string {
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return statusMessage(resp.StatusCode)
	}
	if body.Error != "" {
		return body.Error
	}
	if body.Message != "" {
		return body.Message
	}
	return statusMessage(resp.StatusCode)
}
