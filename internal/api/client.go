package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/Kiran-879/ResumePilot/internal/config"
	"github.com/Kiran-879/ResumePilot/internal/errors"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

// TokenFunc supplies the current session token, or "" when no session exists.
// The session layer owns the token; the client only reads it per request.
type TokenFunc func() string

// AuthFailureHandler is invoked on any 401 response, before the error is
// returned to the caller. It must clear the persisted token and steer the
// application back to the login entry point. The failing call's error still
// propagates so synchronous cleanup code can run.
type AuthFailureHandler func()

// Client is the configured HTTP client for the ResumePilot API. Every request
// carries the session token as a `Token` authorization header when present,
// and every 401 is intercepted globally regardless of which call caused it.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	logger        *errors.Logger
	tokenFunc     TokenFunc
	onAuthFailure AuthFailureHandler
	limiter       *rate.Limiter
	breaker       *gobreaker.CircuitBreaker[*http.Response]
}

// Option customizes a Client.
type Option func(*Client)

// WithTokenFunc sets the token supplier attached to outgoing requests.
func WithTokenFunc(fn TokenFunc) Option {
	return func(c *Client) { c.tokenFunc = fn }
}

// WithAuthFailureHandler sets the global 401 interceptor.
func WithAuthFailureHandler(fn AuthFailureHandler) Option {
	return func(c *Client) { c.onAuthFailure = fn }
}

// WithBaseTransport overrides the underlying round tripper (tests).
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.httpClient.Transport = otelhttp.NewTransport(rt) }
}

// NewClient creates an API client from configuration.
func NewClient(cfg config.APIConfig, logger *errors.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: cfg.ResolveBaseURL(),
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger:    logger,
		tokenFunc: func() string { return "" },
	}

	if cfg.RateLimit.Enabled {
		c.limiter = rate.NewLimiter(rate.Limit(float64(cfg.RateLimit.RequestsPerMin)/60.0), cfg.RateLimit.BurstCapacity)
	}

	if cfg.CircuitBreaker.Enabled {
		settings := gobreaker.Settings{
			Name:        "resumepilot-api",
			MaxRequests: cfg.CircuitBreaker.MaxRequests,
			Interval:    cfg.CircuitBreaker.Interval,
			Timeout:     cfg.CircuitBreaker.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= cfg.CircuitBreaker.MinRequests &&
					failureRatio >= cfg.CircuitBreaker.FailureThreshold
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				if logger != nil {
					logger.Info("Circuit breaker state changed",
						"name", name,
						"from", from.String(),
						"to", to.String())
				}
			},
		}
		c.breaker = gobreaker.NewCircuitBreaker[*http.Response](settings)
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the resolved API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FormFile is one file part of a multipart create/update request.
type FormFile struct {
	Field   string
	Name    string
	Content io.Reader
}

func (c *Client) buildURL(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// roundTrip performs a single request through the rate limiter and circuit
// breaker. Network failures and 5xx responses count against the breaker;
// client errors do not.
func (c *Client) roundTrip(req *http.Request) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, errors.NewNetworkError(errors.ErrCodeRequestFailed, "Request canceled while rate limited", err)
		}
	}

	if token := c.tokenFunc(); token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	send := func() (*http.Response, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return resp, fmt.Errorf("server error: %s", resp.Status)
		}
		return resp, nil
	}

	var resp *http.Response
	var err error
	if c.breaker != nil {
		resp, err = c.breaker.Execute(send)
	} else {
		resp, err = send()
	}

	if err != nil && resp == nil {
		return nil, errors.NewNetworkError(errors.ErrCodeRequestFailed,
			fmt.Sprintf("%s %s failed", req.Method, req.URL.Path), err)
	}
	return resp, nil
}

// do executes a request and returns the response body for 2xx statuses.
// Error statuses are normalized to *errors.APIError; a 401 additionally fires
// the global auth-failure handler before the error is returned.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) ([]byte, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path, query), body)
	if err != nil {
		return nil, nil, errors.NewInternalError(errors.ErrCodeInvalidRequest, "Failed to build request", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.roundTrip(req)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil && c.logger != nil {
			c.logger.Warn("Failed to close response body", "path", path, "error", cerr)
		}
	}()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, errors.NewNetworkError(errors.ErrCodeRequestFailed,
			fmt.Sprintf("Failed to read response from %s", path), err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := errors.NormalizeAPIResponse(resp.StatusCode, payload)
		if apiErr.IsAuthFailure() {
			c.handleAuthFailure(path)
		}
		return nil, resp.Header, apiErr
	}

	return payload, resp.Header, nil
}

func (c *Client) handleAuthFailure(path string) {
	if c.logger != nil {
		c.logger.Warn("Authentication failure, ending session", "path", path)
	}
	if c.onAuthFailure != nil {
		c.onAuthFailure()
	}
}

// getJSON fetches path and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	payload, _, err := c.do(ctx, http.MethodGet, path, query, nil, "")
	if err != nil {
		return err
	}
	return decodeJSON(payload, path, out)
}

// sendJSON posts or patches a JSON body and decodes the response into out
// when out is non-nil.
func (c *Client) sendJSON(ctx context.Context, method, path string, body any, out any) error {
	encoded, err := json.Marshal(body)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeInvalidRequest, "Failed to encode request body", err)
	}
	payload, _, err := c.do(ctx, method, path, nil, bytes.NewReader(encoded), "application/json")
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decodeJSON(payload, path, out)
}

// submitForm sends a multipart form request for file-bearing creates/updates.
func (c *Client) submitForm(ctx context.Context, method, path string, fields map[string]string, files []FormFile, out any) error {
	body, contentType, err := encodeMultipart(fields, files)
	if err != nil {
		return err
	}
	payload, _, err := c.do(ctx, method, path, nil, body, contentType)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decodeJSON(payload, path, out)
}

// delete issues a DELETE request, ignoring any response body.
func (c *Client) delete(ctx context.Context, path string) error {
	_, _, err := c.do(ctx, http.MethodDelete, path, nil, nil, "")
	return err
}

// Blob is an opaque binary download for the caller to save.
type Blob struct {
	Content     []byte
	ContentType string
	Filename    string // suggested name from Content-Disposition, may be empty
}

// download fetches a binary endpoint and returns the raw blob.
func (c *Client) download(ctx context.Context, path string, query url.Values) (*Blob, error) {
	payload, header, err := c.do(ctx, http.MethodGet, path, query, nil, "")
	if err != nil {
		return nil, err
	}

	blob := &Blob{
		Content:     payload,
		ContentType: header.Get("Content-Type"),
	}
	if disposition := header.Get("Content-Disposition"); disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			blob.Filename = params["filename"]
		}
	}
	return blob, nil
}

func decodeJSON(payload []byte, path string, out any) error {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return errors.NewAPIError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Unexpected response shape from %s", path), err)
	}
	return nil
}

// decodeList tolerates the API's two list envelopes: a bare JSON array, or an
// object wrapping the array under "data" or "results".
func decodeList[T any](payload []byte, path string) ([]T, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if strings.HasPrefix(string(trimmed), "[") {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, errors.NewAPIError(errors.ErrCodeInvalidFormat,
				fmt.Sprintf("Unexpected list shape from %s", path), err)
		}
		return items, nil
	}

	var envelope struct {
		Data    []T `json:"data"`
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, errors.NewAPIError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Unexpected list shape from %s", path), err)
	}
	if envelope.Data != nil {
		return envelope.Data, nil
	}
	return envelope.Results, nil
}
