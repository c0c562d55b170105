// Package client provides an HTTP client for the price prediction backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/evcraddock/price-estimator/internal/predict"
)

// PredictPath is the backend's prediction endpoint.
const PredictPath = "/api/predict"

// HealthPath is the backend's health endpoint.
const HealthPath = "/api/health"

// TransportError means no usable response arrived: the request could not be
// sent, the backend answered with an error status, or the body was malformed.
type TransportError struct {
	Op         string // e.g. "POST /api/predict"
	StatusCode int    // 0 when no response arrived
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Client is an HTTP client for the prediction backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// New creates a client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Predict sends one prediction request. A logical failure reported by the
// backend is returned as a Response with Success false; every other problem
// is a *TransportError.
func (c *Client) Predict(ctx context.Context, req predict.Request) (*predict.Response, error) {
	op := "POST " + PredictPath

	data, err := json.Marshal(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("marshaling request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+PredictPath, bytes.NewReader(data))
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("creating request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	body, err := c.do(httpReq, op)
	if err != nil {
		return nil, err
	}

	if err := validatePredictResponse(body); err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	var resp predict.Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return &resp, nil
}

// HealthStatus is the response from GET /api/health.
type HealthStatus struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	Service     string `json:"service"`
}

// Healthy reports whether the backend has a model loaded.
func (h *HealthStatus) Healthy() bool {
	return h.Status == "healthy" && h.ModelLoaded
}

// Health queries the backend health endpoint.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	op := "GET " + HealthPath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+HealthPath, nil)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req, op)
	if err != nil {
		return nil, err
	}

	var status HealthStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return &status, nil
}

// do executes a request and returns the body of a 2xx response.
func (c *Client) do(req *http.Request, op string) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			slog.Warn("closing response body", "op", op, "error", cerr)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			return nil, &TransportError{Op: op, StatusCode: resp.StatusCode, Err: errors.New(errResp.Error)}
		}
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	}

	return body, nil
}
