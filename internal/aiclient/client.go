package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gopaljadhavv/ai-microservices-docker/internal/dto"
)

var (
	// ErrUnavailable means the AI service could not be reached.
	ErrUnavailable = errors.New("ai service unavailable")
	// ErrTimeout means the AI service did not answer within the deadline.
	ErrTimeout = errors.New("ai service timeout")
)

// StatusError carries a non-2xx reply from the AI service so callers can
// propagate its status code and body.
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ai service status %d: %s", e.Code, e.Body)
}

// Client is a typed HTTP client for the worker's detect endpoint.
type Client struct {
	url    *url.URL
	client *http.Client
}

// New creates a client for the given detect URL with a per-call timeout.
func New(rawURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}

	return &Client{
		url:    u,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// Detect posts a base64 image to the AI service and decodes its reply.
func (c *Client) Detect(ctx context.Context, req *dto.DetectRequest) (*dto.DetectResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := c.client.Do(request)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		body, _ := io.ReadAll(response.Body)
		return nil, &StatusError{Code: response.StatusCode, Body: body}
	}

	var resp dto.DetectResponse
	if err := json.NewDecoder(response.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode response body: %w", err)
	}

	return &resp, nil
}

// Health checks the AI service's health endpoint next to the detect path.
func (c *Client) Health(ctx context.Context) error {
	u := *c.url
	u.Path = "/health"

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	response, err := c.client.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("ai service unhealthy: %d", response.StatusCode)
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var uerr *url.Error
	return errors.As(err, &uerr) && uerr.Timeout()
}
