// Package fetcher provides the HTTP client used to retrieve API payloads.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"statfetch/internal/config"

	"github.com/go-resty/resty/v2"
)

// ErrUnexpectedStatusCode indicates an HTTP response with unexpected status.
var ErrUnexpectedStatusCode = errors.New("unexpected status code")

const defaultUserAgent = "statfetch/1.0"

// Client issues single synchronous requests. No retries, no caching; a
// failed fetch surfaces to the caller immediately.
type Client struct {
	http *resty.Client
}

// NewClient creates a client with default settings.
func NewClient() *Client {
	return NewClientWithConfig(config.FetchConfig{
		UserAgent:  defaultUserAgent,
		TimeoutSec: 30,
	})
}

// NewClientWithConfig creates a client with settings from configuration.
func NewClientWithConfig(cfg config.FetchConfig) *Client {
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	timeout := cfg.GetTimeout()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := resty.New()
	client.SetHeader("User-Agent", ua)
	client.SetHeader("Accept", "application/json")
	client.SetTimeout(timeout)

	return &Client{http: client}
}

// Fetch performs the request and returns the response body and status code.
// Any non-200 status is an error carrying the status code.
func (c *Client) Fetch(ctx context.Context, req *Request) ([]byte, int, error) {
	target, err := req.URL()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request URL: %w", err)
	}

	resp, err := c.http.R().SetContext(ctx).Get(target)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, resp.StatusCode(), fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode())
	}

	return resp.Body(), resp.StatusCode(), nil
}
