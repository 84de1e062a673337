// Package sources contains typed clients for the supported statistical APIs.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"statfetch/internal/fetcher"
	"statfetch/internal/models"
	"statfetch/internal/normalizer"
)

// Census is a client for census-style APIs: key-authenticated flat tabular
// JSON where the first row is the header.
type Census struct {
	client *fetcher.Client
	base   string
	key    string
}

// NewCensus creates a census client. The key may be empty for endpoints
// that allow keyless access.
func NewCensus(client *fetcher.Client, baseURL, key string) *Census {
	return &Census{
		client: client,
		base:   baseURL,
		key:    key,
	}
}

// Rows queries one dataset (e.g. "2019/acs/acs1") for the given variables
// and geography clause, and normalizes the flat response.
func (c *Census) Rows(ctx context.Context, dataset string, get []string, forClause string) (*models.Table, error) {
	req := fetcher.NewRequest(c.base).
		Segment(strings.Split(dataset, "/")...).
		Param("get", strings.Join(get, ","))

	if forClause != "" {
		req.For(forClause)
	}

	return c.RowsForRequest(ctx, req)
}

// RowsForRequest fetches a prebuilt request and normalizes the flat
// response. The client's key is attached here so callers never handle it.
func (c *Census) RowsForRequest(ctx context.Context, req *fetcher.Request) (*models.Table, error) {
	if c.key != "" {
		req = req.Clone().Key(c.key)
	}

	body, _, err := c.client.Fetch(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", req, err)
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode response from %s: %w", req, err)
	}

	return normalizer.NormalizeFlat(payload)
}
