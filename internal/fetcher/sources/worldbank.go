package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"statfetch/internal/fetcher"
	"statfetch/internal/models"
)

// ErrBadEnvelope indicates a response that is not the two-element
// [meta, records] array the paginated API contract promises.
var ErrBadEnvelope = errors.New("unexpected response envelope")

// maxPages caps the pagination loop against a server that keeps promising
// more pages.
const maxPages = 1000

// WorldBank is a client for world-bank-style APIs: hierarchical path
// queries returning paginated nested records inside a metadata envelope.
type WorldBank struct {
	client *fetcher.Client
	base   string
}

// NewWorldBank creates a world-bank client.
func NewWorldBank(client *fetcher.Client, baseURL string) *WorldBank {
	return &WorldBank{
		client: client,
		base:   baseURL,
	}
}

// Indicator fetches every page of one indicator for one country, e.g.
// Indicator(ctx, "us", "NY.GDP.MKTP.CD", 50). Pages come back in arrival
// order; ordering for the final table is the caller's decision.
func (w *WorldBank) Indicator(ctx context.Context, country, indicator string, perPage int) ([]models.Page, error) {
	base := fetcher.NewRequest(w.base).
		Segment("country", country, "indicator", indicator).
		Param("format", "json")

	if perPage > 0 {
		base.Param("per_page", strconv.Itoa(perPage))
	}

	return w.Pages(ctx, base)
}

// Pages fetches every page of a prebuilt request, following the envelope's
// total page count.
func (w *WorldBank) Pages(ctx context.Context, base *fetcher.Request) ([]models.Page, error) {
	var pages []models.Page

	for number := 1; number <= maxPages; number++ {
		req := base.Clone()
		if number > 1 {
			req.Param("page", strconv.Itoa(number))
		}

		body, _, err := w.client.Fetch(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page %d: %w", number, err)
		}

		page, err := DecodeEnvelope(body)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", number, err)
		}

		pages = append(pages, page)

		if page.Total == 0 || number >= page.Total {
			return pages, nil
		}
	}

	return nil, fmt.Errorf("%w: more than %d pages", ErrBadEnvelope, maxPages)
}

// DecodeEnvelope splits a [meta, records] payload into one Page.
func DecodeEnvelope(body []byte) (models.Page, error) {
	var envelope []json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return models.Page{}, fmt.Errorf("%w: %s", ErrBadEnvelope, err)
	}

	if len(envelope) != 2 {
		return models.Page{}, fmt.Errorf("%w: expected 2 elements, got %d", ErrBadEnvelope, len(envelope))
	}

	var meta map[string]any
	if err := json.Unmarshal(envelope[0], &meta); err != nil {
		return models.Page{}, fmt.Errorf("%w: metadata: %s", ErrBadEnvelope, err)
	}

	var records []models.Record
	if err := json.Unmarshal(envelope[1], &records); err != nil {
		return models.Page{}, fmt.Errorf("%w: records: %s", ErrBadEnvelope, err)
	}

	return models.Page{
		Records: records,
		Number:  metaInt(meta, "page"),
		Total:   metaInt(meta, "pages"),
	}, nil
}

// metaInt reads a count from the envelope metadata. The API serves counts
// as numbers on some routes and strings on others.
func metaInt(meta map[string]any, field string) int {
	switch v := meta[field].(type) {
	case float64:
		return int(v)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0
		}

		return n
	}

	return 0
}
