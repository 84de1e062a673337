package models

import "strings"

// Record is one decoded JSON object from a nested-record payload. Field
// values may be scalars or nested mappings.
type Record map[string]any

// Field looks up a value by dotted path, descending nested mappings
// (e.g. "indicator.id"). The boolean reports presence: a field explicitly
// set to null is present.
func (r Record) Field(path string) (any, bool) {
	parts := strings.Split(path, ".")

	var current any = map[string]any(r)

	for _, part := range parts {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}

		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// Page is one payload fragment of a paginated response. Zero Number and
// Total mean the payload arrived as a single, complete page.
type Page struct {
	Records []Record
	Number  int
	Total   int
}
