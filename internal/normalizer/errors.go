// Package normalizer converts raw JSON API payloads into uniform tables.
package normalizer

import "errors"

// Normalization errors.
var (
	ErrNotTabular       = errors.New("payload is not a tabular JSON array")
	ErrMalformedPayload = errors.New("malformed payload")
	ErrMissingField     = errors.New("record missing required field")
	ErrUnknownColumn    = errors.New("unknown column")
	ErrSchemaMismatch   = errors.New("table column schemas do not match")
	ErrNoFragments      = errors.New("no table fragments to merge")
)
