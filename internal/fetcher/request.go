package fetcher

import (
	"fmt"
	"net/url"
	"strings"

	"statfetch/pkg/utils"
)

// Request describes one API call: a base URL, optional path segments, and
// an ordered list of query parameters. Ordering is preserved on the wire so
// census-style get/for/key queries encode the way the API documents them.
type Request struct {
	base     string
	segments []string
	params   []utils.QueryParam
	key      string
}

// NewRequest starts a request against the given base URL.
func NewRequest(base string) *Request {
	return &Request{base: base}
}

// Segment appends path segments (e.g. "country", "us", "indicator", id).
func (r *Request) Segment(parts ...string) *Request {
	r.segments = append(r.segments, parts...)

	return r
}

// Param appends a query parameter. Repeated names are allowed, and the
// parameter name may be anything the API requires, including "for".
func (r *Request) Param(name, value string) *Request {
	r.params = append(r.params, utils.QueryParam{Name: name, Value: value})

	return r
}

// For sets the geography clause parameter literally named "for". The name
// collides with a keyword in several client languages, so it gets a
// dedicated setter.
func (r *Request) For(value string) *Request {
	return r.Param("for", value)
}

// Key sets the API key, appended as the final "key" parameter.
func (r *Request) Key(secret string) *Request {
	r.key = secret

	return r
}

// Clone returns an independent copy of the request.
func (r *Request) Clone() *Request {
	clone := &Request{
		base: r.base,
		key:  r.key,
	}
	clone.segments = append(clone.segments, r.segments...)
	clone.params = append(clone.params, r.params...)

	return clone
}

// URL renders the request as a full URL string.
func (r *Request) URL() (string, error) {
	u, err := url.Parse(r.base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", r.base, err)
	}

	if len(r.segments) > 0 {
		u = u.JoinPath(r.segments...)
	}

	params := r.params
	if r.key != "" {
		params = append(append([]utils.QueryParam(nil), params...),
			utils.QueryParam{Name: "key", Value: r.key})
	}

	u.RawQuery = utils.EncodeQuery(params)

	return u.String(), nil
}

// String renders the request for logging with the key redacted.
func (r *Request) String() string {
	redacted := r.Clone()
	if redacted.key != "" {
		redacted.key = "REDACTED"
	}

	s, err := redacted.URL()
	if err != nil {
		return r.base + "/" + strings.Join(r.segments, "/")
	}

	return s
}
