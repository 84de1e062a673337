// Package utils provides common utility functions.
package utils

import (
	"net/url"
	"strings"
)

// QueryParam is one name/value pair of a query string.
type QueryParam struct {
	Name  string
	Value string
}

// EncodeQuery encodes parameters in the order given. url.Values.Encode
// sorts by name, which scrambles the get/for/key convention of statistical
// APIs, so encoding is done by hand.
func EncodeQuery(params []QueryParam) string {
	var sb strings.Builder

	for i, p := range params {
		if i > 0 {
			sb.WriteByte('&')
		}

		sb.WriteString(url.QueryEscape(p.Name))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.Value))
	}

	return sb.String()
}
