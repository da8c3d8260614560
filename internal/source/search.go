package source

import (
	"net/url"
	"strings"
)

const (
	MinPages = 1
	MaxPages = 50
)

// Search is what the operator asks for.
type Search struct {
	City  string
	State string
	Query string
	Pages int
}

// quote percent-encodes a query value with spaces as %20.
func quote(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
