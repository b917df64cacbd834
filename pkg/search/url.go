// Package search turns a query into a search-engine URL and hands it to
// the user's browser. Nothing here fetches the URL.
package search

import (
	"net/url"
	"strings"
)

// Placeholder marks where the encoded query goes in an engine template.
const Placeholder = "{query}"

// BuildURL substitutes the percent-encoded query into template. Unreserved
// characters and "/" are kept as-is and a space becomes %20. It is pure
// and does no I/O.
func BuildURL(template, query string) string {
	return strings.ReplaceAll(template, Placeholder, Escape(query))
}

// escapeFixups undoes the form-style parts of url.QueryEscape. A literal
// "%2F" in the input is escaped to "%252F" first, so only slashes match.
var escapeFixups = strings.NewReplacer("+", "%20", "%2F", "/")

// Escape percent-encodes query for use inside a URL.
func Escape(query string) string {
	return escapeFixups.Replace(url.QueryEscape(query))
}
