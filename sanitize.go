package ecolife

import "github.com/microcosm-cc/bluemonday"

// richTextPolicy is the fixed allow-list applied to user-authored rich text.
// Anything outside it is stripped, not escaped. Permitted markup passes
// through verbatim, which also makes sanitization idempotent.
var richTextPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"a", "abbr", "acronym", "b", "blockquote", "br", "code", "em",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"i", "li", "ol", "p", "pre", "strong", "u", "ul",
	)
	p.AllowAttrs("href", "title").OnElements("a")
	// Links must parse and carry a safe scheme, but are otherwise left alone:
	// no rel="nofollow" injection, so permitted markup round-trips unchanged.
	p.RequireParseableURLs(true)
	p.AllowRelativeURLs(true)
	p.AllowURLSchemes("mailto", "http", "https")
	return p
}()

// Sanitize strips disallowed markup from user-supplied rich text. It must be
// applied before persistence (post bodies, comment text), never on read.
func Sanitize(html string) string {
	return richTextPolicy.Sanitize(html)
}
