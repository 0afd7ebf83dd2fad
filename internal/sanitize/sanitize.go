// Package sanitize holds the HTML allow-lists applied to user supplied text.
package sanitize

import (
	"html"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textOnce   sync.Once
	textPolicy *bluemonday.Policy

	displayOnce   sync.Once
	displayPolicy *bluemonday.Policy
)

// Text cleans free text before it is stored. Only a handful of inline
// formatting tags survive and everything else is stripped. Entities the
// cleaner introduces for quotes, ampersands and angle brackets are decoded
// again so markdown such as "> quote" keeps working, unless decoding would
// bring back markup the policy removes.
func Text(s string) string {
	clean := textSanitize(s)
	plain := html.UnescapeString(clean)
	if html.UnescapeString(textSanitize(plain)) != plain {
		return clean
	}
	return plain
}

func textSanitize(s string) string {
	textOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements("abbr", "acronym", "b", "blockquote", "code", "em", "i", "li", "ol", "strong", "ul")
		p.AllowAttrs("title").OnElements("abbr", "acronym")
		p.AllowAttrs("href", "title").OnElements("a")
		p.AllowStandardURLs()
		p.RequireNoFollowOnLinks(true)
		textPolicy = p
	})
	return textPolicy.Sanitize(s)
}

// HTML cleans rendered markdown before it reaches the browser.
func HTML(b []byte) []byte {
	displayOnce.Do(func() {
		displayPolicy = bluemonday.UGCPolicy()
	})
	return displayPolicy.SanitizeBytes(b)
}
