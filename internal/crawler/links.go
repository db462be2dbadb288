package crawler

import (
	"iter"
	"net/url"
	"strings"

	"github.com/nao1215/sitemirror/internal/dom"
)

// Links returns the hyperlink targets of doc resolved against base.
//
// The sequence is lazy and single-use: attributes are resolved as the caller
// ranges over it, and ranging a second time yields nothing. Hrefs that are
// empty, malformed, or point at non-navigable schemes (javascript:, mailto:,
// tel:, data:) or at the bare "#" anchor are skipped without error.
// If base itself is not a valid URL the sequence is empty.
func Links(doc dom.Document, base string) iter.Seq[string] {
	consumed := false

	return func(yield func(string) bool) {
		if consumed {
			return
		}
		consumed = true

		baseURL, err := url.Parse(base)
		if err != nil {
			return
		}

		for href := range doc.QueryAttribute("a", "href") {
			link := resolveURL(baseURL, href)
			if link == "" {
				continue
			}
			if !yield(link) {
				return
			}
		}
	}
}

// resolveURL resolves a potentially relative href against base.
// It returns "" for links that should not be followed.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	lower := strings.ToLower(href)
	if strings.HasPrefix(lower, "javascript:") ||
		strings.HasPrefix(lower, "mailto:") ||
		strings.HasPrefix(lower, "tel:") ||
		strings.HasPrefix(lower, "data:") ||
		href == "#" {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	return base.ResolveReference(u).String()
}
