package model

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Page represents a fetched web page.
// It exists only while the page is being processed: the fetcher creates it,
// the transformer and link extractor read it, and it is discarded afterwards.
type Page struct {
	// URL is the URL that was requested.
	URL string `json:"url"`

	// FinalURL is the URL after following redirects.
	// Links are resolved against this URL.
	FinalURL string `json:"final_url"`

	// StatusCode is the HTTP response status code.
	StatusCode int `json:"status_code"`

	// Headers contains all HTTP response headers.
	Headers map[string][]string `json:"headers,omitempty"`

	// ContentType is the MIME type of the response.
	ContentType string `json:"content_type"`

	// Charset is the name of the character encoding used to decode Body.
	Charset string `json:"charset,omitempty"`

	// Body is the response body decoded to UTF-8.
	Body string `json:"-"`

	// Hash is the SHA-256 hash of Body.
	Hash string `json:"hash"`

	// Title is the text of the <title> element, empty if absent.
	Title string `json:"title,omitempty"`
}

// MaxPageSize is the maximum number of body bytes read for one page.
const MaxPageSize = 10 * 1024 * 1024 // 10 MB

// ComputeHash calculates and sets the SHA-256 hash of the page body.
func (p *Page) ComputeHash() {
	if len(p.Body) == 0 {
		p.Hash = ""
		return
	}

	hash := sha256.Sum256([]byte(p.Body))
	p.Hash = hex.EncodeToString(hash[:])
}

// BaseURL returns the URL that relative links on this page resolve against.
func (p *Page) BaseURL() string {
	if p.FinalURL != "" {
		return p.FinalURL
	}
	return p.URL
}

// IsHTML returns true if the page content type indicates HTML.
// An empty content type is treated as HTML because many servers omit it.
func (p *Page) IsHTML() bool {
	ct := strings.ToLower(strings.TrimSpace(p.ContentType))
	if ct == "" {
		return true
	}
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct == "text/html" || ct == "application/xhtml+xml"
}

// Artifact is the file produced for one crawled page.
// Path is a deterministic function of the page URL and the output variant.
type Artifact struct {
	// Path is the local filesystem path of the file.
	Path string `json:"path"`

	// Content is the transformed page content.
	Content string `json:"-"`
}
