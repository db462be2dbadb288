package crawler

import (
	"net/url"
	"path"
	"strings"
)

// ScopeFilter decides whether a discovered URL belongs to the crawl.
//
// By default the check is a literal string-prefix test with no
// normalization: "https://host/en/guide" also admits
// "https://host/en/guide-extra.html". Boundary matching tightens this so
// the character right after the prefix must be a URL boundary.
type ScopeFilter struct {
	// prefix is the URL prefix every crawled URL must start with.
	prefix string

	// boundary enables boundary-aware matching.
	boundary bool

	// ignorePatterns are URL path patterns that are never crawled.
	// Patterns use glob syntax (e.g., "/admin/*", "*.pdf").
	ignorePatterns []string
}

// ScopeOption configures a ScopeFilter.
type ScopeOption func(*ScopeFilter)

// WithBoundaryMatch enables boundary-aware prefix matching.
// The remainder after the prefix must be empty or start with '/', '?',
// '#' or '.', so "immigrate-canada" still admits "immigrate-canada.html"
// and "immigrate-canada/visit.html" but not "immigrate-canada-extra.html".
func WithBoundaryMatch(enabled bool) ScopeOption {
	return func(s *ScopeFilter) {
		s.boundary = enabled
	}
}

// WithIgnorePatterns sets URL path patterns to skip.
// Patterns use glob syntax (e.g., "/admin/*", "*.pdf", "/logout*").
func WithIgnorePatterns(patterns []string) ScopeOption {
	return func(s *ScopeFilter) {
		s.ignorePatterns = patterns
	}
}

// NewScopeFilter creates a ScopeFilter for prefix.
func NewScopeFilter(prefix string, opts ...ScopeOption) *ScopeFilter {
	s := &ScopeFilter{prefix: prefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Prefix returns the configured prefix.
func (s *ScopeFilter) Prefix() string {
	return s.prefix
}

// Allow reports whether candidate is in scope.
func (s *ScopeFilter) Allow(candidate string) bool {
	if !strings.HasPrefix(candidate, s.prefix) {
		return false
	}

	if s.boundary && !s.atBoundary(candidate[len(s.prefix):]) {
		return false
	}

	if len(s.ignorePatterns) > 0 && s.ignored(candidate) {
		return false
	}

	return true
}

// atBoundary reports whether rest, the text after the prefix, starts at a
// URL boundary. A prefix that already ends in '/' is itself a boundary.
func (s *ScopeFilter) atBoundary(rest string) bool {
	if rest == "" || strings.HasSuffix(s.prefix, "/") {
		return true
	}

	switch rest[0] {
	case '/', '?', '#', '.':
		return true
	default:
		return false
	}
}

// ignored reports whether the candidate's path matches an ignore pattern.
func (s *ScopeFilter) ignored(candidate string) bool {
	u, err := url.Parse(candidate)
	if err != nil {
		return true
	}

	p := u.Path
	if p == "" {
		p = "/"
	}

	for _, pattern := range s.ignorePatterns {
		if matchPattern(pattern, p) {
			return true
		}
	}
	return false
}

// matchPattern checks if a URL path matches a glob pattern.
// Patterns can use:
//   - * to match any sequence of non-separator characters
//   - ? to match any single character
//
// Examples:
//   - "/admin/*" matches "/admin/dashboard" and "/admin/users/edit"
//   - "*.pdf" matches "/docs/file.pdf"
//   - "/api/v?" matches "/api/v1", "/api/v2"
func matchPattern(pattern, p string) bool {
	// "/admin/*" matches everything below /admin
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		if strings.HasPrefix(p, prefix+"/") || p == prefix {
			return true
		}
	}

	// "*.pdf" matches by extension at any depth
	if strings.HasPrefix(pattern, "*.") && strings.HasSuffix(p, strings.TrimPrefix(pattern, "*")) {
		return true
	}

	matched, err := path.Match(pattern, p)
	if err != nil {
		return false
	}
	if matched {
		return true
	}

	// Patterns without a slash also match the last segment.
	if strings.Contains(pattern, "*") && !strings.Contains(pattern, "/") {
		matched, err := path.Match(pattern, path.Base(p))
		if err == nil && matched {
			return true
		}
	}

	return false
}
