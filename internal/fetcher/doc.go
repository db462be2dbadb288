// Package fetcher retrieves pages over HTTP and decodes them to UTF-8.
//
// A Fetcher issues one GET per URL, follows up to ten redirects, rejects
// non-2xx and non-HTML responses, and decodes the body using the charset
// declared in the Content-Type header or a <meta> tag, falling back to
// content sniffing. Every failure wraps model.ErrFetch.
//
// There is no retry: a failed fetch abandons that page only.
package fetcher
