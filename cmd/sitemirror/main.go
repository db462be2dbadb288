// Package main provides the entry point for the sitemirror CLI.
//
// sitemirror crawls every HTML page under a URL prefix and writes each page
// to a local file whose path mirrors the page URL. Pages are stored as raw
// HTML, plain text, or Markdown.
//
// Usage:
//
//	sitemirror crawl <start-url>
//	sitemirror crawl -f txt -p https://example.com/docs/ https://example.com/docs/index.html
//
// See --help for all available options.
package main

func main() {
	Execute()
}
