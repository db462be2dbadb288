// Package model defines the core data structures shared by the crawler.
//
// This package contains the following main types:
//   - Page: A fetched HTML page (URL, final URL, decoded body)
//   - Variant: The selected output variant (raw HTML, plain text, Markdown)
//   - Artifact: The file produced for one crawled page
//   - PageJob: One URL moving through the crawl state machine
//   - CrawlResult: The outcome of a whole crawl run
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The crawler, transform, mirror, pipeline, and report packages
// all need these types, so centralizing them prevents import cycles.
package model
