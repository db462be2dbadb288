// Package crawler decides which URLs a crawl visits.
//
// # Components
//
//   - ScopeFilter: accepts candidate URLs that start with the configured prefix
//   - Links: lazily extracts absolute link targets from a parsed page
//   - Frontier: the explicit worklist plus the visited set, safe for
//     concurrent workers, with optional page and depth bounds
//
// The crawl loop itself (fetch, transform, write, enqueue) lives in the
// pipeline package. This package holds no network or filesystem code.
//
// # Usage
//
//	scope := crawler.NewScopeFilter("https://example.test/en/")
//	frontier := crawler.NewFrontier(crawler.WithMaxPages(100))
//	frontier.Push("https://example.test/en/a.html", 0)
//
//	for link := range crawler.Links(doc, page.BaseURL()) {
//		if scope.Allow(link) {
//			frontier.Push(link, depth+1)
//		}
//	}
package crawler
