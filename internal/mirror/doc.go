// Package mirror maps crawled URLs to local files and writes them.
//
// Output lives under <base>/output-<variant>/ and follows the URL path:
//
//	https://example.test/en/a.html      -> output-md/en/a.md
//	https://example.test/en/            -> output-md/en/index.md
//	https://example.test/en/guide       -> output-md/en/guide.md
//	https://example.test/en/a.html?p=2  -> output-md/en/a.q1a2b3c4d.md
//
// The raw HTML variant keeps ".html" and keeps any other extension a URL
// already has. Query strings are folded into a short digest so pages that
// differ only by query do not overwrite each other.
package mirror
