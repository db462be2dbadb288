// Package report renders the summary of a crawl run.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: Markdown output for sharing a run summary
//
// Design decision: Report writing is kept apart from the run data
// (model.CrawlResult) so a new output format never touches the crawler.
// Writers implement the Writer interface, allowing them to be composed
// for multi-format output.
package report
