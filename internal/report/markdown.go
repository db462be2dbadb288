package report

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/sitemirror/internal/model"
)

// MarkdownWriter outputs run reports in Markdown format.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation with tables, collapsible details, and GitHub-flavored alerts.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the run report in Markdown format.
func (w *MarkdownWriter) Write(result *model.CrawlResult) (int, error) {
	s := NewSummary(result)
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, s)
	w.writeSummary(md, s)
	w.writeFailures(md, s)
	w.writeWritten(md, s)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the run information table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, s *Summary) {
	md.H1("Sitemirror Crawl Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run ID", "`" + s.RunID + "`"},
			{"Start URL", "`" + s.StartURL + "`"},
			{"Prefix", "`" + s.Prefix + "`"},
			{"Variant", s.Variant},
			{"Output", "`" + s.OutputRoot + "`"},
			{"Started", s.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", s.Duration.Round(time.Millisecond).String()},
			{"Status", w.getStatusText(s)},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) getStatusText(s *Summary) string {
	if s.Cancelled {
		return "⚠️ Cancelled (partial results)"
	}
	return "✅ Complete"
}

// writeSummary writes the page counts, the failure chart, and an alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, s *Summary) {
	md.H2("Summary")
	md.PlainText("")

	rows := [][]string{
		{"Pages processed", strconv.Itoa(s.Pages)},
		{"Written", strconv.Itoa(s.Written)},
		{"Failed", strconv.Itoa(s.Failed)},
	}
	for _, kc := range s.FailuresByKind {
		rows = append(rows, []string{"  " + string(kc.Kind), strconv.Itoa(kc.Count)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	if s.HasFailures() {
		w.writePieChart(md, s)
	}
	w.writeAlert(md, s)
}

// writePieChart writes a mermaid pie chart of failures by kind.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, s *Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Failures by Kind"),
		piechart.WithShowData(true),
	)
	for _, kc := range s.FailuresByKind {
		chart.LabelAndIntValue(string(kc.Kind), uint64(kc.Count)) //nolint:gosec // counts are never negative
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, s *Summary) {
	switch {
	case s.Written == 0 && s.Pages > 0:
		md.Cautionf("No pages were written. All %d page(s) failed.", s.Failed)
	case s.HasFailures():
		md.Warningf("%d of %d page(s) failed and were skipped.", s.Failed, s.Pages)
	case s.Cancelled:
		md.Note("The run was cancelled before the frontier was exhausted.")
	default:
		md.Tip("Every page in scope was written.")
	}
	md.PlainText("")
}

// writeFailures writes the table of failed pages.
func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, s *Summary) {
	md.H2("Failed Pages")
	md.PlainText("")

	if !s.HasFailures() {
		md.PlainText("No failed pages.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(s.Failures))
	for i, o := range s.Failures {
		rows[i] = []string{
			truncateString(o.URL, 60),
			string(o.ErrorKind),
			truncateString(o.Error, 80),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"URL", "Kind", "Error"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeWritten lists written pages inside a collapsible block.
func (w *MarkdownWriter) writeWritten(md *markdown.Markdown, s *Summary) {
	if s.Written == 0 {
		return
	}

	md.H2("Written Pages")
	md.PlainText("")

	var body strings.Builder
	for _, o := range s.WrittenPages {
		body.WriteString("- " + o.URL + " -> " + o.Path + "\n")
	}
	md.Details(strconv.Itoa(s.Written)+" page(s)", body.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [sitemirror](https://github.com/nao1215/sitemirror)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
