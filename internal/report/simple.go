package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/sitemirror/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal display.
//
// Design decision: We use plain text with ASCII rules rather than ANSI
// colors so the output can be piped to files or other tools unchanged.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no entries are shown.
	showEmpty bool

	// verbose adds the list of written pages.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the run report in human-readable format.
func (w *SimpleWriter) Write(result *model.CrawlResult) (int, error) {
	s := NewSummary(result)
	var sb strings.Builder

	w.writeHeader(&sb, s)
	w.writeSummary(&sb, s)
	w.writeFailures(&sb, s)
	if w.verbose {
		w.writeWritten(&sb, s)
	}
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, s *Summary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                      SITEMIRROR CRAWL REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Run ID:     %s\n", s.RunID)
	fmt.Fprintf(sb, "Start URL:  %s\n", s.StartURL)
	fmt.Fprintf(sb, "Prefix:     %s\n", s.Prefix)
	fmt.Fprintf(sb, "Variant:    %s\n", s.Variant)
	fmt.Fprintf(sb, "Output:     %s\n", s.OutputRoot)
	fmt.Fprintf(sb, "Duration:   %s\n", s.Duration.Round(time.Millisecond))

	if s.Cancelled {
		sb.WriteString("Status:     CANCELLED (partial results)\n")
	} else {
		sb.WriteString("Status:     Complete\n")
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

// writeSummary writes the page counts and the failure breakdown.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, s *Summary) {
	w.writeSection(sb, "SUMMARY")

	fmt.Fprintf(sb, "  PAGES:    %d\n", s.Pages)
	fmt.Fprintf(sb, "  WRITTEN:  %d\n", s.Written)
	fmt.Fprintf(sb, "  FAILED:   %d\n", s.Failed)
	for _, kc := range s.FailuresByKind {
		fmt.Fprintf(sb, "    %-16s %d\n", string(kc.Kind)+":", kc.Count)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeFailures(sb *strings.Builder, s *Summary) {
	if !s.HasFailures() && !w.showEmpty {
		return
	}

	w.writeSection(sb, "FAILED PAGES")

	if !s.HasFailures() {
		sb.WriteString("  No failed pages\n\n")
		return
	}
	for _, o := range s.Failures {
		fmt.Fprintf(sb, "  [-] %s\n", o.URL)
		fmt.Fprintf(sb, "      %s: %s\n", o.ErrorKind, o.Error)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeWritten(sb *strings.Builder, s *Summary) {
	if s.Written == 0 && !w.showEmpty {
		return
	}

	w.writeSection(sb, "WRITTEN PAGES")

	if s.Written == 0 {
		sb.WriteString("  No pages written\n\n")
		return
	}
	for _, o := range s.WrittenPages {
		fmt.Fprintf(sb, "  [+] %s\n", o.URL)
		fmt.Fprintf(sb, "      -> %s\n", o.Path)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
