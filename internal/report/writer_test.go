package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/sitemirror/internal/model"
)

// createTestResult creates a crawl result with two written pages and
// two failures of different kinds.
func createTestResult() *model.CrawlResult {
	start := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	return &model.CrawlResult{
		RunID:      "run-1234",
		StartURL:   "https://example.com/en/a.html",
		Prefix:     "https://example.com/en/",
		Variant:    "md",
		OutputRoot: "out/output-md",
		StartedAt:  start,
		FinishedAt: start.Add(1500 * time.Millisecond),
		Outcomes: []model.PageOutcome{
			{URL: "https://example.com/en/b.html", State: model.StateDone, Path: "out/output-md/en/b.md"},
			{URL: "https://example.com/en/a.html", State: model.StateDone, Path: "out/output-md/en/a.md"},
			{
				URL:       "https://example.com/en/missing.html",
				State:     model.StateFailed,
				ErrorKind: model.ErrorKindFetch,
				Error:     "fetch error: status 404",
			},
			{
				URL:       "https://example.com/en/locked.html",
				State:     model.StateFailed,
				ErrorKind: model.ErrorKindWrite,
				Error:     "write error: permission denied",
			},
		},
	}
}

func createCleanResult() *model.CrawlResult {
	r := createTestResult()
	r.Outcomes = r.Outcomes[:2]
	return r
}

func TestNewSummary(t *testing.T) {
	t.Parallel()

	s := NewSummary(createTestResult())

	if s.Pages != 4 {
		t.Errorf("expected 4 pages, got %d", s.Pages)
	}
	if s.Written != 2 {
		t.Errorf("expected 2 written, got %d", s.Written)
	}
	if s.Failed != 2 {
		t.Errorf("expected 2 failed, got %d", s.Failed)
	}
	if s.Duration != 1500*time.Millisecond {
		t.Errorf("expected 1.5s duration, got %v", s.Duration)
	}
	if s.WrittenPages[0].URL != "https://example.com/en/a.html" {
		t.Errorf("expected written pages sorted by URL, got %s first", s.WrittenPages[0].URL)
	}
	if len(s.FailuresByKind) != 2 {
		t.Fatalf("expected 2 failure kinds, got %d", len(s.FailuresByKind))
	}
	if s.FailuresByKind[0].Kind != model.ErrorKindFetch || s.FailuresByKind[1].Kind != model.ErrorKindWrite {
		t.Errorf("expected kinds sorted by name, got %v", s.FailuresByKind)
	}
	if s.Status() != "Complete" {
		t.Errorf("expected Complete status, got %s", s.Status())
	}
}

func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes report header", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		_, err := w.Write(createTestResult())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "SITEMIRROR CRAWL REPORT") {
			t.Error("expected output to contain header")
		}
		if !strings.Contains(output, "https://example.com/en/a.html") {
			t.Error("expected output to contain start URL")
		}
		if !strings.Contains(output, "Status:     Complete") {
			t.Error("expected complete status")
		}
	})

	t.Run("writes summary counts", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		if _, err := w.Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "WRITTEN:  2") {
			t.Error("expected written count")
		}
		if !strings.Contains(output, "FAILED:   2") {
			t.Error("expected failed count")
		}
		if !strings.Contains(output, "FetchError:") {
			t.Error("expected failure kind breakdown")
		}
	})

	t.Run("lists failed pages", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		if _, err := w.Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "FAILED PAGES") {
			t.Error("expected failed pages section")
		}
		if !strings.Contains(output, "[-] https://example.com/en/missing.html") {
			t.Error("expected failed URL listed")
		}
		if strings.Contains(output, "WRITTEN PAGES") {
			t.Error("expected written pages hidden without verbose")
		}
	})

	t.Run("verbose mode lists written pages", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithVerbose(true))

		if _, err := w.Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "WRITTEN PAGES") {
			t.Error("expected written pages section")
		}
		if !strings.Contains(output, "-> out/output-md/en/a.md") {
			t.Error("expected output path listed")
		}
	})

	t.Run("handles cancelled run", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		result := createTestResult()
		result.Cancelled = true

		if _, err := w.Write(result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "CANCELLED") {
			t.Error("expected cancelled status")
		}
	})
}

func TestSimpleWriterShowEmpty(t *testing.T) {
	t.Parallel()

	t.Run("shows empty failures section", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithShowEmpty(true))

		if _, err := w.Write(createCleanResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "No failed pages") {
			t.Error("expected empty failures message")
		}
	})

	t.Run("hides failures section without showEmpty", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		if _, err := w.Write(createCleanResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if strings.Contains(buf.String(), "FAILED PAGES") {
			t.Error("expected failures section hidden")
		}
	})
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("outputs valid JSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		if _, err := w.Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded model.CrawlResult
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded.RunID != "run-1234" {
			t.Errorf("expected run ID run-1234, got %s", decoded.RunID)
		}
		if len(decoded.Outcomes) != 4 {
			t.Errorf("expected 4 outcomes, got %d", len(decoded.Outcomes))
		}
		if got := len(decoded.Failed()); got != 2 {
			t.Errorf("expected 2 failed outcomes after decoding, got %d", got)
		}
	})

	t.Run("compact output by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		if _, err := w.Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if strings.Count(buf.String(), "\n") != 1 {
			t.Error("expected compact JSON on a single line")
		}
	})

	t.Run("pretty print with indent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithPrettyPrint())

		if _, err := w.Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "\n  \"run_id\"") {
			t.Error("expected two-space indentation")
		}
	})

	t.Run("uses custom prefix and indent", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithIndent(">", "\t"))

		if _, err := w.Write(createTestResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "\n>\t\"run_id\"") {
			t.Error("expected custom prefix and tab indentation")
		}
	})
}

func TestFullJSONWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewFullJSONWriter(&buf, "1.2.3", WithPrettyPrint())

	if _, err := w.Write(createTestResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded struct {
		Version string `json:"version"`
		Summary struct {
			Written int `json:"written"`
			Failed  int `json:"failed"`
		} `json:"summary"`
		Result struct {
			RunID string `json:"run_id"`
		} `json:"result"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Version != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %s", decoded.Version)
	}
	if decoded.Summary.Written != 2 || decoded.Summary.Failed != 2 {
		t.Errorf("expected 2 written and 2 failed, got %d and %d", decoded.Summary.Written, decoded.Summary.Failed)
	}
	if decoded.Result.RunID != "run-1234" {
		t.Errorf("expected run ID run-1234, got %s", decoded.Result.RunID)
	}
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes tables and chart", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		n, err := w.Write(createTestResult())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n == 0 {
			t.Error("expected non-zero byte count")
		}

		output := buf.String()
		for _, want := range []string{
			"# Sitemirror Crawl Report",
			"## Summary",
			"## Failed Pages",
			"pie",
			"FetchError",
			"https://example.com/en/missing.html",
			"[!WARNING]",
			"<details>",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("clean run gets a tip and no chart", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		if _, err := w.Write(createCleanResult()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "[!TIP]") {
			t.Error("expected tip alert")
		}
		if strings.Contains(output, "Failures by Kind") {
			t.Error("expected no pie chart without failures")
		}
		if !strings.Contains(output, "No failed pages.") {
			t.Error("expected empty failures message")
		}
	})

	t.Run("all failed gets a caution", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)
		result := createTestResult()
		result.Outcomes = result.Outcomes[2:]

		if _, err := w.Write(result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !strings.Contains(buf.String(), "[!CAUTION]") {
			t.Error("expected caution alert")
		}
	})
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var buf1, buf2 bytes.Buffer
	w := NewMultiWriter(NewSimpleWriter(&buf1), NewJSONWriter(&buf2))

	n, err := w.Write(createTestResult())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != buf1.Len()+buf2.Len() {
		t.Errorf("expected total %d bytes, got %d", buf1.Len()+buf2.Len(), n)
	}
	if !strings.Contains(buf1.String(), "SITEMIRROR CRAWL REPORT") {
		t.Error("expected text report in first writer")
	}
	if !json.Valid(buf2.Bytes()) {
		t.Error("expected JSON in second writer")
	}
}

func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short string unchanged", "abc", 10, "abc"},
		{"long string gets ellipsis", "abcdefghij", 6, "abc..."},
		{"tiny limit cuts", "abcdef", 2, "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := truncateString(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
