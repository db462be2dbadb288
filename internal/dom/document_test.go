package dom

import (
	"slices"
	"strings"
	"testing"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>  Immigrate to Canada </title>
  <style>body { color: red; }</style>
</head>
<body>
  <h1>Immigrate</h1>
  <script>var secret = "hidden";</script>
  <p>Apply <a href="/en/b.html">next</a> or <a href="c.html">other</a>.</p>
  <a name="anchor-only">no href</a>
  <noscript>enable js</noscript>
  <!-- comment -->
</body>
</html>`

func mustParse(t *testing.T, body string) Document {
	t.Helper()

	doc, err := Parse(body)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return doc
}

func TestDocumentTitle(t *testing.T) {
	t.Parallel()

	t.Run("title is trimmed", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, samplePage)
		if got := doc.Title(); got != "Immigrate to Canada" {
			t.Errorf("expected %q, got %q", "Immigrate to Canada", got)
		}
	})

	t.Run("missing title is empty", func(t *testing.T) {
		t.Parallel()

		doc := mustParse(t, "<html><body>x</body></html>")
		if got := doc.Title(); got != "" {
			t.Errorf("expected empty title, got %q", got)
		}
	})
}

func TestDocumentQueryAttribute(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, samplePage)

	got := slices.Collect(doc.QueryAttribute("a", "href"))
	want := []string{"/en/b.html", "c.html"}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestDocumentQueryAttributeStopsEarly(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, samplePage)

	count := 0
	for range doc.QueryAttribute("a", "href") {
		count++
		break
	}
	if count != 1 {
		t.Errorf("expected iteration to stop after 1, got %d", count)
	}
}

func TestDocumentQueryText(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, samplePage)
	if got := doc.QueryText("h1"); got != "Immigrate" {
		t.Errorf("expected %q, got %q", "Immigrate", got)
	}
}

func TestDocumentOuterHTML(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, samplePage)

	out, err := doc.OuterHTML("body")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "<body>") || !strings.HasSuffix(out, "</body>") {
		t.Errorf("expected body element markup, got %q", out)
	}
	if !strings.Contains(out, `<a href="/en/b.html">next</a>`) {
		t.Errorf("expected link markup in body, got %q", out)
	}

	none, err := doc.OuterHTML("article")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if none != "" {
		t.Errorf("expected empty markup for missing element, got %q", none)
	}
}

func TestDocumentVisibleText(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, samplePage)
	text := doc.VisibleText("body")

	for _, want := range []string{"Immigrate", "Apply ", "next", "other", "no href"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected visible text to contain %q, got %q", want, text)
		}
	}
	for _, hidden := range []string{"secret", "enable js", "comment", "color: red"} {
		if strings.Contains(text, hidden) {
			t.Errorf("expected %q to be excluded, got %q", hidden, text)
		}
	}
}

func TestParseLenient(t *testing.T) {
	t.Parallel()

	doc := mustParse(t, "<p>unclosed <b>bold")
	if got := doc.VisibleText("body"); got != "unclosed bold" {
		t.Errorf("expected %q, got %q", "unclosed bold", got)
	}
}
