package dom

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrParse is returned when a document cannot be parsed.
var ErrParse = errors.New("failed to parse HTML document")

// Document is a parsed HTML page that can be queried.
//
// Design decision: We expose a small capability interface instead of
// *goquery.Document so the link extractor and transformers depend on what
// they ask for, not on how the HTML tree is stored.
type Document interface {
	// Title returns the trimmed text of the first head title element,
	// or "" when the page has none.
	Title() string

	// QueryText returns the concatenated text of every node matching selector.
	QueryText(selector string) string

	// QueryAttribute yields the value of attr on every element matching
	// selector, in document order. Elements without the attribute are skipped.
	QueryAttribute(selector, attr string) iter.Seq[string]

	// OuterHTML returns the serialized markup of the first element matching
	// selector, or "" when nothing matches.
	OuterHTML(selector string) (string, error)

	// VisibleText returns the text nodes under the first element matching
	// selector, concatenated in document order. Text inside script, style,
	// noscript and template elements is not visible and is left out.
	VisibleText(selector string) string
}

// document implements Document with goquery.
type document struct {
	doc *goquery.Document
}

// Parse parses an HTML body into a Document.
// The HTML5 parser is lenient, so most malformed markup still parses.
func Parse(body string) (Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return &document{doc: doc}, nil
}

// Title returns the page title.
func (d *document) Title() string {
	return strings.TrimSpace(d.doc.Find("head title").First().Text())
}

// QueryText returns the text of every match.
func (d *document) QueryText(selector string) string {
	return d.doc.Find(selector).Text()
}

// QueryAttribute yields attribute values lazily.
func (d *document) QueryAttribute(selector, attr string) iter.Seq[string] {
	nodes := d.doc.Find(selector).Nodes
	return func(yield func(string) bool) {
		for _, n := range nodes {
			val, ok := getAttr(n, attr)
			if !ok {
				continue
			}
			if !yield(val) {
				return
			}
		}
	}
}

// OuterHTML returns the markup of the first match.
func (d *document) OuterHTML(selector string) (string, error) {
	sel := d.doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", nil
	}
	out, err := goquery.OuterHtml(sel)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", selector, err)
	}
	return out, nil
}

// VisibleText walks the first match and collects visible text nodes.
func (d *document) VisibleText(selector string) string {
	sel := d.doc.Find(selector).First()
	if sel.Length() == 0 {
		return ""
	}

	var sb strings.Builder
	collectText(sel.Nodes[0], &sb)
	return sb.String()
}

// collectText appends the text of n and its descendants to sb.
func collectText(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		if isInvisible(n.DataAtom) {
			return
		}
	case html.CommentNode:
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

// isInvisible reports whether text inside the element is never rendered.
func isInvisible(a atom.Atom) bool {
	switch a {
	case atom.Script, atom.Style, atom.Noscript, atom.Template:
		return true
	default:
		return false
	}
}

// getAttr gets an attribute value from a node.
func getAttr(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}
