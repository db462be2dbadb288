package model

import (
	"errors"
	"fmt"
	"strings"
)

// Variant selects the content transformer, the output file extension, and
// the output root folder. It is chosen once per crawl run.
type Variant int

const (
	// VariantRawHTML writes the page title and the <body> markup.
	VariantRawHTML Variant = iota

	// VariantPlainText writes the page title and the whitespace-normalized
	// visible text of the body.
	VariantPlainText

	// VariantMarkdown writes the page converted to Markdown.
	VariantMarkdown
)

// ErrUnknownVariant is returned by ParseVariant for unsupported names.
var ErrUnknownVariant = errors.New("unknown output variant: use html, txt, or md")

// Variants lists all output variants in declaration order.
func Variants() []Variant {
	return []Variant{VariantRawHTML, VariantPlainText, VariantMarkdown}
}

// String returns the short name of the variant.
func (v Variant) String() string {
	switch v {
	case VariantRawHTML:
		return "html"
	case VariantPlainText:
		return "txt"
	case VariantMarkdown:
		return "md"
	default:
		return "unknown"
	}
}

// Extension returns the file extension, including the leading dot.
func (v Variant) Extension() string {
	switch v {
	case VariantRawHTML:
		return ".html"
	case VariantPlainText:
		return ".txt"
	case VariantMarkdown:
		return ".md"
	default:
		return ""
	}
}

// RootDir returns the name of the folder that holds this variant's output tree.
func (v Variant) RootDir() string {
	return "output-" + v.String()
}

// ParseVariant converts a user-supplied name to a Variant.
// Matching is case-insensitive.
func ParseVariant(name string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "html", "raw", "rawhtml", "raw-html":
		return VariantRawHTML, nil
	case "txt", "text", "plaintext", "plain-text":
		return VariantPlainText, nil
	case "md", "markdown":
		return VariantMarkdown, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
	}
}
