// Package transform renders a fetched page in one of the output variants.
package transform

import (
	"fmt"
	"strings"

	htm "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/nao1215/sitemirror/internal/dom"
	"github.com/nao1215/sitemirror/internal/model"
)

// Transformer turns a fetched page into the content of its output file.
// One Transformer is selected per run with New and shared by all workers,
// so implementations hold no per-page state.
type Transformer interface {
	// Variant returns the output variant this transformer produces.
	Variant() model.Variant

	// Transform renders page. doc is the parsed form of page.Body.
	// Failures wrap model.ErrTransform.
	Transform(page *model.Page, doc dom.Document) (string, error)
}

// New returns the Transformer for variant.
func New(variant model.Variant) (Transformer, error) {
	switch variant {
	case model.VariantRawHTML:
		return rawHTML{}, nil
	case model.VariantPlainText:
		return plainText{}, nil
	case model.VariantMarkdown:
		return markdown{}, nil
	default:
		return nil, fmt.Errorf("%w: %d", model.ErrUnknownVariant, int(variant))
	}
}

// rawHTML keeps the page markup: the title in a title tag, then the
// serialized body element.
type rawHTML struct{}

func (rawHTML) Variant() model.Variant { return model.VariantRawHTML }

func (rawHTML) Transform(_ *model.Page, doc dom.Document) (string, error) {
	body, err := doc.OuterHTML("body")
	if err != nil {
		return "", fmt.Errorf("%w: %w", model.ErrTransform, err)
	}
	return fmt.Sprintf("<title>%s</title>\n%s\n", doc.Title(), body), nil
}

// plainText keeps only the visible text of the body, whitespace-normalized.
type plainText struct{}

func (plainText) Variant() model.Variant { return model.VariantPlainText }

func (plainText) Transform(_ *model.Page, doc dom.Document) (string, error) {
	text := NormalizeWhitespace(doc.VisibleText("body"))
	return fmt.Sprintf("Title: %s\n\nContent: %s\n", doc.Title(), text), nil
}

// markdown converts the body element to Markdown, keeping hyperlinks as
// Markdown links. The head is not converted.
type markdown struct{}

func (markdown) Variant() model.Variant { return model.VariantMarkdown }

func (markdown) Transform(_ *model.Page, doc dom.Document) (string, error) {
	body, err := doc.OuterHTML("body")
	if err != nil {
		return "", fmt.Errorf("%w: %w", model.ErrTransform, err)
	}

	out, err := htm.ConvertString(body)
	if err != nil {
		return "", fmt.Errorf("%w: markdown conversion: %w", model.ErrTransform, err)
	}

	out = strings.TrimRight(out, "\n")
	if out == "" {
		return "", nil
	}
	return out + "\n", nil
}

// NormalizeWhitespace collapses every run of Unicode whitespace to a single
// space and trims both ends.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
