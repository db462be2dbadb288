package pipeline

import (
	"context"
	"fmt"

	"github.com/nao1215/sitemirror/internal/crawler"
	"github.com/nao1215/sitemirror/internal/dom"
	"github.com/nao1215/sitemirror/internal/mirror"
	"github.com/nao1215/sitemirror/internal/model"
	"github.com/nao1215/sitemirror/internal/transform"
)

// PageFetcher retrieves one page. *fetcher.Fetcher implements it.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*model.Page, error)
}

// Enqueuer accepts discovered links. *crawler.Frontier implements it.
type Enqueuer interface {
	Push(rawURL string, depth int) bool
}

// FetchStep downloads the job's URL.
// Pending -> Fetched.
type FetchStep struct {
	fetcher PageFetcher
}

// NewFetchStep creates a FetchStep.
func NewFetchStep(fetcher PageFetcher) *FetchStep {
	return &FetchStep{fetcher: fetcher}
}

// Name returns the step name.
func (s *FetchStep) Name() string {
	return "fetch"
}

// Do executes the fetch step.
func (s *FetchStep) Do(ctx context.Context, job *model.PageJob) error {
	page, err := s.fetcher.Fetch(ctx, job.URL)
	if err != nil {
		return err
	}

	job.Page = page
	job.State = model.StateFetched
	return nil
}

// TransformStep parses the fetched page and renders the output variant.
// Fetched -> Transformed.
type TransformStep struct {
	transformer transform.Transformer
}

// NewTransformStep creates a TransformStep.
func NewTransformStep(transformer transform.Transformer) *TransformStep {
	return &TransformStep{transformer: transformer}
}

// Name returns the step name.
func (s *TransformStep) Name() string {
	return "transform"
}

// Do executes the transform step.
func (s *TransformStep) Do(_ context.Context, job *model.PageJob) error {
	if job.Page == nil {
		return fmt.Errorf("%w: no page to transform", model.ErrTransform)
	}

	doc, err := dom.Parse(job.Page.Body)
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrTransform, err)
	}
	job.Doc = doc
	job.Page.Title = doc.Title()

	content, err := s.transformer.Transform(job.Page, doc)
	if err != nil {
		return err
	}

	job.Artifact = &model.Artifact{Content: content}
	job.State = model.StateTransformed
	return nil
}

// WriteStep maps the job's URL to a file and writes the artifact.
// Transformed -> Written.
//
// Design decision: The path comes from the requested URL, not the URL after
// redirects. The frontier already guarantees requested URLs are unique, so
// two pages redirecting to the same target still get distinct files.
type WriteStep struct {
	mapper *mirror.Mapper
	writer *mirror.Writer
}

// NewWriteStep creates a WriteStep.
func NewWriteStep(mapper *mirror.Mapper, writer *mirror.Writer) *WriteStep {
	return &WriteStep{mapper: mapper, writer: writer}
}

// Name returns the step name.
func (s *WriteStep) Name() string {
	return "write"
}

// Do executes the write step.
func (s *WriteStep) Do(_ context.Context, job *model.PageJob) error {
	if job.Artifact == nil {
		return fmt.Errorf("%w: no content to write", model.ErrWrite)
	}

	path, err := s.mapper.Map(job.URL)
	if err != nil {
		return err
	}
	if err := s.mapper.Ensure(path); err != nil {
		return err
	}

	job.Artifact.Path = path
	if err := s.writer.Write(*job.Artifact); err != nil {
		return err
	}

	job.State = model.StateWritten
	return nil
}

// LinkStep enqueues the page's in-scope links one hop deeper.
// Written -> LinksQueued.
type LinkStep struct {
	scope    *crawler.ScopeFilter
	frontier Enqueuer
}

// NewLinkStep creates a LinkStep.
func NewLinkStep(scope *crawler.ScopeFilter, frontier Enqueuer) *LinkStep {
	return &LinkStep{scope: scope, frontier: frontier}
}

// Name returns the step name.
func (s *LinkStep) Name() string {
	return "links"
}

// Do executes the link step. Links resolve against the final URL so
// relative hrefs on a redirected page point where the browser would go.
func (s *LinkStep) Do(_ context.Context, job *model.PageJob) error {
	if job.Doc == nil || job.Page == nil {
		job.State = model.StateLinksQueued
		return nil
	}

	for link := range crawler.Links(job.Doc, job.Page.BaseURL()) {
		if !s.scope.Allow(link) {
			continue
		}
		if s.frontier.Push(link, job.Depth+1) {
			job.Links = append(job.Links, link)
		}
	}

	job.State = model.StateLinksQueued
	return nil
}
