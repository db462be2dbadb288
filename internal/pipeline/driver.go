package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nao1215/sitemirror/internal/crawler"
	"github.com/nao1215/sitemirror/internal/mirror"
	"github.com/nao1215/sitemirror/internal/model"
	"github.com/nao1215/sitemirror/internal/transform"
	"golang.org/x/sync/errgroup"
)

// ProgressFunc is called after each page finishes, from the worker that
// processed it. It must be safe for concurrent use.
type ProgressFunc func(outcome model.PageOutcome, stats crawler.FrontierStats)

// Driver runs a crawl: it seeds the frontier with the start URL and processes
// frontier items on a bounded worker pool until none are left.
//
// Design decision: We use errgroup.SetLimit rather than a hand-written worker
// pool because errgroup handles the concurrency correctly. Each frontier item
// gets its own goroutine, but only 'workers' goroutines run simultaneously.
// Workers always return nil: a page failure is recorded in its outcome and
// must not cancel the other pages.
type Driver struct {
	fetcher     PageFetcher
	transformer transform.Transformer
	mapper      *mirror.Mapper
	scope       *crawler.ScopeFilter

	// workers is the maximum number of pages processed concurrently.
	workers int

	// maxPages and maxDepth bound the frontier. 0 means no limit.
	maxPages int
	maxDepth int

	// logger is used for crawl-level logging.
	logger *slog.Logger

	// progress is called after each page, if set.
	progress ProgressFunc
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithWorkers sets the number of pages processed concurrently.
// Default is 1, which processes pages one at a time in frontier order.
func WithWorkers(n int) DriverOption {
	return func(d *Driver) {
		if n > 0 {
			d.workers = n
		}
	}
}

// WithPageLimit stops accepting new URLs after n pages. 0 means no limit.
func WithPageLimit(n int) DriverOption {
	return func(d *Driver) {
		d.maxPages = n
	}
}

// WithDepthLimit stops following links more than n hops from the start URL.
// 0 means no limit.
func WithDepthLimit(n int) DriverOption {
	return func(d *Driver) {
		d.maxDepth = n
	}
}

// WithDriverLogger sets a custom logger for the crawl.
func WithDriverLogger(logger *slog.Logger) DriverOption {
	return func(d *Driver) {
		d.logger = logger
	}
}

// WithProgress sets a callback invoked after each page.
func WithProgress(fn ProgressFunc) DriverOption {
	return func(d *Driver) {
		d.progress = fn
	}
}

// NewDriver creates a Driver from its components.
func NewDriver(
	fetcher PageFetcher,
	transformer transform.Transformer,
	mapper *mirror.Mapper,
	scope *crawler.ScopeFilter,
	opts ...DriverOption,
) *Driver {
	d := &Driver{
		fetcher:     fetcher,
		transformer: transformer,
		mapper:      mapper,
		scope:       scope,
		workers:     1,
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.logger == nil {
		d.logger = slog.Default()
	}

	return d
}

// newPipeline builds the per-run pipeline.
// The frontier and writer are per run so a Driver can be reused.
func (d *Driver) newPipeline(frontier *crawler.Frontier, writer *mirror.Writer) *Pipeline {
	p := New(WithLogger(d.logger))
	p.AddSteps(
		NewFetchStep(d.fetcher),
		NewTransformStep(d.transformer),
		NewWriteStep(d.mapper, writer),
		NewLinkStep(d.scope, frontier),
	)
	return p
}

// Run crawls from startURL. The start URL is always processed, even when
// it falls outside the scope prefix; discovered links must be in scope.
//
// Run returns when the frontier is empty and no page is in flight, or when
// ctx is cancelled. The result is complete in both cases; on cancellation
// the context error is returned alongside it and pages that were in flight
// are recorded as failed.
func (d *Driver) Run(ctx context.Context, startURL string) (*model.CrawlResult, error) {
	result := &model.CrawlResult{
		RunID:      uuid.NewString(),
		StartURL:   startURL,
		Prefix:     d.scope.Prefix(),
		Variant:    d.transformer.Variant().String(),
		OutputRoot: d.mapper.Root(),
		StartedAt:  time.Now(),
	}

	frontier := crawler.NewFrontier(
		crawler.WithMaxPages(d.maxPages),
		crawler.WithMaxDepth(d.maxDepth),
	)
	writer := mirror.NewWriter()
	pipe := d.newPipeline(frontier, writer)
	d.logger.Debug("pipeline ready", "steps", pipe.StepNames())

	// Cancellation drains the frontier so Next stops handing out work.
	stop := context.AfterFunc(ctx, frontier.Close)
	defer stop()

	frontier.Push(startURL, 0)

	d.logger.Info("starting crawl",
		"run_id", result.RunID,
		"start_url", startURL,
		"prefix", result.Prefix,
		"variant", result.Variant,
		"output", result.OutputRoot,
		"workers", d.workers,
	)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)

	for {
		item, ok := frontier.Next()
		if !ok {
			break
		}

		g.Go(func() error {
			defer frontier.Done()

			job := model.NewPageJob(item.URL, item.Depth)
			_ = pipe.Execute(gctx, job) //nolint:errcheck // Error is stored in the job

			outcome := job.Outcome()

			mu.Lock()
			result.Outcomes = append(result.Outcomes, outcome)
			mu.Unlock()

			if outcome.State == model.StateDone {
				d.logger.Debug("page done",
					"url", outcome.URL,
					"path", outcome.Path,
					"links", outcome.Links,
				)
			}

			if d.progress != nil {
				d.progress(outcome, frontier.Stats())
			}

			return nil
		})
	}

	// Workers never return an error; Wait only joins them.
	_ = g.Wait() //nolint:errcheck // always nil

	result.FinishedAt = time.Now()
	result.Cancelled = ctx.Err() != nil

	stats := frontier.Stats()
	d.logger.Info("crawl complete",
		"run_id", result.RunID,
		"pages", len(result.Outcomes),
		"written", writer.Written(),
		"failed", len(result.Failed()),
		"skipped_by_limits", stats.Rejected,
		"elapsed", result.Duration().Round(time.Millisecond),
		"cancelled", result.Cancelled,
	)

	return result, ctx.Err()
}
