package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/nao1215/sitemirror/internal/config"
	"github.com/nao1215/sitemirror/internal/crawler"
	"github.com/nao1215/sitemirror/internal/fetcher"
	sitelog "github.com/nao1215/sitemirror/internal/log"
	"github.com/nao1215/sitemirror/internal/mirror"
	"github.com/nao1215/sitemirror/internal/model"
	"github.com/nao1215/sitemirror/internal/pipeline"
	"github.com/nao1215/sitemirror/internal/report"
	"github.com/nao1215/sitemirror/internal/transform"
	"github.com/spf13/cobra"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [start-url]",
		Short: "Crawl a site and mirror its pages to disk",
		Long: `Crawl fetches the start URL, writes it to disk, and follows every link that
starts with the prefix. Each URL is fetched at most once per run.

Pages that fail to fetch, convert, or write are logged and skipped; the
crawl continues with the rest of the frontier.

Examples:
  # Mirror a guide as Markdown into ./output-md
  sitemirror crawl https://www.canada.ca/en/immigration-refugees-citizenship/services/immigrate-canada.html

  # Plain text, explicit prefix, four workers
  sitemirror crawl -f txt -w 4 -p https://example.com/docs/ https://example.com/docs/index.html

  # Stop after 100 pages and print a JSON report
  sitemirror crawl --max-pages 100 --json https://example.com/docs/

Configuration file (.sitemirror.yaml) example:
  start_url: https://example.com/docs/index.html
  prefix: https://example.com/docs/
  variant: md
  ignore_patterns: ["*.pdf"]
  headers:
    Accept-Language: en`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCrawlCmd,
	}

	cmd.Flags().StringP("prefix", "p", "",
		"Only follow links starting with this prefix (default: directory of the start URL)")
	cmd.Flags().StringP("variant", "f", config.DefaultVariant,
		"Output variant: html, txt, or md")
	cmd.Flags().StringP("output-dir", "o", config.DefaultOutputDir,
		"Base directory for the output-<variant> tree")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each page fetch")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers,
		"Number of pages processed concurrently")
	cmd.Flags().Int("max-pages", 0,
		"Maximum number of pages to crawl (0 = no limit)")
	cmd.Flags().Int("max-depth", 0,
		"Maximum link depth from the start URL (0 = no limit)")
	cmd.Flags().Bool("boundary-match", false,
		"Require a path boundary (/ ? # .) right after the prefix")
	cmd.Flags().StringSlice("ignore", nil,
		"URL path glob to skip (repeatable, e.g. --ignore '*.pdf')")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with each request")
	cmd.Flags().String("socks-proxy", "",
		"Route requests through a SOCKS5 proxy at host:port (e.g. 127.0.0.1:9050)")

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .sitemirror.yaml or the XDG config directory)")

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().String("report", "",
		"Write the run report to this file instead of stdout")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := sitelog.New(cmd.ErrOrStderr(), cfg.LogFormat, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, runErr := runCrawl(ctx, cfg, logger, newProgress(cfg.Verbose))
	if result != nil {
		if err := outputReport(cmd.OutOrStdout(), cfg, result); err != nil {
			return err
		}
	}

	if errors.Is(runErr, context.Canceled) {
		return errors.New("crawl interrupted: partial results written")
	}
	return runErr
}

// buildConfig loads the configuration file and environment, then applies
// the flags the user set explicitly.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if len(args) > 0 {
		cfg.StartURL = args[0]
	}

	flags := cmd.Flags()
	stringFlags := map[string]*string{
		"prefix":      &cfg.Prefix,
		"variant":     &cfg.Variant,
		"output-dir":  &cfg.OutputDir,
		"user-agent":  &cfg.UserAgent,
		"socks-proxy": &cfg.SOCKSProxy,
		"log-format":  &cfg.LogFormat,
	}
	for name, dst := range stringFlags {
		if !flags.Changed(name) {
			continue
		}
		if *dst, err = flags.GetString(name); err != nil {
			return nil, err
		}
	}

	intFlags := map[string]*int{
		"workers":   &cfg.Workers,
		"max-pages": &cfg.MaxPages,
		"max-depth": &cfg.MaxDepth,
	}
	for name, dst := range intFlags {
		if !flags.Changed(name) {
			continue
		}
		if *dst, err = flags.GetInt(name); err != nil {
			return nil, err
		}
	}

	boolFlags := map[string]*bool{
		"boundary-match": &cfg.BoundaryMatch,
		"verbose":        &cfg.Verbose,
	}
	for name, dst := range boolFlags {
		if !flags.Changed(name) {
			continue
		}
		if *dst, err = flags.GetBool(name); err != nil {
			return nil, err
		}
	}

	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}

	if flags.Changed("ignore") {
		if cfg.IgnorePatterns, err = flags.GetStringSlice("ignore"); err != nil {
			return nil, err
		}
	}

	// Report options are command-line only.
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("report"); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newDriver wires the crawl components from cfg.
func newDriver(cfg *config.Config, logger *slog.Logger, progress pipeline.ProgressFunc) (*pipeline.Driver, error) {
	variant := cfg.OutputVariant()

	tr, err := transform.New(variant)
	if err != nil {
		return nil, err
	}

	client, err := fetcher.NewHTTPClient(
		fetcher.WithHeaders(cfg.Headers),
		fetcher.WithSOCKS5Proxy(cfg.SOCKSProxy),
	)
	if err != nil {
		return nil, err
	}

	f := fetcher.New(
		fetcher.WithHTTPClient(client),
		fetcher.WithUserAgent(cfg.UserAgent),
		fetcher.WithMaxBodySize(cfg.BodySizeLimit()),
		fetcher.WithTimeout(cfg.Timeout),
		fetcher.WithLogger(logger),
	)

	scope := crawler.NewScopeFilter(cfg.EffectivePrefix(),
		crawler.WithBoundaryMatch(cfg.BoundaryMatch),
		crawler.WithIgnorePatterns(cfg.IgnorePatterns),
	)

	opts := []pipeline.DriverOption{
		pipeline.WithWorkers(cfg.Workers),
		pipeline.WithPageLimit(cfg.MaxPages),
		pipeline.WithDepthLimit(cfg.MaxDepth),
		pipeline.WithDriverLogger(logger),
	}
	if progress != nil {
		opts = append(opts, pipeline.WithProgress(progress))
	}

	return pipeline.NewDriver(f, tr, mirror.NewMapper(cfg.OutputDir, variant), scope, opts...), nil
}

// runCrawl runs one crawl. The progress indicator, if any, is stopped
// before it returns.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger, prog *progress) (*model.CrawlResult, error) {
	var fn pipeline.ProgressFunc
	if prog != nil {
		fn = prog.update
		prog.start()
		defer prog.stop()
	}

	d, err := newDriver(cfg, logger, fn)
	if err != nil {
		return nil, err
	}

	return d.Run(ctx, cfg.StartURL)
}

// progress shows a spinner on stderr while the crawl runs.
type progress struct {
	s *spinner.Spinner
}

// newProgress returns nil in verbose mode, where the log lines already show
// each page.
func newProgress(verbose bool) *progress {
	if verbose {
		return nil
	}
	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " starting crawl"
	return &progress{s: s}
}

func (p *progress) start() { p.s.Start() }

func (p *progress) stop() { p.s.Stop() }

func (p *progress) update(outcome model.PageOutcome, stats crawler.FrontierStats) {
	p.s.Lock()
	p.s.Suffix = fmt.Sprintf(" [%d done, %d queued] %s", stats.Visited-stats.Queued-stats.InFlight, stats.Queued, outcome.URL)
	p.s.Unlock()
}

// outputReport writes the run report in the requested format.
func outputReport(stdout io.Writer, cfg *config.Config, result *model.CrawlResult) error {
	output := stdout
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		output = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(output)
	default:
		w = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	if _, err := w.Write(result); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
