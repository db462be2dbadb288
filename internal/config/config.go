package config

import (
	"fmt"
	"net"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/nao1215/sitemirror/internal/model"
)

// Default configuration values.
const (
	// DefaultVariant is the output variant used when none is configured.
	DefaultVariant = "md"

	// DefaultOutputDir is the base directory that holds the output-* trees.
	DefaultOutputDir = "."

	// DefaultTimeout bounds each page fetch. A fetch that exceeds it is
	// reported as a fetch error and the crawl moves on.
	DefaultTimeout = 30 * time.Second

	// DefaultWorkers of 1 processes one page at a time, in frontier order.
	DefaultWorkers = 1

	// DefaultUserAgent identifies sitemirror in HTTP requests.
	DefaultUserAgent = "sitemirror/1.0 (+https://github.com/nao1215/sitemirror)"

	// DefaultMaxBodySize limits the response body read for one page.
	DefaultMaxBodySize = model.MaxPageSize

	// DefaultLogFormat is the log output format.
	DefaultLogFormat = "text"

	// AppName is the application name used for XDG directory paths.
	AppName = "sitemirror"

	// EnvPrefix is the prefix of environment variables read by Load.
	EnvPrefix = "SITEMIRROR"
)

// Config holds all configuration options for a crawl run.
// It is built once at startup and passed explicitly to the crawl driver
// rather than kept as global state.
//
// Design decision: We use a single flat struct. The number of options is
// small and nesting would add complexity without benefit.
type Config struct {
	// StartURL is the URL the frontier is seeded with.
	StartURL string `mapstructure:"start_url"`

	// Prefix restricts the crawl: only links whose URL starts with Prefix are
	// followed. When empty, the directory of StartURL is used.
	Prefix string `mapstructure:"prefix"`

	// BoundaryMatch makes the scope filter require a path boundary after the
	// prefix, so ".../guide" no longer matches ".../guide-extra.html".
	// The default (false) keeps literal string-prefix matching.
	BoundaryMatch bool `mapstructure:"boundary_match"`

	// IgnorePatterns are URL path glob patterns that are never crawled,
	// even when they match Prefix (e.g., "*.pdf", "/en/news/*").
	IgnorePatterns []string `mapstructure:"ignore_patterns"`

	// Variant is the output variant name: html, txt, or md.
	Variant string `mapstructure:"variant"`

	// OutputDir is the base directory under which output-html, output-txt,
	// or output-md is created.
	OutputDir string `mapstructure:"output_dir"`

	// Timeout bounds each page fetch.
	Timeout time.Duration `mapstructure:"timeout"`

	// Workers is the number of pages processed concurrently.
	Workers int `mapstructure:"workers"`

	// MaxPages stops the crawl after this many pages. 0 means no limit.
	MaxPages int `mapstructure:"max_pages"`

	// MaxDepth stops following links this many hops from the start URL.
	// 0 means no limit.
	MaxDepth int `mapstructure:"max_depth"`

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string `mapstructure:"user_agent"`

	// MaxBodySize is the maximum response body size in bytes to read.
	// Set to 0 to use the default.
	MaxBodySize int64 `mapstructure:"max_body_size"`

	// SOCKSProxy routes requests through a SOCKS5 proxy ("host:port"),
	// e.g. a local Tor daemon at 127.0.0.1:9050. Empty uses the
	// HTTP_PROXY/HTTPS_PROXY environment.
	SOCKSProxy string `mapstructure:"socks_proxy"`

	// Headers are extra HTTP headers sent with every request.
	Headers map[string]string `mapstructure:"headers"`

	// Verbose enables debug logging.
	Verbose bool `mapstructure:"verbose"`

	// LogFormat selects the log output format: text or json.
	LogFormat string `mapstructure:"log_format"`

	// JSONReport prints the run report as JSON. CLI only.
	JSONReport bool `mapstructure:"-"`

	// MarkdownReport prints the run report as Markdown. CLI only.
	MarkdownReport bool `mapstructure:"-"`

	// ReportFile writes the run report to this path instead of stdout. CLI only.
	ReportFile string `mapstructure:"-"`

	// ConfigFilePath is the configuration file that was loaded, if any.
	ConfigFilePath string `mapstructure:"-"`
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero. This also serves as
// documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Variant:     DefaultVariant,
		OutputDir:   DefaultOutputDir,
		Timeout:     DefaultTimeout,
		Workers:     DefaultWorkers,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		LogFormat:   DefaultLogFormat,
	}
}

// XDGConfigDir returns the XDG config directory for sitemirror.
// On Linux: ~/.config/sitemirror
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.StartURL) == "" {
		return ErrNoStartURL
	}

	u, err := url.Parse(c.StartURL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidStartURL
	}

	for _, p := range c.IgnorePatterns {
		if _, err := path.Match(p, ""); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidIgnorePattern, p)
		}
	}

	if _, err := model.ParseVariant(c.Variant); err != nil {
		return err
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}

	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}

	if c.MaxDepth < 0 {
		return ErrInvalidMaxDepth
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.SOCKSProxy != "" {
		if host, _, err := net.SplitHostPort(c.SOCKSProxy); err != nil || host == "" {
			return fmt.Errorf("%w: %q", ErrInvalidSOCKSProxy, c.SOCKSProxy)
		}
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		return ErrInvalidLogFormat
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}

// OutputVariant returns the parsed output variant.
// Call Validate first; an unknown name falls back to Markdown.
func (c *Config) OutputVariant() model.Variant {
	v, err := model.ParseVariant(c.Variant)
	if err != nil {
		return model.VariantMarkdown
	}
	return v
}

// EffectivePrefix returns the scope prefix. When Prefix is empty it is the
// start URL up to and including the last "/" of its path, so
// https://example.test/en/a.html yields https://example.test/en/.
func (c *Config) EffectivePrefix() string {
	if c.Prefix != "" {
		return c.Prefix
	}

	u, err := url.Parse(c.StartURL)
	if err != nil {
		return c.StartURL
	}

	dir := path.Dir(u.Path)
	if strings.HasSuffix(u.Path, "/") {
		dir = strings.TrimSuffix(u.Path, "/")
	}
	if dir == "." || dir == "/" {
		dir = ""
	}

	return fmt.Sprintf("%s://%s%s/", u.Scheme, u.Host, dir)
}

// BodySizeLimit returns MaxBodySize, or the default when it is 0.
func (c *Config) BodySizeLimit() int64 {
	if c.MaxBodySize == 0 {
		return DefaultMaxBodySize
	}
	return c.MaxBodySize
}
