package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/nao1215/sitemirror/internal/model"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// Default fetcher settings.
const (
	// DefaultTimeout bounds one fetch including the body read.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "sitemirror/1.0"
)

// Fetcher performs HTTP GET requests for the crawler.
//
// Design decision: We use a struct with the http.Client rather than
// passing the client on each call because connection pooling works better
// with a shared client and tests can swap the transport.
type Fetcher struct {
	// client is the HTTP client used for all requests.
	client *http.Client

	// userAgent is the User-Agent header to use for requests.
	userAgent string

	// maxBodySize limits the response body size to prevent memory exhaustion.
	// Default is 10MB.
	maxBodySize int64

	// timeout is the per-request timeout.
	timeout time.Duration

	// logger receives debug output about each request.
	logger *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBodySize sets the maximum response body size.
// Bodies larger than this are truncated.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) {
		if timeout > 0 {
			f.timeout = timeout
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New creates a Fetcher. Without WithHTTPClient it uses NewHTTPClient().
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		userAgent:   DefaultUserAgent,
		maxBodySize: model.MaxPageSize,
		timeout:     DefaultTimeout,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		// Without a proxy option NewHTTPClient cannot fail.
		f.client, _ = NewHTTPClient() //nolint:errcheck // see above
	}

	return f
}

// Fetch retrieves rawURL and returns the decoded page.
// Every error wraps model.ErrFetch.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*model.Page, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", model.ErrFetch, err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: timeout after %s: %w", model.ErrFetch, f.timeout, err)
		}
		return nil, fmt.Errorf("%w: %w", model.ErrFetch, err)
	}
	defer resp.Body.Close()

	page := &model.Page{
		URL:         rawURL,
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		Headers:     resp.Header.Clone(),
		ContentType: resp.Header.Get("Content-Type"),
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", model.ErrFetch, resp.StatusCode)
	}

	if !page.IsHTML() {
		return nil, fmt.Errorf("%w: not an HTML page: %s", model.ErrFetch, page.ContentType)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: timeout reading body after %s: %w", model.ErrFetch, f.timeout, err)
		}
		return nil, fmt.Errorf("%w: failed to read body: %w", model.ErrFetch, err)
	}

	body, name, err := decode(raw, page.ContentType)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s body: %w", model.ErrFetch, name, err)
	}

	page.Body = body
	page.Charset = name
	page.ComputeHash()

	f.logger.Debug("fetched page",
		"url", rawURL,
		"final_url", page.FinalURL,
		"status", page.StatusCode,
		"charset", name,
		"bytes", len(raw),
	)

	return page, nil
}

// decode converts raw to UTF-8.
// The encoding comes from a BOM, the Content-Type charset parameter, or a
// <meta> declaration in the first 1024 bytes, in that order, with
// windows-1252 as the HTML5 fallback for undeclared non-UTF-8 content.
func decode(raw []byte, contentType string) (string, string, error) {
	enc, name, _ := charset.DetermineEncoding(raw, contentType)

	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(raw), enc.NewDecoder()))
	if err != nil {
		return "", name, err
	}

	return string(decoded), name, nil
}
