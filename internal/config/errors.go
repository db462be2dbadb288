package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and describe what is wrong
// with the configuration.
//
// Design decision: We use package-level sentinel errors so callers can use
// errors.Is() for programmatic handling while the messages stay readable.
var (
	// ErrNoStartURL is returned when no start URL is configured.
	ErrNoStartURL = errors.New("no start URL specified: pass it as an argument, set start_url, or set SITEMIRROR_START_URL")

	// ErrInvalidStartURL is returned when the start URL is not an absolute http(s) URL.
	ErrInvalidStartURL = errors.New("invalid start URL: must be an absolute http or https URL")

	// ErrInvalidIgnorePattern is returned when an ignore pattern is not a
	// valid glob.
	ErrInvalidIgnorePattern = errors.New("invalid ignore pattern")

	// ErrInvalidTimeout is returned when the fetch timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")

	// ErrInvalidMaxPages is returned when the page limit is negative.
	// Use 0 for no limit.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be non-negative")

	// ErrInvalidMaxDepth is returned when the depth limit is negative.
	// Use 0 for no limit.
	ErrInvalidMaxDepth = errors.New("invalid max depth: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidSOCKSProxy is returned when the SOCKS5 proxy is not host:port.
	ErrInvalidSOCKSProxy = errors.New("invalid SOCKS proxy: expected host:port")

	// ErrInvalidLogFormat is returned for log formats other than text and json.
	ErrInvalidLogFormat = errors.New("invalid log format: use text or json")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one report format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrConfigNotFound is returned when an explicitly requested configuration
	// file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
