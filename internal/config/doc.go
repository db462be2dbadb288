// Package config provides configuration structures and utilities for sitemirror.
// It defines the crawl settings (start URL, scope prefix, output variant,
// output directory, timeouts, worker count), loads them from a YAML file and
// SITEMIRROR_* environment variables, and validates them before a crawl starts.
package config
