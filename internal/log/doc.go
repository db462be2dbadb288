// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// This package extends slog to provide:
//   - Automatic sanitization of sensitive values (cookies, tokens, secrets)
//   - Redaction of credential-like query parameters in logged URLs
//   - Human-readable text output backed by charmbracelet/log, or JSON output
//
// # Security Features
//
// Custom request headers from the configuration file can carry credentials,
// and crawled URLs sometimes carry tokens in their query string. The
// SecureHandler masks both before a record reaches the output:
//   - HTTP headers (Authorization, Cookie, Set-Cookie, X-Api-Key)
//   - Secret values detected by pattern matching (bearer tokens, JWTs, keys)
//   - Query parameters such as token=, key=, sig= inside URL values
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//	logger.Info("fetched", "url", "https://example.test/a.html?token=abc")
//	// url=https://example.test/a.html?token=***REDACTED***
package log
