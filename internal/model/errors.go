package model

import "errors"

// Page-level errors.
// Each component wraps its underlying cause with one of these sentinels so the
// crawl driver can classify a failure with errors.Is. All four are page-local:
// the failed page is abandoned and the crawl continues.
var (
	// ErrFetch is returned when a page cannot be fetched: network failure,
	// timeout, non-success status code, or undecodable body.
	ErrFetch = errors.New("fetch error")

	// ErrTransform is returned when fetched HTML cannot be parsed or converted.
	ErrTransform = errors.New("transform error")

	// ErrPath is returned when the output path cannot be built or its
	// directories cannot be created.
	ErrPath = errors.New("path error")

	// ErrWrite is returned when the output file cannot be written.
	ErrWrite = errors.New("write error")
)

// ErrorKind names the class of a page failure.
type ErrorKind string

const (
	// ErrorKindNone means the page did not fail.
	ErrorKindNone ErrorKind = ""
	// ErrorKindFetch corresponds to ErrFetch.
	ErrorKindFetch ErrorKind = "FetchError"
	// ErrorKindTransform corresponds to ErrTransform.
	ErrorKindTransform ErrorKind = "TransformError"
	// ErrorKindPath corresponds to ErrPath.
	ErrorKindPath ErrorKind = "PathError"
	// ErrorKindWrite corresponds to ErrWrite.
	ErrorKindWrite ErrorKind = "WriteError"
	// ErrorKindOther is any error not wrapped with a page-level sentinel,
	// typically context cancellation.
	ErrorKindOther ErrorKind = "Error"
)

// ErrorKindOf classifies err by the page-level sentinel it wraps.
func ErrorKindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrorKindNone
	case errors.Is(err, ErrFetch):
		return ErrorKindFetch
	case errors.Is(err, ErrTransform):
		return ErrorKindTransform
	case errors.Is(err, ErrPath):
		return ErrorKindPath
	case errors.Is(err, ErrWrite):
		return ErrorKindWrite
	default:
		return ErrorKindOther
	}
}
