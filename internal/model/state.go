package model

import (
	"errors"
	"fmt"
)

// ErrUnknownPageState is returned when a state name cannot be parsed.
var ErrUnknownPageState = errors.New("unknown page state")

// PageState is the position of one URL in the crawl state machine.
//
//	Pending -> Fetched -> Transformed -> Written -> LinksQueued -> Done
//
// Any fetch, transform, path, or write error moves the URL to Failed.
// Done and Failed are terminal.
type PageState int

const (
	// StatePending means the URL is in the frontier and not yet fetched.
	StatePending PageState = iota

	// StateFetched means the page body has been fetched and decoded.
	StateFetched

	// StateTransformed means the content for the output variant is ready.
	StateTransformed

	// StateWritten means the artifact has been written to disk.
	StateWritten

	// StateLinksQueued means in-scope links have been added to the frontier.
	StateLinksQueued

	// StateDone is the terminal success state.
	StateDone

	// StateFailed is the terminal failure state.
	StateFailed
)

// String returns a human-readable representation of the state.
func (s PageState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateFetched:
		return "fetched"
	case StateTransformed:
		return "transformed"
	case StateWritten:
		return "written"
	case StateLinksQueued:
		return "links_queued"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further transition is possible.
func (s PageState) IsTerminal() bool {
	return s == StateDone || s == StateFailed
}

// MarshalText implements encoding.TextMarshaler so states render by name in
// JSON reports.
func (s PageState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so JSON reports can be
// read back. Unknown names are rejected.
func (s *PageState) UnmarshalText(text []byte) error {
	name := string(text)
	for state := StatePending; state <= StateFailed; state++ {
		if state.String() == name {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownPageState, name)
}
