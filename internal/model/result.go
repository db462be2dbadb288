package model

import (
	"sort"
	"time"
)

// PageOutcome is the record of one processed URL.
type PageOutcome struct {
	URL       string        `json:"url"`
	FinalURL  string        `json:"final_url,omitempty"`
	Title     string        `json:"title,omitempty"`
	State     PageState     `json:"state"`
	Path      string        `json:"path,omitempty"`
	Depth     int           `json:"depth"`
	Links     int           `json:"links_queued"`
	ErrorKind ErrorKind     `json:"error_kind,omitempty"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration_ns"`
}

// CrawlResult is the outcome of one crawl run.
type CrawlResult struct {
	// RunID uniquely identifies the run in logs and reports.
	RunID string `json:"run_id"`

	// StartURL is the URL the frontier was seeded with.
	StartURL string `json:"start_url"`

	// Prefix is the scope filter prefix.
	Prefix string `json:"prefix"`

	// Variant is the output variant name.
	Variant string `json:"variant"`

	// OutputRoot is the directory holding the output tree.
	OutputRoot string `json:"output_root"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Cancelled is true when the run stopped before the frontier was empty.
	Cancelled bool `json:"cancelled"`

	// Outcomes holds one entry per processed URL in completion order.
	Outcomes []PageOutcome `json:"outcomes"`
}

// Duration returns the wall-clock duration of the run.
func (r *CrawlResult) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Written returns the outcomes that reached StateDone.
func (r *CrawlResult) Written() []PageOutcome {
	return r.filter(func(o PageOutcome) bool { return o.State == StateDone })
}

// Failed returns the outcomes that ended in StateFailed.
func (r *CrawlResult) Failed() []PageOutcome {
	return r.filter(func(o PageOutcome) bool { return o.State == StateFailed })
}

// FailuresByKind counts failed outcomes per error kind.
func (r *CrawlResult) FailuresByKind() map[ErrorKind]int {
	counts := make(map[ErrorKind]int)
	for _, o := range r.Failed() {
		counts[o.ErrorKind]++
	}
	return counts
}

// SortedOutcomes returns a copy of the outcomes ordered by URL.
// Completion order is not deterministic when pages are fetched in parallel.
func (r *CrawlResult) SortedOutcomes() []PageOutcome {
	out := make([]PageOutcome, len(r.Outcomes))
	copy(out, r.Outcomes)
	sort.Slice(out, func(i, j int) bool { return out[i].URL < out[j].URL })
	return out
}

func (r *CrawlResult) filter(keep func(PageOutcome) bool) []PageOutcome {
	out := make([]PageOutcome, 0)
	for _, o := range r.Outcomes {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}
