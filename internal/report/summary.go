package report

import (
	"sort"
	"time"

	"github.com/nao1215/sitemirror/internal/model"
)

// Summary is the condensed view of a crawl run shared by all writers.
type Summary struct {
	RunID      string        `json:"run_id"`
	StartURL   string        `json:"start_url"`
	Prefix     string        `json:"prefix"`
	Variant    string        `json:"variant"`
	OutputRoot string        `json:"output_root"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration_ns"`
	Cancelled  bool          `json:"cancelled"`

	Pages   int `json:"pages"`
	Written int `json:"written"`
	Failed  int `json:"failed"`

	// FailuresByKind is ordered by kind name.
	FailuresByKind []KindCount `json:"failures_by_kind,omitempty"`

	// Failures and WrittenPages are ordered by URL.
	Failures     []model.PageOutcome `json:"failures,omitempty"`
	WrittenPages []model.PageOutcome `json:"-"`
}

// KindCount pairs an error kind with the number of pages that failed with it.
type KindCount struct {
	Kind  model.ErrorKind `json:"kind"`
	Count int             `json:"count"`
}

// NewSummary condenses result into a Summary.
func NewSummary(result *model.CrawlResult) *Summary {
	s := &Summary{
		RunID:      result.RunID,
		StartURL:   result.StartURL,
		Prefix:     result.Prefix,
		Variant:    result.Variant,
		OutputRoot: result.OutputRoot,
		StartedAt:  result.StartedAt,
		Duration:   result.Duration(),
		Cancelled:  result.Cancelled,
		Pages:      len(result.Outcomes),
	}

	for _, o := range result.SortedOutcomes() {
		switch o.State {
		case model.StateDone:
			s.WrittenPages = append(s.WrittenPages, o)
		case model.StateFailed:
			s.Failures = append(s.Failures, o)
		}
	}
	s.Written = len(s.WrittenPages)
	s.Failed = len(s.Failures)

	for kind, n := range result.FailuresByKind() {
		s.FailuresByKind = append(s.FailuresByKind, KindCount{Kind: kind, Count: n})
	}
	sort.Slice(s.FailuresByKind, func(i, j int) bool {
		return s.FailuresByKind[i].Kind < s.FailuresByKind[j].Kind
	})
	return s
}

// HasFailures reports whether any page failed.
func (s *Summary) HasFailures() bool {
	return s.Failed > 0
}

// Status returns a one-word run status.
func (s *Summary) Status() string {
	if s.Cancelled {
		return "Cancelled"
	}
	return "Complete"
}
