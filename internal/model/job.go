package model

import (
	"time"

	"github.com/nao1215/sitemirror/internal/dom"
)

// PageJob carries one URL through the crawl pipeline.
// Each pipeline step reads what the previous steps produced and advances State.
type PageJob struct {
	// URL is the absolute URL taken from the frontier.
	URL string

	// Depth is the number of links followed from the start URL.
	Depth int

	// State is the current position in the state machine.
	State PageState

	// Page is set by the fetch step.
	Page *Page

	// Doc is the parsed form of Page.Body, set by the transform step and
	// reused by the link step so each page is parsed once.
	Doc dom.Document

	// Artifact is set by the transform step (content) and the write step (path).
	Artifact *Artifact

	// Links holds the in-scope links this page added to the frontier.
	Links []string

	// Err is the error that moved the job to StateFailed.
	Err error

	// StartedAt is when the job was taken from the frontier.
	StartedAt time.Time
}

// NewPageJob creates a pending job for the given URL.
func NewPageJob(url string, depth int) *PageJob {
	return &PageJob{
		URL:       url,
		Depth:     depth,
		State:     StatePending,
		StartedAt: time.Now(),
	}
}

// Fail moves the job to StateFailed and records the reason.
func (j *PageJob) Fail(err error) {
	j.State = StateFailed
	j.Err = err
}

// Outcome summarizes the finished job for the run report.
// A job that stopped before a terminal state is reported as failed.
func (j *PageJob) Outcome() PageOutcome {
	o := PageOutcome{
		URL:      j.URL,
		State:    j.State,
		Depth:    j.Depth,
		Links:    len(j.Links),
		Duration: time.Since(j.StartedAt),
	}
	if j.Page != nil {
		o.FinalURL = j.Page.FinalURL
		o.Title = j.Page.Title
	}
	if j.Artifact != nil {
		o.Path = j.Artifact.Path
	}
	if j.Err != nil {
		o.ErrorKind = ErrorKindOf(j.Err)
		o.Error = j.Err.Error()
	}
	if !o.State.IsTerminal() {
		o.State = StateFailed
		if j.Err == nil {
			o.ErrorKind = ErrorKindOther
			o.Error = "stopped in state " + j.State.String()
		}
	}
	return o
}
