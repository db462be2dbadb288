package crawler

import (
	"net/url"
	"strings"
	"sync"
)

// Item is a URL waiting in the frontier.
type Item struct {
	// URL is the normalized absolute URL to process.
	URL string

	// Depth is the number of link hops from the start URL.
	Depth int
}

// Frontier is the crawl worklist together with the visited set.
//
// A URL enters the visited set the moment it is accepted into the queue, so
// it is processed at most once per run no matter how many pages link to it.
// Workers take items with Next and report completion with Done; the crawl is
// finished when the queue is empty and no item is in flight.
//
// Design decision: We guard the queue, the visited set and the in-flight
// counter with one mutex and a sync.Cond so "queue empty and nothing in
// flight" is observed atomically. Separate locks would let a worker see an
// empty queue just before another worker pushes new links.
type Frontier struct {
	mu   sync.Mutex
	cond *sync.Cond

	queue    []Item
	visited  map[string]struct{}
	inFlight int
	closed   bool

	// maxPages caps the number of URLs ever accepted. 0 means no limit.
	maxPages int

	// maxDepth rejects items deeper than this. 0 means no limit.
	maxDepth int

	// rejected counts URLs refused because of maxPages or maxDepth.
	rejected int
}

// FrontierOption configures a Frontier.
type FrontierOption func(*Frontier)

// WithMaxPages caps the number of URLs accepted into the frontier.
// 0 means no limit.
func WithMaxPages(n int) FrontierOption {
	return func(f *Frontier) {
		f.maxPages = n
	}
}

// WithMaxDepth rejects URLs more than n link hops from the start URL.
// 0 means no limit.
func WithMaxDepth(n int) FrontierOption {
	return func(f *Frontier) {
		f.maxDepth = n
	}
}

// NewFrontier creates an empty Frontier.
func NewFrontier(opts ...FrontierOption) *Frontier {
	f := &Frontier{
		visited: make(map[string]struct{}),
	}
	f.cond = sync.NewCond(&f.mu)

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Push enqueues rawURL at depth unless it was already seen, exceeds a bound,
// or the frontier is closed. It reports whether the URL was accepted.
func (f *Frontier) Push(rawURL string, depth int) bool {
	key := NormalizeURL(rawURL)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return false
	}
	if _, seen := f.visited[key]; seen {
		return false
	}
	if f.maxDepth > 0 && depth > f.maxDepth {
		f.rejected++
		return false
	}
	if f.maxPages > 0 && len(f.visited) >= f.maxPages {
		f.rejected++
		return false
	}

	f.visited[key] = struct{}{}
	f.queue = append(f.queue, Item{URL: key, Depth: depth})
	f.cond.Signal()

	return true
}

// Next blocks until an item is available and returns it, marking it in
// flight. It returns false once the crawl is finished (queue empty and
// nothing in flight) or the frontier was closed.
// Every item returned must be followed by exactly one call to Done.
func (f *Frontier) Next() (Item, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for len(f.queue) == 0 && f.inFlight > 0 && !f.closed {
		f.cond.Wait()
	}

	if f.closed || len(f.queue) == 0 {
		return Item{}, false
	}

	item := f.queue[0]
	f.queue[0] = Item{}
	f.queue = f.queue[1:]
	f.inFlight++

	return item, true
}

// Done marks one item returned by Next as finished.
func (f *Frontier) Done() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.inFlight > 0 {
		f.inFlight--
	}
	if f.inFlight == 0 && len(f.queue) == 0 {
		f.cond.Broadcast()
	}
}

// Close stops the frontier. Pending items are dropped, Push refuses new
// URLs, and every blocked or future Next returns false.
func (f *Frontier) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	f.queue = nil
	f.cond.Broadcast()
}

// Stats returns a snapshot of the frontier counters.
func (f *Frontier) Stats() FrontierStats {
	f.mu.Lock()
	defer f.mu.Unlock()

	return FrontierStats{
		Visited:  len(f.visited),
		Queued:   len(f.queue),
		InFlight: f.inFlight,
		Rejected: f.rejected,
	}
}

// FrontierStats contains frontier counters.
type FrontierStats struct {
	// Visited is the number of unique URLs accepted so far.
	Visited int

	// Queued is the number of URLs waiting to be processed.
	Queued int

	// InFlight is the number of URLs currently being processed.
	InFlight int

	// Rejected is the number of URLs refused by the page or depth bound.
	Rejected int
}

// NormalizeURL normalizes a URL for deduplication.
//
// Design decision: We normalize only what never changes the fetched page:
//  1. The fragment (#anchor) is dropped
//  2. Scheme and host are lower-cased
//  3. An empty path becomes "/"
//
// Trailing slashes and query strings are kept because they can select
// different documents.
func NormalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	u.Fragment = ""
	u.RawFragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	if u.Path == "" && u.Opaque == "" {
		u.Path = "/"
	}

	return u.String()
}
