// Package pipeline drives a crawl.
//
// Every URL taken from the frontier becomes a model.PageJob that flows
// through a Pipeline of Steps:
//
//	fetch -> transform -> write -> links
//
// Each step advances the job's state. The first failing step moves the job
// to Failed and the remaining steps are skipped, so a bad page never stops
// the crawl. The Driver owns the frontier and runs jobs on an errgroup
// worker pool until the frontier drains or the context is cancelled.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. Each state transition lives in one small, separately tested step
// 2. Error handling and logging are the same for every step
// 3. Cancellation is checked between steps
package pipeline
