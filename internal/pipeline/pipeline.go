package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/sitemirror/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the job as left
// by the previous steps.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows steps to carry configuration state
// 2. It provides a Name() method for logging and debugging
type Step interface {
	// Do executes the pipeline step.
	// It receives the context for cancellation and the job to advance.
	// A returned error fails the job.
	Do(ctx context.Context, job *model.PageJob) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps for one job.
// It holds no per-job state, so one Pipeline is shared by all workers.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence on job.
//
// Design decision: We check context.Done() before each step rather than
// during, because steps should handle their own timeouts. A cancelled job
// is failed with the context error.
//
// Every step needs the output of the one before it, so the first failing
// step ends the job in StateFailed with job.Err set. On success the job
// ends in StateDone.
func (p *Pipeline) Execute(ctx context.Context, job *model.PageJob) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("page cancelled",
				"url", job.URL,
				"state", job.State.String(),
				"step", step.Name(),
				"error", err,
			)
			job.Fail(err)
			return err
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"url", job.URL,
		)

		if err := step.Do(ctx, job); err != nil {
			p.logger.Warn("page failed",
				"url", job.URL,
				"state", job.State.String(),
				"step", step.Name(),
				"error", err,
			)
			job.Fail(err)
			return err
		}
	}

	job.State = model.StateDone
	return nil
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
