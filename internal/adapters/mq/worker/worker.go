// Package worker runs refresh jobs one at a time.
package worker

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/clparker78/straight-razor-draft/internal/adapters/mq/queue"
	"github.com/clparker78/straight-razor-draft/pkg/logger"
	"github.com/clparker78/straight-razor-draft/pkg/metrics"
)

// Refresher runs one refresh cycle.
type Refresher interface {
	Refresh(ctx context.Context, job queue.Job) error
}

// Queue defines how the worker receives jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker drains the queue serially. Jobs already waiting when a job is picked
// up are folded into it, so a burst of requests costs one cycle.
type Worker struct {
	queue     Queue
	refresher Refresher
	name      string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// New creates a worker.
func New(q Queue, r Refresher, opts ...Option) *Worker {
	w := &Worker{
		queue:     q,
		refresher: r,
		name:      "refresh-worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run processes jobs until ctx is cancelled, Shutdown is called or the queue closes.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			job = fold(job, jobs)
			if err := w.process(ctx, job); err != nil {
				w.logger.Error(ctx, "refresh failed",
					logger.String("job", job.ID),
					logger.String("reason", job.Reason),
					logger.Error(err),
				)
			}
		}
	}
}

// Done is closed once Run has returned.
func (w *Worker) Done() <-chan struct{} { return w.done }

// Shutdown stops the worker after the job in progress.
func (w *Worker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out", logger.String("worker", w.name))
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *Worker) process(ctx context.Context, job queue.Job) error {
	wait := time.Since(job.EnqueuedAt)
	w.logger.Debug(ctx, "refresh job started",
		logger.String("job", job.ID),
		logger.String("reason", job.Reason),
		logger.Duration("waited", wait),
	)
	if err := w.refresher.Refresh(ctx, job); err != nil {
		metrics.RecordErrorByComponent("worker", "refresh_error")
		return fmt.Errorf("job %s: %w", job.ID, err)
	}
	return nil
}

// fold merges jobs already waiting into job without blocking.
func fold(job queue.Job, jobs <-chan queue.Job) queue.Job {
	reasons := []string{job.Reason}
	for {
		select {
		case next, ok := <-jobs:
			if !ok {
				return merged(job, reasons)
			}
			job.ClearCache = job.ClearCache || next.ClearCache
			if !slices.Contains(reasons, next.Reason) {
				reasons = append(reasons, next.Reason)
			}
			metrics.RecordRefreshCoalesced()
		default:
			return merged(job, reasons)
		}
	}
}

func merged(job queue.Job, reasons []string) queue.Job {
	job.Reason = strings.Join(reasons, "+")
	return job
}
