// Package scheduler runs batches of independent jobs under a hard
// concurrency cap. It knows nothing about what the jobs do: a failed or
// panicking job is captured into its own outcome and never stops the
// rest of the batch.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// Job is one independent unit of work.
type Job func(ctx context.Context) error

// Outcome is the terminal state of one job.
type Outcome struct {
	Index int
	Err   error
}

// BatchResult holds every job outcome in submission order.
type BatchResult struct {
	Outcomes []Outcome
}

// AllSucceeded reports whether no job failed.
func (r BatchResult) AllSucceeded() bool {
	for _, outcome := range r.Outcomes {
		if outcome.Err != nil {
			return false
		}
	}
	return true
}

// Failed returns the outcomes of failed jobs, in submission order.
func (r BatchResult) Failed() []Outcome {
	var failed []Outcome
	for _, outcome := range r.Outcomes {
		if outcome.Err != nil {
			failed = append(failed, outcome)
		}
	}
	return failed
}

// Err returns nil when every job succeeded, otherwise a single error
// enumerating every failure.
func (r BatchResult) Err() error {
	var result *multierror.Error
	for _, outcome := range r.Outcomes {
		if outcome.Err != nil {
			result = multierror.Append(result, fmt.Errorf("job %d: %w", outcome.Index, outcome.Err))
		}
	}
	return result.ErrorOrNil()
}

// Run executes the jobs with at most limit of them in flight at once.
// The semaphore slot is acquired before a job's goroutine is spawned, so
// jobs start in submission order and the cap cannot be exceeded. Run
// returns only after every job has reached a terminal state.
func Run(ctx context.Context, jobs []Job, limit int) BatchResult {
	if limit < 1 {
		limit = 1
	}

	outcomes := make([]Outcome, len(jobs))
	semaphore := make(chan struct{}, limit)

	var wg sync.WaitGroup
	for i, job := range jobs {
		semaphore <- struct{}{}

		wg.Add(1)
		go func(index int, job Job) {
			defer wg.Done()
			defer func() { <-semaphore }()

			outcomes[index] = Outcome{Index: index, Err: runOne(ctx, job)}
		}(i, job)
	}
	wg.Wait()

	return BatchResult{Outcomes: outcomes}
}

func runOne(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return job(ctx)
}
