package downloader

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	errs "imdbratings/pkg/errors"
	"imdbratings/pkg/logger"
	"imdbratings/pkg/profile"
)

// Fetcher retrieves the ratings export of one profile
type Fetcher interface {
	Fetch(ctx context.Context, p profile.Profile) ([]byte, error)
}

// Observer is told about every fetch as it happens
type Observer interface {
	FetchStarted(p profile.Profile)
	FetchSucceeded(p profile.Profile, size int)
	FetchFailed(p profile.Profile, reason string)
}

// Result is the outcome of one fetch: Data on success, Err on failure
type Result struct {
	Profile  profile.Profile
	Data     []byte
	Err      error
	Duration time.Duration
}

// Success reports whether the fetch produced content
func (r Result) Success() bool {
	return r.Err == nil
}

type job struct {
	index   int
	profile profile.Profile
}

// WorkerPool runs fetches with at most numWorkers in flight
type WorkerPool struct {
	numWorkers int
	client     Fetcher
	observer   Observer
	logger     logger.Logger
}

// NewWorkerPool creates a new fetch worker pool
func NewWorkerPool(numWorkers int, client Fetcher, observer Observer, log logger.Logger) *WorkerPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if observer == nil {
		observer = nopObserver{}
	}
	if log == nil {
		log = logger.GetLogger()
	}

	return &WorkerPool{
		numWorkers: numWorkers,
		client:     client,
		observer:   observer,
		logger:     log,
	}
}

// FetchAll fetches every candidate and returns once all fetches have
// finished. Results are in candidate order, one per candidate.
func (wp *WorkerPool) FetchAll(ctx context.Context, candidates []profile.Profile) []Result {
	if len(candidates) == 0 {
		return nil
	}

	workers := wp.numWorkers
	if workers > len(candidates) {
		workers = len(candidates)
	}

	wp.logger.DebugWithFields("Starting worker pool", map[string]interface{}{
		"num_workers": workers,
		"candidates":  len(candidates),
	})

	results := make([]Result, len(candidates))
	jobQueue := make(chan job, workers*2)

	// Workers never return errors: every failure is recorded in its Result
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		id := i
		g.Go(func() error {
			wp.worker(ctx, id, jobQueue, results)
			return nil
		})
	}

	for i, p := range candidates {
		jobQueue <- job{index: i, profile: p}
	}
	close(jobQueue)

	_ = g.Wait()

	wp.logger.DebugWithFields("Worker pool drained", map[string]interface{}{
		"num_workers": workers,
	})

	return results
}

// worker processes jobs until the queue is closed
func (wp *WorkerPool) worker(ctx context.Context, id int, jobs <-chan job, results []Result) {
	for j := range jobs {
		results[j.index] = wp.processJob(ctx, j.profile, id)
	}
}

// processJob runs one fetch, turning a panic into a failed Result
func (wp *WorkerPool) processJob(ctx context.Context, p profile.Profile, workerID int) (result Result) {
	start := time.Now()
	result.Profile = p

	defer func() {
		if r := recover(); r != nil {
			result.Data = nil
			result.Err = errs.Panic(r)
			wp.logger.ErrorWithFields("Fetch panicked", map[string]interface{}{
				"worker_id": workerID,
				"username":  p.Username,
				"panic":     r,
			})
		}
		result.Duration = time.Since(start)

		if result.Err != nil {
			wp.observer.FetchFailed(p, errs.Reason(result.Err))
		} else {
			wp.observer.FetchSucceeded(p, len(result.Data))
		}
	}()

	wp.observer.FetchStarted(p)
	result.Data, result.Err = wp.client.Fetch(ctx, p)
	if result.Err == nil && len(result.Data) == 0 {
		result.Err = errs.New(errs.ErrorTypeEmpty, "empty response body", nil)
	}

	return result
}

type nopObserver struct{}

func (nopObserver) FetchStarted(profile.Profile)        {}
func (nopObserver) FetchSucceeded(profile.Profile, int) {}
func (nopObserver) FetchFailed(profile.Profile, string) {}
