package scraper

import (
	"context"
	"fmt"

	"imdbratings/internal/downloader"
	errs "imdbratings/pkg/errors"
	"imdbratings/pkg/logger"
	"imdbratings/pkg/profile"
)

// Options controls a run
type Options struct {
	// MaxRetries is the number of passes allowed after the first
	MaxRetries int
	// Overwrite fetches profiles even if their export already exists
	Overwrite bool
	// Concurrency caps simultaneous fetches
	Concurrency int
}

// Scraper drives retry passes over a set of profiles until every export
// is written or the retry budget is spent
type Scraper struct {
	pool     *downloader.WorkerPool
	storage  Storage
	reporter Reporter
	opts     Options
	logger   logger.Logger
}

// New creates a Scraper. The client is shared by all workers and must not
// be modified while a run is in progress.
func New(client downloader.Fetcher, storage Storage, reporter Reporter, opts Options, log logger.Logger) (*Scraper, error) {
	if opts.MaxRetries < 0 {
		return nil, errs.Config(fmt.Sprintf("retries cannot be negative (got %d)", opts.MaxRetries), nil)
	}
	if opts.Concurrency < 1 {
		return nil, errs.Config(fmt.Sprintf("concurrency must be at least 1 (got %d)", opts.Concurrency), nil)
	}
	if client == nil || storage == nil {
		return nil, errs.Config("scraper needs a fetcher and a storage", nil)
	}
	if reporter == nil {
		reporter = nopReporter{}
	}
	if log == nil {
		log = logger.GetLogger()
	}

	return &Scraper{
		pool:     downloader.NewWorkerPool(opts.Concurrency, client, reporter, log),
		storage:  storage,
		reporter: reporter,
		opts:     opts,
		logger:   log,
	}, nil
}

// Run exports every profile. Per-profile failures never make Run fail:
// they end up in Summary.Failed. The only error is a configuration error.
func (s *Scraper) Run(ctx context.Context, profiles []profile.Profile) (*Summary, error) {
	if err := checkUnique(profiles); err != nil {
		return nil, err
	}

	candidates := s.initialCandidates(profiles)
	summary := &Summary{
		Total:   len(profiles),
		Skipped: len(profiles) - len(candidates),
		Failed:  []string{},
	}

	s.logger.InfoWithFields("Run started", map[string]interface{}{
		"profiles":    len(profiles),
		"skipped":     summary.Skipped,
		"max_retries": s.opts.MaxRetries,
		"concurrency": s.opts.Concurrency,
		"overwrite":   s.opts.Overwrite,
	})

	if len(candidates) == 0 {
		summary.State = StateConverged
		s.finish(summary)
		return summary, nil
	}

	st := &runState{state: StateDispatching, candidates: candidates}
	for {
		switch st.state {
		case StateDispatching:
			s.dispatch(ctx, st)

		case StateDraining:
			s.drain(st, summary)

		case StateConverged:
			summary.State = StateConverged
			s.finish(summary)
			return summary, nil

		case StateExhausted:
			summary.State = StateExhausted
			summary.Failed = profile.Usernames(st.failed)
			s.finish(summary)
			return summary, nil
		}
	}
}

// initialCandidates drops profiles whose export exists, unless overwriting.
// This is the only existence check of a run.
func (s *Scraper) initialCandidates(profiles []profile.Profile) []profile.Profile {
	if s.opts.Overwrite {
		return append([]profile.Profile(nil), profiles...)
	}

	candidates := make([]profile.Profile, 0, len(profiles))
	for _, p := range profiles {
		if s.storage.Exists(p.Username) {
			s.logger.DebugWithFields("Export already exists, skipping", map[string]interface{}{
				"username": p.Username,
			})
			continue
		}
		candidates = append(candidates, p)
	}
	return candidates
}

// dispatch runs one pass and waits for every fetch to finish
func (s *Scraper) dispatch(ctx context.Context, st *runState) {
	if st.attempt > 0 {
		s.reporter.RetryStarted(st.attempt, s.opts.MaxRetries)
	}

	st.results = s.pool.FetchAll(ctx, st.candidates)
	st.state = StateDraining
}

// drain persists successes and decides the next state from the failures
func (s *Scraper) drain(st *runState, summary *Summary) {
	var failed []profile.Profile

	for _, result := range st.results {
		if !result.Success() {
			failed = append(failed, result.Profile)
			continue
		}

		if err := s.storage.Save(result.Profile.Username, result.Data); err != nil {
			s.logger.WithError(err).ErrorWithFields("Failed to save export", map[string]interface{}{
				"username": result.Profile.Username,
			})
			s.reporter.SaveFailed(result.Profile, err.Error())
			failed = append(failed, result.Profile)
			continue
		}
		summary.Downloaded++
	}

	summary.Passes = append(summary.Passes, Pass{
		Attempt:    st.attempt,
		Candidates: profile.Usernames(st.candidates),
		Failed:     profile.Usernames(failed),
	})
	logger.LogPass(s.logger, st.attempt, len(st.candidates), len(failed))

	st.results = nil
	st.failed = failed

	switch {
	case len(failed) == 0:
		st.state = StateConverged
	case st.attempt+1 > s.opts.MaxRetries:
		s.reporter.PassFailed(failed, summary.Total)
		st.state = StateExhausted
	default:
		s.reporter.PassFailed(failed, summary.Total)
		st.attempt++
		st.candidates = failed
		st.state = StateDispatching
	}
}

func (s *Scraper) finish(summary *Summary) {
	s.logger.InfoWithFields("Run finished", map[string]interface{}{
		"state":      summary.State.String(),
		"total":      summary.Total,
		"downloaded": summary.Downloaded,
		"skipped":    summary.Skipped,
		"failed":     len(summary.Failed),
		"passes":     len(summary.Passes),
	})
	s.reporter.Finished(summary)
}

func checkUnique(profiles []profile.Profile) error {
	seen := make(map[string]bool, len(profiles))
	for _, p := range profiles {
		if seen[p.Username] {
			return errs.Config(fmt.Sprintf("duplicate username %s", p.Username), nil)
		}
		seen[p.Username] = true
	}
	return nil
}
