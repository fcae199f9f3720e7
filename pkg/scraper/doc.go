// Package scraper runs the retry passes of a bulk ratings export.
//
// A run works through a small state machine:
//
//	Dispatching -> Draining -> Converged
//	                        -> Dispatching (next attempt, failed profiles only)
//	                        -> Exhausted
//
// Profiles whose export already exists are dropped once, before the first
// pass, unless Overwrite is set. Each pass fetches the current candidates
// through a bounded worker pool and waits for all of them. Successes are
// saved immediately and never fetched again. Failures become the candidates
// of the next pass until MaxRetries extra passes have been spent.
//
// Usage:
//
//	s, err := scraper.New(client, store, reporter, scraper.Options{
//	    MaxRetries:  100,
//	    Concurrency: 3,
//	}, log)
//	if err != nil {
//	    return err
//	}
//	summary, err := s.Run(ctx, profiles)
//
// Run only returns an error for invalid input. Profiles that still fail
// after the last pass are listed in Summary.Failed.
package scraper
