package scraper

import (
	"imdbratings/internal/downloader"
	"imdbratings/pkg/profile"
)

// Storage is the existence oracle and persistence sink for exports
type Storage interface {
	Exists(username string) bool
	Save(username string, data []byte) error
}

// Reporter receives human-facing progress for a run
type Reporter interface {
	downloader.Observer

	// SaveFailed is called when a fetched export could not be written
	SaveFailed(p profile.Profile, reason string)
	// RetryStarted is called before every pass after the first
	RetryStarted(attempt, maxRetries int)
	// PassFailed lists the profiles that will be retried (or that remain failed)
	PassFailed(failed []profile.Profile, total int)
	// Finished is called once with the final summary
	Finished(summary *Summary)
}

type nopReporter struct{}

func (nopReporter) FetchStarted(profile.Profile)        {}
func (nopReporter) FetchSucceeded(profile.Profile, int) {}
func (nopReporter) FetchFailed(profile.Profile, string) {}
func (nopReporter) SaveFailed(profile.Profile, string)  {}
func (nopReporter) RetryStarted(int, int)               {}
func (nopReporter) PassFailed([]profile.Profile, int)   {}
func (nopReporter) Finished(*Summary)                   {}
