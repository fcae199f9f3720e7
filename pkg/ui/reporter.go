package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"imdbratings/pkg/profile"
	"imdbratings/pkg/scraper"
)

var _ scraper.Reporter = (*PassReporter)(nil)

// PassReporter prints per-fetch and per-pass progress of a run.
// Fetch callbacks arrive from worker goroutines, so writes are serialized.
type PassReporter struct {
	mu      sync.Mutex
	out     io.Writer
	styles  Styles
	quiet   bool
	tracker *StatusTracker
}

// NewPassReporter creates a reporter for total profiles. When quiet is set,
// only pass-level lines and the summary are printed.
func NewPassReporter(out io.Writer, total int, quiet bool) *PassReporter {
	if out == nil {
		out = os.Stdout
	}
	return &PassReporter{
		out:     out,
		styles:  NewStyles(out),
		quiet:   quiet,
		tracker: NewStatusTracker(total),
	}
}

// Tracker returns the counters fed by this reporter
func (r *PassReporter) Tracker() *StatusTracker {
	return r.tracker
}

func (r *PassReporter) FetchStarted(p profile.Profile) {
	if r.quiet {
		return
	}
	r.printf("%s %s\n", r.styles.Highlight.Render("[START]"), p.Username)
}

func (r *PassReporter) FetchSucceeded(p profile.Profile, size int) {
	r.tracker.RecordSuccess(size)
	if r.quiet {
		return
	}
	r.printf("%s [ %s\t]\n", r.styles.Success.Render("[OK]"), p.Username)
}

func (r *PassReporter) FetchFailed(p profile.Profile, reason string) {
	r.tracker.RecordFailure()
	if r.quiet {
		return
	}
	r.printf("%s [ %s\t] Reason: %s\n", r.styles.Error.Render("[FAIL]"), p.Username, reason)
}

func (r *PassReporter) SaveFailed(p profile.Profile, reason string) {
	r.printf("%s [ %s\t] Reason: %s\n", r.styles.Error.Render("[FAIL]"), p.Username, reason)
}

func (r *PassReporter) RetryStarted(attempt, maxRetries int) {
	r.printf("%s\n", r.styles.Label.Render(fmt.Sprintf("--- Retry attempt %d of %d ---", attempt, maxRetries)))
}

func (r *PassReporter) PassFailed(failed []profile.Profile, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, r.styles.Warning.Render(fmt.Sprintf("--- Failed (%d/%d)", len(failed), total)))
	for _, p := range failed {
		fmt.Fprintln(r.out, p.Username)
	}
}

func (r *PassReporter) Finished(summary *scraper.Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintln(r.out, r.styles.Dim.Render(fmt.Sprintf("--- Skipped (%d/%d) ---", summary.Skipped, summary.Total)))
	fmt.Fprintln(r.out, r.styles.Success.Render(fmt.Sprintf("--- Downloaded (%d/%d)", summary.Downloaded, summary.Total)))
	if !summary.Clean() {
		fmt.Fprintln(r.out, r.styles.Error.Render(fmt.Sprintf("--- Gave up on (%d/%d) after %d passes", len(summary.Failed), summary.Total, len(summary.Passes))))
		for _, name := range summary.Failed {
			fmt.Fprintln(r.out, name)
		}
	}
	fmt.Fprintln(r.out, r.styles.Dim.Render(fmt.Sprintf("Fetched %s, %d failed fetch(es) across all passes",
		r.tracker.GetProgress(), r.tracker.GetFailureCount())))
}

func (r *PassReporter) printf(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, format, args...)
}
