package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	ProgressBar   = "█"
	ProgressEmpty = "░"
)

// StatusTracker counts fetch outcomes across a run
type StatusTracker struct {
	mu         sync.Mutex
	Total      int
	Downloaded int
	Failures   int
	Bytes      int64
	StartTime  time.Time
}

// NewStatusTracker creates a tracker for total profiles
func NewStatusTracker(total int) *StatusTracker {
	return &StatusTracker{
		Total:     total,
		StartTime: time.Now(),
	}
}

// RecordSuccess counts a fetched export of size bytes
func (st *StatusTracker) RecordSuccess(size int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.Downloaded++
	st.Bytes += int64(size)
}

// RecordFailure counts a failed fetch
func (st *StatusTracker) RecordFailure() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.Failures++
}

// GetProgress returns a formatted progress bar of fetched exports
func (st *StatusTracker) GetProgress() string {
	st.mu.Lock()
	defer st.mu.Unlock()

	const width = 20
	filled := 0
	if st.Total > 0 {
		filled = st.Downloaded * width / st.Total
	}
	if filled > width {
		filled = width
	}

	bar := strings.Repeat(ProgressBar, filled) +
		strings.Repeat(ProgressEmpty, width-filled)

	return fmt.Sprintf("[%s] %d/%d", bar, st.Downloaded, st.Total)
}

// GetElapsedTime returns the elapsed time since tracking started
func (st *StatusTracker) GetElapsedTime() time.Duration {
	return time.Since(st.StartTime)
}

// GetFailureCount returns the number of failed fetches, retries included
func (st *StatusTracker) GetFailureCount() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.Failures
}
