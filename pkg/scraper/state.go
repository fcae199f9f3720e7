package scraper

import (
	"imdbratings/internal/downloader"
	"imdbratings/pkg/profile"
)

// State is a step of the retry-pass state machine
type State int

const (
	// StateDispatching runs the current candidates through the worker pool
	StateDispatching State = iota
	// StateDraining persists successes and collects failures
	StateDraining
	// StateConverged means every candidate was exported
	StateConverged
	// StateExhausted means the retry budget ran out with failures left
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateDispatching:
		return "dispatching"
	case StateDraining:
		return "draining"
	case StateConverged:
		return "converged"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// runState is owned by a single Run call and mutated only by it
type runState struct {
	state      State
	attempt    int
	candidates []profile.Profile
	results    []downloader.Result
	failed     []profile.Profile
}

// Pass records one dispatch of the candidate set
type Pass struct {
	Attempt    int
	Candidates []string
	Failed     []string
}

// Summary is what a run reports once the loop has terminated
type Summary struct {
	Total      int
	Downloaded int
	Skipped    int
	Failed     []string
	Passes     []Pass
	State      State
}

// Clean reports whether nothing was left failing
func (s *Summary) Clean() bool {
	return len(s.Failed) == 0
}
