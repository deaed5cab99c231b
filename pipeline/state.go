package pipeline

import "fmt"

// State is a step of the query pipeline.
type State int

const (
	Idle State = iota
	Normalizing
	CacheLookup
	CacheHit
	Searching
	Extracting
	Ranking
	Inferring
	Responding
	Failed
)

var stateNames = [...]string{
	Idle:        "idle",
	Normalizing: "normalizing",
	CacheLookup: "cache_lookup",
	CacheHit:    "cache_hit",
	Searching:   "searching",
	Extracting:  "extracting",
	Ranking:     "ranking",
	Inferring:   "inferring",
	Responding:  "responding",
	Failed:      "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// StageError reports the stage at which a query failed. Err carries the
// application error code.
type StageError struct {
	Stage State
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
