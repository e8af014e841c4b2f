package events

import "time"

// Outcome labels the result of a plan request.
type Outcome string

const (
	OutcomeSelected Outcome = "selected"
	OutcomeNone     Outcome = "none"
	OutcomeError    Outcome = "error"
)

// SelectionEvent is published after every plan request, successful or not.
type SelectionEvent struct {
	ID             string
	Outcome        Outcome
	BranchName     string
	EVID           string
	Score          float64
	Date           string
	NearbyCount    int
	CandidateCount int
	AvailableCount int
	Duration       time.Duration
	Err            error
	Time           time.Time
}
