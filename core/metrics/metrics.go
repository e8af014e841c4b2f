package metrics

import "time"

// SelectionResult is one completed plan request to be recorded.
type SelectionResult struct {
	ID             string
	Outcome        string
	BranchName     string
	EVID           string
	Score          float64
	NearbyCount    int
	CandidateCount int
	AvailableCount int
	Duration       time.Duration
	Time           time.Time
}

// MetricsSink records selection results for observability purposes.
type MetricsSink interface {
	RecordSelection(res SelectionResult) error
}

// SourceLoadEvent captures the size of the data loaded for one request.
type SourceLoadEvent struct {
	Source   string
	Branches int
	Vehicles int
	Trips    int
	Duration time.Duration
	Time     time.Time
}

// SourceLoadRecorder records data source loads.
type SourceLoadRecorder interface {
	RecordSourceLoad(ev SourceLoadEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordSelection(SelectionResult) error   { return nil }
func (NopSink) RecordSourceLoad(SourceLoadEvent) error { return nil }
