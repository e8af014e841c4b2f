// Package selectionlog persists an audit trail of swap plans. Records are
// append only; the stores support filtering by time window, branch and
// vehicle.
package selectionlog

import (
	"context"
	"fmt"
	"time"

	"github.com/kilianp07/evswap/core/selection"
)

// Record captures one plan request and its outcome.
type Record struct {
	ID                string              `json:"id"`
	Timestamp         time.Time           `json:"timestamp"`
	Date              string              `json:"date"`
	Origin            string              `json:"origin,omitempty"`
	Destination       string              `json:"destination,omitempty"`
	LateralThresholdM float64             `json:"lateral_threshold_m"`
	RangeThresholdKm  float64             `json:"range_threshold_km"`
	Found             bool                `json:"found"`
	BranchName        string              `json:"branch_name,omitempty"`
	EVID              string              `json:"ev_id,omitempty"`
	Score             selection.JSONScore `json:"score"`
	NearbyCount       int                 `json:"nearby_count"`
	CandidateCount    int                 `json:"candidate_count"`
	AvailableCount    int                 `json:"available_count"`
	Error             string              `json:"error,omitempty"`
}

// Query defines filters for retrieving records. Zero values match anything.
type Query struct {
	Start      time.Time
	End        time.Time
	BranchName string
	EVID       string
}

// Match reports whether r satisfies the query.
func (q Query) Match(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.BranchName != "" && r.BranchName != q.BranchName {
		return false
	}
	if q.EVID != "" && r.EVID != q.EVID {
		return false
	}
	return true
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// Options selects and tunes a Store backend.
type Options struct {
	// Backend is "jsonl", "sqlite" or "none".
	Backend string
	Path    string
	// MaxSizeMB enables rotation of the jsonl backend when positive.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Open creates the store described by opts.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case "", "jsonl":
		if opts.MaxSizeMB > 0 {
			return NewRotatingJSONLStore(opts.Path, opts.MaxSizeMB, opts.MaxBackups, opts.MaxAgeDays)
		}
		return NewJSONLStore(opts.Path)
	case "sqlite":
		return NewSQLiteStore(opts.Path)
	case "none":
		return NopStore{}, nil
	default:
		return nil, fmt.Errorf("unknown selection log backend %s", opts.Backend)
	}
}

// NopStore discards every record.
type NopStore struct{}

func (NopStore) Append(context.Context, Record) error          { return nil }
func (NopStore) Query(context.Context, Query) ([]Record, error) { return nil, nil }
func (NopStore) Close() error                                   { return nil }
