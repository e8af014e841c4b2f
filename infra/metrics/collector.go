package metrics

import (
	"context"

	"github.com/kilianp07/evswap/core/events"
	coremetrics "github.com/kilianp07/evswap/core/metrics"
	"github.com/kilianp07/evswap/internal/eventbus"
)

// StartEventCollector subscribes to the selection bus and records metrics for
// each event. It stops when the context is canceled or the bus is closed.
func StartEventCollector(ctx context.Context, bus *eventbus.TypedBus[events.SelectionEvent], sink coremetrics.MetricsSink) {
	if bus == nil || sink == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				_ = sink.RecordSelection(ToSelectionResult(ev))
			}
		}
	}()
}

// ToSelectionResult converts a bus event into a metrics record.
func ToSelectionResult(ev events.SelectionEvent) coremetrics.SelectionResult {
	return coremetrics.SelectionResult{
		ID:             ev.ID,
		Outcome:        string(ev.Outcome),
		BranchName:     ev.BranchName,
		EVID:           ev.EVID,
		Score:          ev.Score,
		NearbyCount:    ev.NearbyCount,
		CandidateCount: ev.CandidateCount,
		AvailableCount: ev.AvailableCount,
		Duration:       ev.Duration,
		Time:           ev.Time,
	}
}
