package mqtt

import (
	"context"
	"encoding/json"
	"time"

	"github.com/kilianp07/evswap/core/events"
	"github.com/kilianp07/evswap/core/logger"
	"github.com/kilianp07/evswap/core/selection"
	"github.com/kilianp07/evswap/internal/eventbus"
)

// SelectionMessage is the JSON payload announcing a plan outcome.
type SelectionMessage struct {
	ID             string              `json:"id"`
	Outcome        string              `json:"outcome"`
	BranchName     string              `json:"branch_name,omitempty"`
	EVID           string              `json:"ev_id,omitempty"`
	Score          selection.JSONScore `json:"score"`
	Date           string              `json:"date"`
	NearbyCount    int                 `json:"nearby_count"`
	CandidateCount int                 `json:"candidate_count"`
	AvailableCount int                 `json:"available_count"`
	DurationMS     int64               `json:"duration_ms"`
	Error          string              `json:"error,omitempty"`
	Timestamp      int64               `json:"timestamp"`
}

// NewSelectionMessage converts a bus event into its wire form.
func NewSelectionMessage(ev events.SelectionEvent) SelectionMessage {
	m := SelectionMessage{
		ID:             ev.ID,
		Outcome:        string(ev.Outcome),
		BranchName:     ev.BranchName,
		EVID:           ev.EVID,
		Score:          selection.JSONScore(ev.Score),
		Date:           ev.Date,
		NearbyCount:    ev.NearbyCount,
		CandidateCount: ev.CandidateCount,
		AvailableCount: ev.AvailableCount,
		DurationMS:     ev.Duration.Milliseconds(),
		Timestamp:      ev.Time.UnixMilli(),
	}
	if ev.Err != nil {
		m.Error = ev.Err.Error()
	}
	return m
}

// Notifier relays selection events to the broker, one topic per outcome.
type Notifier struct {
	pub   Publisher
	topic func(outcome string) string
	log   logger.Logger
}

// NewNotifier builds a Notifier publishing under cfg.TopicPrefix.
func NewNotifier(pub Publisher, cfg Config, log logger.Logger) *Notifier {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Notifier{pub: pub, topic: cfg.SelectionTopic, log: log}
}

// Notify publishes a single event.
func (n *Notifier) Notify(ev events.SelectionEvent) error {
	payload, err := json.Marshal(NewSelectionMessage(ev))
	if err != nil {
		return err
	}
	return n.pub.Publish(n.topic(string(ev.Outcome)), payload)
}

// Start subscribes to bus and publishes every event until ctx is canceled or
// the bus is closed. The returned channel is closed when the loop exits.
func (n *Notifier) Start(ctx context.Context, bus *eventbus.TypedBus[events.SelectionEvent]) <-chan struct{} {
	done := make(chan struct{})
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				start := time.Now()
				if err := n.Notify(ev); err != nil {
					n.log.Warnf("notify selection %s: %v", ev.ID, err)
					continue
				}
				n.log.Debugf("selection %s announced in %s", ev.ID, time.Since(start))
			}
		}
	}()
	return done
}
