package scenarios

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kilianp07/evswap/core/events"
	"github.com/kilianp07/evswap/core/planner"
	"github.com/kilianp07/evswap/infra/metrics"
	"github.com/kilianp07/evswap/infra/mqtt"
	"github.com/kilianp07/evswap/internal/eventbus"
)

// RunScenario plans the scenario trip and checks the outcome, the recorded
// metrics and the announced MQTT message.
func RunScenario(t *testing.T, sc *Scenario) {
	t.Helper()
	orders := []bool{false}
	if sc.Permute {
		orders = append(orders, true)
	}
	for _, reverse := range orders {
		runOnce(t, sc, reverse)
	}
}

func runOnce(t *testing.T, sc *Scenario, reverse bool) {
	t.Helper()
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}
	src, err := sc.NewSources(reverse)
	if err != nil {
		t.Fatalf("sources: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bus := eventbus.NewTyped[events.SelectionEvent]()
	pub := mqtt.NewMockPublisher()
	done := mqtt.NewNotifier(pub, mqtt.Config{TopicPrefix: "evswap"}, nil).Start(ctx, bus)

	p, err := planner.New(planner.Config{}, src,
		planner.WithBus(bus),
		planner.WithMetrics(sink),
		planner.WithClock(func() time.Time { return time.Unix(0, 0) }),
	)
	if err != nil {
		t.Fatalf("planner: %v", err)
	}
	lateral, rangeKm := sc.LateralM, sc.RangeKm
	res, err := p.Plan(ctx, planner.Request{
		EncodedPath:            sc.EncodedPath(),
		Date:                   sc.Date,
		LateralThresholdMeters: &lateral,
		RangeThresholdKm:       &rangeKm,
	})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	bus.Close()
	<-done

	exp := sc.Expected
	if res.Found != exp.Found {
		t.Fatalf("scenario %s (reverse=%v): found=%v, want %v", sc.Name, reverse, res.Found, exp.Found)
	}
	if exp.Found && (res.Selection.BranchName != exp.Branch || res.Selection.EVID != exp.EV) {
		t.Errorf("scenario %s (reverse=%v): selected %s/%s, want %s/%s",
			sc.Name, reverse, res.Selection.BranchName, res.Selection.EVID, exp.Branch, exp.EV)
	}
	if exp.Nearby != nil && res.NearbyCount != *exp.Nearby {
		t.Errorf("scenario %s: nearby=%d, want %d", sc.Name, res.NearbyCount, *exp.Nearby)
	}
	if exp.Candidates != nil && res.CandidateCount != *exp.Candidates {
		t.Errorf("scenario %s: candidates=%d, want %d", sc.Name, res.CandidateCount, *exp.Candidates)
	}
	want := fmt.Sprintf(`# HELP evswap_source_records Number of records loaded from the data source in the last request
# TYPE evswap_source_records gauge
evswap_source_records{kind="branches"} %d
evswap_source_records{kind="trips"} %d
evswap_source_records{kind="vehicles"} %d
`, len(sc.Branches), len(sc.Trips), len(sc.Vehicles))
	if err := testutil.GatherAndCompare(reg, strings.NewReader(want), "evswap_source_records"); err != nil {
		t.Errorf("scenario %s: %v", sc.Name, err)
	}

	msgs := pub.Messages()
	if len(msgs) != 1 {
		t.Fatalf("scenario %s: expected one announcement, got %d", sc.Name, len(msgs))
	}
	outcome := events.OutcomeNone
	if exp.Found {
		outcome = events.OutcomeSelected
	}
	if want := "evswap/selections/" + string(outcome); msgs[0].Topic != want {
		t.Errorf("scenario %s: topic %s, want %s", sc.Name, msgs[0].Topic, want)
	}
	var m mqtt.SelectionMessage
	if err := json.Unmarshal(msgs[0].Payload, &m); err != nil {
		t.Fatalf("decode announcement: %v", err)
	}
	if m.ID != res.ID || m.EVID != exp.EV {
		t.Errorf("scenario %s: announcement %+v does not match result", sc.Name, m)
	}
}
