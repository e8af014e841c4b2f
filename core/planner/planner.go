// Package planner orchestrates a swap plan: it loads the fleet data, runs
// the proximity filter and candidate selection, then records the outcome.
package planner

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/evswap/core/events"
	"github.com/kilianp07/evswap/core/fleet"
	"github.com/kilianp07/evswap/core/geo"
	"github.com/kilianp07/evswap/core/logger"
	coremetrics "github.com/kilianp07/evswap/core/metrics"
	"github.com/kilianp07/evswap/core/model"
	"github.com/kilianp07/evswap/core/monitoring"
	"github.com/kilianp07/evswap/core/proximity"
	"github.com/kilianp07/evswap/core/selection"
	"github.com/kilianp07/evswap/core/selectionlog"
	"github.com/kilianp07/evswap/internal/eventbus"
)

// Planner computes swap plans. It is safe for concurrent use.
type Planner struct {
	cfg     Config
	loc     *time.Location
	sources Sources
	routes  RouteProvider
	store   selectionlog.Store
	bus     *eventbus.TypedBus[events.SelectionEvent]
	sink    coremetrics.MetricsSink
	log     logger.Logger
	now     func() time.Time
}

// Option customises a Planner.
type Option func(*Planner)

// WithRouteProvider enables origin/destination requests and trip legs.
func WithRouteProvider(r RouteProvider) Option { return func(p *Planner) { p.routes = r } }

// WithStore sets the selection audit log.
func WithStore(s selectionlog.Store) Option { return func(p *Planner) { p.store = s } }

// WithBus sets the bus selection events are published on.
func WithBus(b *eventbus.TypedBus[events.SelectionEvent]) Option {
	return func(p *Planner) { p.bus = b }
}

// WithMetrics sets the sink receiving data source load metrics.
func WithMetrics(s coremetrics.MetricsSink) Option { return func(p *Planner) { p.sink = s } }

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option { return func(p *Planner) { p.log = l } }

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(p *Planner) { p.now = now } }

// New creates a Planner reading fleet data from sources.
func New(cfg Config, sources Sources, opts ...Option) (*Planner, error) {
	if sources == nil {
		return nil, fmt.Errorf("planner: sources are required")
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("planner config: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	p := &Planner{
		cfg:     cfg,
		loc:     loc,
		sources: sources,
		store:   selectionlog.NopStore{},
		sink:    coremetrics.NopSink{},
		log:     logger.NopLogger{},
		now:     time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Config returns the effective configuration.
func (p *Planner) Config() Config { return p.cfg }

// Location returns the time zone booking dates are computed in.
func (p *Planner) Location() *time.Location { return p.loc }

type fleetData struct {
	branches []model.Branch
	vehicles []model.Vehicle
	trips    []model.Trip
}

// Plan selects the best branch and electric vehicle for req. Finding no
// candidate is not an error: the result has Found set to false.
func (p *Planner) Plan(ctx context.Context, req Request) (*Result, error) {
	start := p.now()
	res := &Result{ID: uuid.NewString()}
	lateral, rangeKm, err := p.thresholds(req)
	if err == nil {
		res.Date, err = p.targetDate(req.Date)
	}
	if err == nil {
		err = p.plan(ctx, req, lateral, rangeKm, res)
	}
	p.finish(ctx, req, lateral, rangeKm, res, err, p.now().Sub(start))
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (p *Planner) plan(ctx context.Context, req Request, lateral, rangeKm float64, res *Result) error {
	path, err := p.resolvePath(ctx, req)
	if err != nil {
		return err
	}
	data, err := p.load(ctx)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	sites := make([]proximity.Site, 0, len(data.branches))
	for _, b := range data.branches {
		sites = append(sites, proximity.Site{Name: b.Name, Location: b.Location})
	}
	nearby := proximity.FindNearby(lateral, path, sites)
	evIndex := fleet.BuildEligibleEVIndex(data.vehicles, rangeKm)
	booked := fleet.BuildBookedDateIndex(data.trips, p.loc)
	cands := selection.BuildCandidates(nearby, data.branches, evIndex)
	avail := selection.FilterAvailable(cands, booked, res.Date)

	res.NearbyCount = len(nearby)
	res.CandidateCount = len(cands)
	res.AvailableCount = len(avail)
	p.log.Debugw("selection funnel", map[string]any{
		"id":        res.ID,
		"path":      len(path),
		"nearby":    len(nearby),
		"eligible":  len(evIndex),
		"candidate": len(cands),
		"available": len(avail),
	})

	best, ok := selection.SelectBest(avail)
	if !ok {
		return nil
	}
	res.Found = true
	res.Selection = &Selection{
		BranchName:            best.BranchName,
		Location:              best.BranchLocation,
		EVID:                  best.EVID,
		EVRangeKm:             evIndex[best.EVID].RangeKm,
		DistanceToRoute:       best.DistanceToRoute,
		DistanceToMinLocation: best.DistanceToMinLocation,
		Score:                 selection.JSONScore(best.Score),
	}
	res.Legs = p.legs(ctx, req, best.BranchLocation)
	return nil
}

func (p *Planner) thresholds(req Request) (float64, float64, error) {
	lateral := p.cfg.LateralThreshold()
	rangeKm := p.cfg.RangeThreshold()
	if req.LateralThresholdMeters != nil {
		lateral = *req.LateralThresholdMeters
	}
	if req.RangeThresholdKm != nil {
		rangeKm = *req.RangeThresholdKm
	}
	if err := checkThreshold("lateral_threshold_m", lateral); err != nil {
		return lateral, rangeKm, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if err := checkThreshold("range_threshold_km", rangeKm); err != nil {
		return lateral, rangeKm, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return lateral, rangeKm, nil
}

func (p *Planner) targetDate(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("%w: date is required", ErrInvalidRequest)
	}
	d, err := fleet.ParseDate(raw, p.loc)
	if err != nil {
		return "", fmt.Errorf("%w: date: %v", ErrInvalidRequest, err)
	}
	return d, nil
}

func (p *Planner) resolvePath(ctx context.Context, req Request) (geo.Path, error) {
	if req.EncodedPath != "" {
		path, err := geo.DecodePath(req.EncodedPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		return path, nil
	}
	if req.Origin == "" || req.Destination == "" {
		// Without route data the filter sees an empty path and finds nothing.
		return geo.Path{}, nil
	}
	if p.routes == nil {
		return nil, fmt.Errorf("%w: no directions provider configured", ErrRouteUnavailable)
	}
	route, err := p.routes.Route(ctx, req.Origin, req.Destination)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRouteUnavailable, err)
	}
	path, err := geo.DecodePath(route.EncodedPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRouteUnavailable, err)
	}
	return path, nil
}

// load fetches the three collections concurrently.
func (p *Planner) load(ctx context.Context) (fleetData, error) {
	start := p.now()
	var data fleetData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if data.branches, err = p.sources.Branches(gctx); err != nil {
			return fmt.Errorf("branches: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if data.vehicles, err = p.sources.Vehicles(gctx); err != nil {
			return fmt.Errorf("vehicles: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if data.trips, err = p.sources.Trips(gctx); err != nil {
			return fmt.Errorf("trips: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return data, ctxErr
		}
		return data, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	if rec, ok := p.sink.(coremetrics.SourceLoadRecorder); ok {
		ev := coremetrics.SourceLoadEvent{
			Source:   fmt.Sprintf("%T", p.sources),
			Branches: len(data.branches),
			Vehicles: len(data.vehicles),
			Trips:    len(data.trips),
			Duration: p.now().Sub(start),
			Time:     p.now(),
		}
		if err := rec.RecordSourceLoad(ev); err != nil {
			p.log.Errorf("source load metrics error: %v", err)
		}
	}
	return data, nil
}

// legs resolves the gasoline and electric legs around the swap branch. Legs
// are best effort: a directions failure leaves them out of the result.
func (p *Planner) legs(ctx context.Context, req Request, branch geo.Coordinate) []Leg {
	if p.routes == nil || req.Origin == "" || req.Destination == "" {
		return nil
	}
	at := formatCoordinate(branch)
	first, err := p.routes.Route(ctx, req.Origin, at)
	if err != nil {
		p.log.Warnf("gasoline leg: %v", err)
		return nil
	}
	second, err := p.routes.Route(ctx, at, req.Destination)
	if err != nil {
		p.log.Warnf("electric leg: %v", err)
		return nil
	}
	return []Leg{
		newLeg(req.Origin, at, LegGasoline, first),
		newLeg(at, req.Destination, LegElectric, second),
	}
}

func newLeg(from, to, vehicle string, r Route) Leg {
	return Leg{
		From:        from,
		To:          to,
		Vehicle:     vehicle,
		DistanceM:   r.DistanceM,
		DurationS:   r.Duration.Seconds(),
		EncodedPath: r.EncodedPath,
	}
}

func formatCoordinate(c geo.Coordinate) string {
	return strconv.FormatFloat(c.Lat, 'f', 6, 64) + "," + strconv.FormatFloat(c.Lng, 'f', 6, 64)
}

// finish records the outcome in the audit log, on the bus and, for
// unexpected failures, with the error monitor.
func (p *Planner) finish(ctx context.Context, req Request, lateral, rangeKm float64, res *Result, err error, took time.Duration) {
	ev := events.SelectionEvent{
		ID:             res.ID,
		Outcome:        events.OutcomeNone,
		Date:           res.Date,
		NearbyCount:    res.NearbyCount,
		CandidateCount: res.CandidateCount,
		AvailableCount: res.AvailableCount,
		Duration:       took,
		Err:            err,
		Time:           p.now(),
	}
	rec := selectionlog.Record{
		ID:                res.ID,
		Timestamp:         ev.Time,
		Date:              res.Date,
		Origin:            req.Origin,
		Destination:       req.Destination,
		LateralThresholdM: lateral,
		RangeThresholdKm:  rangeKm,
		NearbyCount:       res.NearbyCount,
		CandidateCount:    res.CandidateCount,
		AvailableCount:    res.AvailableCount,
	}
	switch {
	case err != nil:
		ev.Outcome = events.OutcomeError
		rec.Error = err.Error()
		if !errors.Is(err, ErrInvalidRequest) && !errors.Is(err, context.Canceled) {
			monitoring.Capture("planner", err, "selection_id", res.ID)
		}
		p.log.Warnf("plan %s failed: %v", res.ID, err)
	case res.Found:
		ev.Outcome = events.OutcomeSelected
		ev.BranchName = res.Selection.BranchName
		ev.EVID = res.Selection.EVID
		ev.Score = float64(res.Selection.Score)
		rec.Found = true
		rec.BranchName = res.Selection.BranchName
		rec.EVID = res.Selection.EVID
		rec.Score = res.Selection.Score
		p.log.Infof("plan %s: branch %s with %s (score %.3f)", res.ID, ev.BranchName, ev.EVID, ev.Score)
	default:
		p.log.Infof("plan %s: no branch found for %s", res.ID, res.Date)
	}

	// The audit trail is written even when the caller has gone away.
	if aerr := p.store.Append(context.WithoutCancel(ctx), rec); aerr != nil {
		p.log.Errorf("selection log append: %v", aerr)
	}
	if p.bus != nil {
		p.bus.Publish(ev)
	}
}

// EligibleFleet lists the electric vehicles whose range exceeds the
// threshold, with the branch holding them and their booked dates. A nil
// rangeKm uses the configured threshold.
func (p *Planner) EligibleFleet(ctx context.Context, rangeKm *float64) ([]FleetEntry, error) {
	threshold := p.cfg.RangeThreshold()
	if rangeKm != nil {
		threshold = *rangeKm
	}
	if err := checkThreshold("range_threshold_km", threshold); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	data, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	owner := make(map[string]string)
	for _, b := range data.branches {
		for _, id := range b.ElectricVehicleIDs() {
			if _, seen := owner[id]; !seen {
				owner[id] = b.Name
			}
		}
	}
	idx := fleet.BuildEligibleEVIndex(data.vehicles, threshold)
	booked := fleet.BuildBookedDateIndex(data.trips, p.loc)
	out := make([]FleetEntry, 0, len(idx))
	for _, v := range data.vehicles {
		ev, ok := idx[v.ID]
		if !ok {
			continue
		}
		out = append(out, FleetEntry{
			ID:          v.ID,
			Branch:      owner[v.ID],
			RangeKm:     ev.RangeKm,
			BookedDates: booked[v.ID].Sorted(),
		})
	}
	return out, nil
}

// History queries the selection audit log.
func (p *Planner) History(ctx context.Context, q selectionlog.Query) ([]selectionlog.Record, error) {
	return p.store.Query(ctx, q)
}
