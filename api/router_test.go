package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/evswap/core/planner"
	"github.com/kilianp07/evswap/core/selectionlog"
)

type fakePlanner struct {
	res      *planner.Result
	err      error
	gotReq   planner.Request
	fleet    []planner.FleetEntry
	gotRange *float64
}

func (f *fakePlanner) Plan(ctx context.Context, req planner.Request) (*planner.Result, error) {
	f.gotReq = req
	return f.res, f.err
}

func (f *fakePlanner) History(ctx context.Context, q selectionlog.Query) ([]selectionlog.Record, error) {
	return nil, nil
}

func (f *fakePlanner) EligibleFleet(ctx context.Context, rangeKm *float64) ([]planner.FleetEntry, error) {
	f.gotRange = rangeKm
	return f.fleet, f.err
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rr
}

func TestPlan_OK(t *testing.T) {
	p := &fakePlanner{res: &planner.Result{ID: "r1", Found: true, Date: "2024-06-01", Selection: &planner.Selection{BranchName: "North", EVID: "E1"}}}
	h := NewRouter(p, Options{})

	rr := serve(h, http.MethodPost, "/api/swap/plan", `{"encoded_path":"_p~iF~ps|U_ulLnnqC","date":"2024-06-01","lateral_threshold_m":500}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	require.NotNil(t, p.gotReq.LateralThresholdMeters)
	assert.Equal(t, 500.0, *p.gotReq.LateralThresholdMeters)
	assert.Nil(t, p.gotReq.RangeThresholdKm)

	var out planner.Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, "E1", out.Selection.EVID)
}

func TestPlan_ErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("%w: date is required", planner.ErrInvalidRequest), http.StatusBadRequest},
		{fmt.Errorf("%w: quota", planner.ErrRouteUnavailable), http.StatusBadGateway},
		{fmt.Errorf("%w: vehicles", planner.ErrSourceUnavailable), http.StatusBadGateway},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		h := NewRouter(&fakePlanner{err: c.err}, Options{})
		rr := serve(h, http.MethodPost, "/api/swap/plan", `{"date":"2024-06-01"}`)
		assert.Equal(t, c.code, rr.Code, c.err.Error())
		assert.Contains(t, rr.Body.String(), `"error"`)
	}
}

func TestPlan_BadBody(t *testing.T) {
	h := NewRouter(&fakePlanner{}, Options{})
	assert.Equal(t, http.StatusBadRequest, serve(h, http.MethodPost, "/api/swap/plan", `{`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, http.MethodPost, "/api/swap/plan", `{"unknown":1}`).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(h, http.MethodGet, "/api/swap/plan", "").Code)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	h := NewRouter(&fakePlanner{}, Options{})
	for _, c := range []struct{ method, path string }{
		{http.MethodGet, "/api/swap/plan"},
		{http.MethodDelete, "/api/selections"},
		{http.MethodPost, "/api/fleet/eligible"},
		{http.MethodPut, "/healthz"},
	} {
		assert.Equal(t, http.StatusMethodNotAllowed, serve(h, c.method, c.path, "").Code, "%s %s", c.method, c.path)
	}
	assert.Equal(t, http.StatusNotFound, serve(h, http.MethodGet, "/api/unknown", "").Code)
}

func TestEligibleFleet(t *testing.T) {
	p := &fakePlanner{fleet: []planner.FleetEntry{{ID: "E1", Branch: "North", RangeKm: 150, BookedDates: []string{"2024-06-01"}}}}
	h := NewRouter(p, Options{})

	rr := serve(h, http.MethodGet, "/api/fleet/eligible?range_km=120", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, p.gotRange)
	assert.Equal(t, 120.0, *p.gotRange)

	var out []planner.FleetEntry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, p.fleet, out)

	assert.Equal(t, http.StatusBadRequest, serve(h, http.MethodGet, "/api/fleet/eligible?range_km=far", "").Code)
}

func TestHealthAndMetrics(t *testing.T) {
	h := NewRouter(&fakePlanner{}, Options{
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok_metric 1\n")) }),
	})
	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/healthz", "").Code)
	assert.Contains(t, serve(h, http.MethodGet, "/metrics", "").Body.String(), "ok_metric")

	down := NewRouter(&fakePlanner{}, Options{Health: func(context.Context) error { return errors.New("db down") }})
	rr := serve(down, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "db down")
}
