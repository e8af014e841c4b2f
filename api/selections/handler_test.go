package selections

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kilianp07/evswap/core/selectionlog"
)

type memHistory struct {
	recs []selectionlog.Record
	last selectionlog.Query
}

func (m *memHistory) History(ctx context.Context, q selectionlog.Query) ([]selectionlog.Record, error) {
	m.last = q
	var res []selectionlog.Record
	for _, r := range m.recs {
		if q.Match(r) {
			res = append(res, r)
		}
	}
	return res, nil
}

func TestLogHandler_AuthAndFilters(t *testing.T) {
	ts := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	h := &memHistory{recs: []selectionlog.Record{
		{ID: "a", Timestamp: ts, Found: true, BranchName: "North", EVID: "E1"},
		{ID: "b", Timestamp: ts.Add(time.Hour), Found: true, BranchName: "South", EVID: "E2"},
	}}
	handler := NewLogHandler(h, "tok")

	req := httptest.NewRequest("GET", "/api/selections?ev=E1&start=2024-06-01T00:00:00Z", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var out []selectionlog.Record
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out) != 1 || out[0].ID != "a" {
		t.Fatalf("unexpected records %+v", out)
	}
	if h.last.Start.IsZero() || h.last.EVID != "E1" {
		t.Fatalf("query not forwarded: %+v", h.last)
	}

	// unauthorized
	req = httptest.NewRequest("GET", "/api/selections", nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
}

func TestLogHandler_EmptyResult(t *testing.T) {
	rr := httptest.NewRecorder()
	NewLogHandler(&memHistory{}, "").ServeHTTP(rr, httptest.NewRequest("GET", "/api/selections?branch=none", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	if body := rr.Body.String(); body != "[]\n" {
		t.Fatalf("expected empty array, got %q", body)
	}
}

func TestLogHandler_BadTime(t *testing.T) {
	rr := httptest.NewRecorder()
	NewLogHandler(&memHistory{}, "").ServeHTTP(rr, httptest.NewRequest("GET", "/api/selections?end=yesterday", nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}
