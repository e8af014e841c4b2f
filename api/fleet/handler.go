// Package fleet exposes the eligible electric fleet over HTTP.
package fleet

import (
	"context"
	"net/http"
	"strconv"

	"github.com/kilianp07/evswap/api/httputil"
	"github.com/kilianp07/evswap/core/planner"
)

// Lister lists the eligible electric vehicles.
type Lister interface {
	EligibleFleet(ctx context.Context, rangeKm *float64) ([]planner.FleetEntry, error)
}

// NewEligibleHandler returns an HTTP handler for GET /api/fleet/eligible.
// The optional range_km parameter overrides the configured range threshold.
func NewEligibleHandler(l Lister) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var rangeKm *float64
		if s := r.URL.Query().Get("range_km"); s != "" {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				httputil.WriteError(w, http.StatusBadRequest, "invalid range_km")
				return
			}
			rangeKm = &v
		}
		entries, err := l.EligibleFleet(r.Context(), rangeKm)
		if err != nil {
			httputil.WriteError(w, httputil.StatusFor(err), err.Error())
			return
		}
		httputil.WriteJSON(w, http.StatusOK, entries)
	})
}
