// Package swap exposes swap planning over HTTP.
package swap

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/kilianp07/evswap/api/httputil"
	"github.com/kilianp07/evswap/core/planner"
)

// Planner computes swap plans.
type Planner interface {
	Plan(ctx context.Context, req planner.Request) (*planner.Result, error)
}

// maxBody bounds the request body; encoded paths can be long.
const maxBody = 4 << 20

// NewPlanHandler returns an HTTP handler for POST /api/swap/plan. The body is
// a planner.Request and the response a planner.Result. A plan without any
// candidate is still a 200 with found set to false.
func NewPlanHandler(p Planner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req planner.Request
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			httputil.WriteError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
		res, err := p.Plan(r.Context(), req)
		if err != nil {
			httputil.WriteError(w, httputil.StatusFor(err), err.Error())
			return
		}
		httputil.WriteJSON(w, http.StatusOK, res)
	})
}
