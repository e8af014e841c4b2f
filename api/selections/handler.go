// Package selections exposes the selection audit log over HTTP.
package selections

import (
	"context"
	"net/http"
	"time"

	"github.com/kilianp07/evswap/api/httputil"
	"github.com/kilianp07/evswap/core/selectionlog"
)

// History queries past selections.
type History interface {
	History(ctx context.Context, q selectionlog.Query) ([]selectionlog.Record, error)
}

// NewLogHandler returns an HTTP handler exposing selection logs via
// GET /api/selections. start and end are RFC3339 timestamps; branch and ev
// filter on the chosen branch and vehicle. Requests must include an
// Authorization header with "Bearer <token>" when token is non-empty.
func NewLogHandler(h History, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !httputil.Authorized(r, token) {
			httputil.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		params := r.URL.Query()
		q := selectionlog.Query{
			BranchName: params.Get("branch"),
			EVID:       params.Get("ev"),
		}
		for name, dst := range map[string]*time.Time{"start": &q.Start, "end": &q.End} {
			s := params.Get(name)
			if s == "" {
				continue
			}
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				httputil.WriteError(w, http.StatusBadRequest, "invalid "+name+": "+err.Error())
				return
			}
			*dst = t
		}
		records, err := h.History(r.Context(), q)
		if err != nil {
			httputil.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if records == nil {
			records = []selectionlog.Record{}
		}
		httputil.WriteJSON(w, http.StatusOK, records)
	})
}
