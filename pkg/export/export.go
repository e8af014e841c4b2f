// Package export renders fleet listings and selection records for the CLI.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/evswap/core/planner"
	"github.com/kilianp07/evswap/core/selectionlog"
)

// WriteJSON writes v to w as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteFleetCSV writes the eligible fleet to w. Booked dates are joined with
// a semicolon.
func WriteFleetCSV(w io.Writer, entries []planner.FleetEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ev_id", "branch", "range_km", "booked_dates"}); err != nil {
		return err
	}
	for _, e := range entries {
		rec := []string{
			e.ID,
			e.Branch,
			formatFloat(e.RangeKm),
			strings.Join(e.BookedDates, ";"),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSelectionsCSV writes audit records to w.
func WriteSelectionsCSV(w io.Writer, records []selectionlog.Record) error {
	cw := csv.NewWriter(w)
	header := []string{"id", "timestamp", "date", "found", "branch_name", "ev_id", "score", "nearby", "candidates", "available", "error"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		score, err := r.Score.MarshalJSON()
		if err != nil {
			return err
		}
		rec := []string{
			r.ID,
			r.Timestamp.Format(time.RFC3339),
			r.Date,
			strconv.FormatBool(r.Found),
			r.BranchName,
			r.EVID,
			strings.Trim(string(score), `"`),
			strconv.Itoa(r.NearbyCount),
			strconv.Itoa(r.CandidateCount),
			strconv.Itoa(r.AvailableCount),
			r.Error,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
