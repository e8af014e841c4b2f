package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/evswap/core/planner"
	"github.com/kilianp07/evswap/pkg/export"
)

var planFlags struct {
	path        string
	origin      string
	destination string
	date        string
	lateralM    float64
	rangeKm     float64
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Select the swap branch and electric vehicle for a trip",
	RunE:  runPlan,
}

func init() {
	f := planCmd.Flags()
	f.StringVar(&planFlags.path, "path", "", "encoded polyline of the route")
	f.StringVar(&planFlags.origin, "origin", "", "trip origin, resolved with the directions provider")
	f.StringVar(&planFlags.destination, "destination", "", "trip destination")
	f.StringVar(&planFlags.date, "date", "", "trip date (YYYY-MM-DD), defaults to today")
	f.Float64Var(&planFlags.lateralM, "lateral-threshold", 0, "maximum branch distance to the route in meters")
	f.Float64Var(&planFlags.rangeKm, "range-threshold", 0, "minimum electric range in km")
	rootCmd.AddCommand(planCmd)
}

// buildRequest maps the command flags to a plan request. Thresholds are only
// set when the flag was given.
func buildRequest(cmd *cobra.Command, now time.Time, loc *time.Location) planner.Request {
	req := planner.Request{
		EncodedPath: planFlags.path,
		Origin:      planFlags.origin,
		Destination: planFlags.destination,
		Date:        planFlags.date,
	}
	if req.Date == "" {
		req.Date = now.In(loc).Format(time.DateOnly)
	}
	if cmd.Flags().Changed("lateral-threshold") {
		v := planFlags.lateralM
		req.LateralThresholdMeters = &v
	}
	if cmd.Flags().Changed("range-threshold") {
		v := planFlags.rangeKm
		req.RangeThresholdKm = &v
	}
	return req
}

func runPlan(cmd *cobra.Command, args []string) error {
	if planFlags.path == "" && (planFlags.origin == "" || planFlags.destination == "") {
		return fmt.Errorf("either --path or both --origin and --destination are required")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	svc, err := loadService()
	if err != nil {
		return err
	}
	defer closeService(svc)

	res, err := svc.Planner.Plan(ctx, buildRequest(cmd, time.Now(), svc.Planner.Location()))
	if err != nil {
		return err
	}
	return export.WriteJSON(cmd.OutOrStdout(), res)
}
