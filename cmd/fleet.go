package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/evswap/core/selectionlog"
	"github.com/kilianp07/evswap/pkg/export"
)

var (
	outputFormat string
	fleetRangeKm float64
	historyFlags struct {
		since  time.Duration
		branch string
		ev     string
	}
)

var fleetCmd = &cobra.Command{
	Use:   "fleet",
	Short: "Fleet related commands",
}

var fleetLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List electric vehicles eligible for a swap",
	RunE:  runFleetLs,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past selections from the audit log",
	RunE:  runHistory,
}

func init() {
	fleetLsCmd.Flags().Float64Var(&fleetRangeKm, "range-threshold", 0, "minimum electric range in km")
	fleetCmd.AddCommand(fleetLsCmd)
	rootCmd.AddCommand(fleetCmd)

	historyCmd.Flags().DurationVar(&historyFlags.since, "since", 0, "only show selections newer than this duration")
	historyCmd.Flags().StringVar(&historyFlags.branch, "branch", "", "filter by branch name")
	historyCmd.Flags().StringVar(&historyFlags.ev, "ev", "", "filter by electric vehicle id")
	rootCmd.AddCommand(historyCmd)

	for _, c := range []*cobra.Command{fleetLsCmd, historyCmd} {
		c.Flags().StringVarP(&outputFormat, "output", "o", "json", "output format: json or csv")
	}
}

func checkFormat() error {
	if outputFormat != "json" && outputFormat != "csv" {
		return fmt.Errorf("unknown output format %q", outputFormat)
	}
	return nil
}

func runFleetLs(cmd *cobra.Command, args []string) error {
	if err := checkFormat(); err != nil {
		return err
	}
	svc, err := loadService()
	if err != nil {
		return err
	}
	defer closeService(svc)

	var rangeKm *float64
	if cmd.Flags().Changed("range-threshold") {
		rangeKm = &fleetRangeKm
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	entries, err := svc.Planner.EligibleFleet(ctx, rangeKm)
	if err != nil {
		return err
	}
	if outputFormat == "csv" {
		return export.WriteFleetCSV(cmd.OutOrStdout(), entries)
	}
	return export.WriteJSON(cmd.OutOrStdout(), entries)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if err := checkFormat(); err != nil {
		return err
	}
	svc, err := loadService()
	if err != nil {
		return err
	}
	defer closeService(svc)

	q := selectionlog.Query{BranchName: historyFlags.branch, EVID: historyFlags.ev}
	if historyFlags.since > 0 {
		q.Start = time.Now().Add(-historyFlags.since)
	}
	records, err := svc.Planner.History(context.Background(), q)
	if err != nil {
		return err
	}
	if outputFormat == "csv" {
		return export.WriteSelectionsCSV(cmd.OutOrStdout(), records)
	}
	return export.WriteJSON(cmd.OutOrStdout(), records)
}
