package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/raidplan/app"
	"github.com/kilianp07/raidplan/config"
	"github.com/kilianp07/raidplan/core/history"
	"github.com/kilianp07/raidplan/core/model"
)

var (
	historyLimit int
	historyMode  string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past scheduling passes",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of records to show")
	historyCmd.Flags().StringVar(&historyMode, "mode", "", "only passes built with this balance mode")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	q := history.Query{Limit: historyLimit}
	if historyMode != "" {
		m, err := model.ParseBalanceMode(historyMode)
		if err != nil {
			return err
		}
		q.Mode = m
	}
	return withService(cmd.Context(), func(svc *app.Service, _ *config.Config) error {
		store := svc.History()
		if store == nil {
			return errors.New("history is disabled")
		}
		recs, err := store.Query(cmd.Context(), q)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), recs)
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TIME\tMODE\tFINGERPRINT\tCHARACTERS\tRUNS\tDEGRADED\tUNPLACED")
		for _, r := range recs {
			runs := 0
			for _, t := range r.Tiers {
				runs += t.Runs
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
				r.Timestamp.Format("2006-01-02 15:04:05"), r.Mode, r.Fingerprint, r.Characters, runs, r.Degraded, r.Unplaced)
		}
		return tw.Flush()
	})
}
