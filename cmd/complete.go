package cmd

import (
	"fmt"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/kilianp07/raidplan/app"
	"github.com/kilianp07/raidplan/config"
	"github.com/kilianp07/raidplan/core/model"
)

var completedBy string

var completeCmd = &cobra.Command{
	Use:   "complete RAID RUN",
	Short: "Mark a run complete and exclude its members from the tier",
	Args:  cobra.ExactArgs(2),
	RunE:  runComplete,
}

func init() {
	addModeFlag(completeCmd)
	completeCmd.Flags().StringVar(&completedBy, "by", "", "who marks the run complete")
	rootCmd.AddCommand(completeCmd)
}

func runComplete(cmd *cobra.Command, args []string) error {
	raid, err := model.ParseRaid(args[0])
	if err != nil {
		return err
	}
	index, err := cast.ToIntE(args[1])
	if err != nil {
		return fmt.Errorf("run index: %w", err)
	}
	return withService(cmd.Context(), func(svc *app.Service, cfg *config.Config) error {
		mode, err := balanceMode(cfg)
		if err != nil {
			return err
		}
		res, err := svc.Build(cmd.Context(), mode)
		if err != nil {
			return err
		}
		done, err := svc.Complete(cmd.Context(), res, raid, index, completedBy)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), done)
		}
		if len(done.Added) == 0 {
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s #%d: nothing to exclude\n", raid, index)
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s #%d completed, excluded %d characters (batch %s)\n",
			raid, index, len(done.Added), done.BatchID)
		return err
	})
}
