package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kilianp07/raidplan/app"
	"github.com/kilianp07/raidplan/config"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Build and print the raid schedule",
	Args:  cobra.NoArgs,
	RunE:  runSchedule,
}

func init() {
	addModeFlag(scheduleCmd)
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	return withService(cmd.Context(), func(svc *app.Service, cfg *config.Config) error {
		mode, err := balanceMode(cfg)
		if err != nil {
			return err
		}
		res, err := svc.Build(cmd.Context(), mode)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"id":          res.ID,
				"fingerprint": res.Fingerprint,
				"schedule":    res.Schedule,
				"report":      res.Report,
			})
		}
		return printSchedule(cmd.OutOrStdout(), res)
	})
}
