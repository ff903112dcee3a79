package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kilianp07/raidplan/app"
	"github.com/kilianp07/raidplan/config"
)

var sequenceCmd = &cobra.Command{
	Use:   "sequence",
	Short: "Print the runs in play order with roster changes between them",
	Args:  cobra.NoArgs,
	RunE:  runSequence,
}

func init() {
	addModeFlag(sequenceCmd)
	rootCmd.AddCommand(sequenceCmd)
}

func runSequence(cmd *cobra.Command, args []string) error {
	return withService(cmd.Context(), func(svc *app.Service, cfg *config.Config) error {
		mode, err := balanceMode(cfg)
		if err != nil {
			return err
		}
		res, err := svc.Build(cmd.Context(), mode)
		if err != nil {
			return err
		}
		seq, err := svc.Sequence(res)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), seq)
		}
		return printSequence(cmd.OutOrStdout(), seq, res.Exclusions)
	})
}
