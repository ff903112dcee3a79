package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/kilianp07/raidplan/app"
	"github.com/kilianp07/raidplan/config"
	"github.com/kilianp07/raidplan/core/model"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage the support shortage flag per tier",
}

var settingsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "Show the shortage flag of every tier",
	Args:  cobra.NoArgs,
	RunE:  runSettingsLs,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set RAID true|false",
	Short: "Set the shortage flag of a tier",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsLsCmd, settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsLs(cmd *cobra.Command, args []string) error {
	return withService(cmd.Context(), func(svc *app.Service, _ *config.Config) error {
		settings, err := svc.Exclusions().Settings(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), settings)
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "RAID\tSUPPORT SHORTAGE")
		for _, raid := range model.AllRaids {
			fmt.Fprintf(tw, "%s\t%t\n", raid, settings[raid])
		}
		return tw.Flush()
	})
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	raid, err := model.ParseRaid(args[0])
	if err != nil {
		return err
	}
	shortage, err := cast.ToBoolE(args[1])
	if err != nil {
		return fmt.Errorf("shortage flag: %w", err)
	}
	return withService(cmd.Context(), func(svc *app.Service, _ *config.Config) error {
		if err := svc.Exclusions().SetSetting(cmd.Context(), raid, shortage); err != nil {
			return err
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s support shortage = %t\n", raid, shortage)
		return err
	})
}
