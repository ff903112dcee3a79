package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kilianp07/raidplan/app"
	"github.com/kilianp07/raidplan/config"
	"github.com/kilianp07/raidplan/core/model"
)

var excludedBy string

var exclusionsCmd = &cobra.Command{
	Use:   "exclusions",
	Short: "Manage per-tier exclusions",
}

var exclusionsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List exclusions with who added them",
	Args:  cobra.NoArgs,
	RunE:  runExclusionsLs,
}

var exclusionsAddCmd = &cobra.Command{
	Use:   "add RAID ID...",
	Short: "Exclude characters from a tier",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runExclusionsAdd,
}

var exclusionsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove every exclusion",
	Args:  cobra.NoArgs,
	RunE:  runExclusionsReset,
}

func init() {
	exclusionsAddCmd.Flags().StringVar(&excludedBy, "by", "", "who adds the exclusion")
	exclusionsCmd.AddCommand(exclusionsLsCmd, exclusionsAddCmd, exclusionsResetCmd)
	rootCmd.AddCommand(exclusionsCmd)
}

func runExclusionsLs(cmd *cobra.Command, args []string) error {
	return withService(cmd.Context(), func(svc *app.Service, _ *config.Config) error {
		entries, err := svc.Exclusions().Entries(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), entries)
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "RAID\tCHARACTER\tBY\tAT")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Raid, e.CharacterID, e.UpdatedBy, e.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return tw.Flush()
	})
}

func runExclusionsAdd(cmd *cobra.Command, args []string) error {
	raid, err := model.ParseRaid(args[0])
	if err != nil {
		return err
	}
	return withService(cmd.Context(), func(svc *app.Service, _ *config.Config) error {
		excl, err := svc.Exclusions().Exclude(cmd.Context(), raid, args[1:], excludedBy)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), excl)
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d characters excluded\n", raid, len(excl[raid]))
		return err
	})
}

func runExclusionsReset(cmd *cobra.Command, args []string) error {
	return withService(cmd.Context(), func(svc *app.Service, _ *config.Config) error {
		if err := svc.Exclusions().Reset(cmd.Context()); err != nil {
			return err
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "exclusions cleared")
		return err
	})
}
