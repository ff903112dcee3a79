package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/raidplan/app"
	"github.com/kilianp07/raidplan/config"
	"github.com/kilianp07/raidplan/infra/chart"
)

var chartOutput string

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Render run averages per tier as an HTML page",
	Args:  cobra.NoArgs,
	RunE:  runChart,
}

func init() {
	addModeFlag(chartCmd)
	chartCmd.Flags().StringVarP(&chartOutput, "output", "o", "raidplan.html", "output file, - for stdout")
	rootCmd.AddCommand(chartCmd)
}

func runChart(cmd *cobra.Command, args []string) error {
	return withService(cmd.Context(), func(svc *app.Service, cfg *config.Config) error {
		mode, err := balanceMode(cfg)
		if err != nil {
			return err
		}
		res, err := svc.Build(cmd.Context(), mode)
		if err != nil {
			return err
		}
		var w io.Writer = cmd.OutOrStdout()
		if chartOutput != "-" {
			f, err := os.Create(chartOutput)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		if err := chart.Render(w, res.Schedule, res.Exclusions); err != nil {
			return err
		}
		if chartOutput != "-" {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", chartOutput)
		}
		return nil
	})
}
