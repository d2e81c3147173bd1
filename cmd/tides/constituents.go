package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"go.ngs.io/tide-clock/internal/usecase"
)

var constituentsCmd = &cobra.Command{
	Use:   "constituents",
	Short: "List the harmonic constituents of the model",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "CODE\tSPEED (°/h)\tPERIOD (h)\tDESCRIPTION")
		for _, c := range usecase.Constituents() {
			fmt.Fprintf(tw, "%s\t%.7f\t%.4f\t%s\n", c.Code, c.SpeedDegPerHr, c.PeriodHours, c.Description)
		}
		return tw.Flush()
	},
}
