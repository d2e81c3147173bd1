package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"go.ngs.io/tide-clock/internal/usecase"
)

var correctionsOpts struct {
	year   int
	asJSON bool
}

var correctionsCmd = &cobra.Command{
	Use:   "corrections",
	Short: "Print the nodal factors and equilibrium arguments of a year",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg)
		if err != nil {
			return err
		}

		resp, err := a.predictions.Corrections(usecase.CorrectionsRequest{
			Year:      correctionsOpts.year,
			StationID: cfg.Station,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if correctionsOpts.asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		}
		return printCorrections(out, resp)
	},
}

func init() {
	correctionsCmd.Flags().IntVar(&correctionsOpts.year, "year", time.Now().Year(), "calendar year")
	correctionsCmd.Flags().BoolVar(&correctionsOpts.asJSON, "json", false, "print JSON")
}

func printCorrections(w io.Writer, resp *usecase.CorrectionsResponse) error {
	args := resp.Arguments
	fmt.Fprintf(w, "%d  station %s\n", resp.Year, resp.Station)
	fmt.Fprintf(w, "h=%.3f° s=%.3f° p=%.3f° N=%.3f° I=%.3f°\n\n",
		args.SunLongitudeDeg, args.MoonLongitudeDeg, args.PerigeeDeg, args.NodeDeg, args.InclinationDeg)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tf\tV0+u\tH\tG\tf·H\tV0+u−G")
	for _, c := range resp.Constituents {
		fmt.Fprintf(tw, "%s\t%.4f\t%.2f°\t%.1f cm\t%.2f°\t%.2f cm\t%.2f°\n",
			c.Code, c.NodalFactor, c.EquilibriumArgDeg, c.AmplitudeCm, c.PhaseLagDeg, c.CompAmplitudeCm, c.CompPhaseDeg)
	}
	return tw.Flush()
}
