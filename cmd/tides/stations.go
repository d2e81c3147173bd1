package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var stationsCmd = &cobra.Command{
	Use:   "stations",
	Short: "List the stations with a calibration table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg)
		if err != nil {
			return err
		}

		files, err := a.csv.ListStations()
		if err != nil {
			return fmt.Errorf("failed to list %s: %w", cfg.DataDir, err)
		}

		out := cmd.OutOrStdout()
		for _, id := range a.memory.ListStations() {
			fmt.Fprintf(out, "%s\tbuilt-in\n", id)
		}
		for _, id := range files {
			fmt.Fprintf(out, "%s\t%s\n", id, cfg.DataDir)
		}
		return nil
	},
}
