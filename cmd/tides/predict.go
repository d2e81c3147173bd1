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

var predictOpts struct {
	date   string
	clock  string
	tz     string
	lat    float64
	lon    float64
	dst    float64
	refine bool
	dedup  bool
	every  int
	asJSON bool
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Print the tide curve and the highs and lows of a day",
	Example: `  tides predict --date 2024-03-15 --time 14:30
  tides predict --station tokyo --refine --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg)
		if err != nil {
			return err
		}

		date, err := requestedMoment(predictOpts.date, predictOpts.clock, predictOpts.tz, time.Now())
		if err != nil {
			return err
		}

		req := usecase.PredictionRequest{
			Date:           date,
			DSTOffsetHours: cfg.DSTOffsetHours,
			Refine:         predictOpts.refine,
			DedupPlateaus:  predictOpts.dedup,
		}
		if cmd.Flags().Changed("dst") {
			req.DSTOffsetHours = predictOpts.dst
		}
		if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
			req.Lat = &predictOpts.lat
			req.Lon = &predictOpts.lon
		} else {
			req.StationID = cfg.Station
		}

		resp, err := a.predictions.Execute(req)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if predictOpts.asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		}
		return printDay(out, resp, predictOpts.every)
	},
}

func init() {
	f := predictCmd.Flags()
	f.StringVar(&predictOpts.date, "date", "", "day to predict, YYYY-MM-DD (default today)")
	f.StringVar(&predictOpts.clock, "time", "", "moment for the current height, HH:MM (default now, or 00:00 with --date)")
	f.StringVar(&predictOpts.tz, "tz", "Local", "IANA time zone of --date and --time")
	f.Float64Var(&predictOpts.lat, "lat", 0, "latitude for gridded calibration")
	f.Float64Var(&predictOpts.lon, "lon", 0, "longitude for gridded calibration")
	f.Float64Var(&predictOpts.dst, "dst", 0, "manual DST offset in hours (default from config)")
	f.BoolVar(&predictOpts.refine, "refine", false, "refine extrema by parabolic interpolation")
	f.BoolVar(&predictOpts.dedup, "dedup", false, "detect extrema by turning points, collapsing plateaus")
	f.IntVar(&predictOpts.every, "every", 60, "print a sample every N minutes; 0 prints none")
	f.BoolVar(&predictOpts.asJSON, "json", false, "print the full response as JSON")
}

// requestedMoment resolves the date and time flags. Without a date the
// current moment is used.
func requestedMoment(date, clock, tz string, now time.Time) (time.Time, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time zone %q: %w", tz, err)
	}

	if date == "" {
		now = now.In(loc)
		if clock == "" {
			return now, nil
		}
		date = now.Format("2006-01-02")
	}
	if clock == "" {
		clock = "00:00"
	}

	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time (expected YYYY-MM-DD and HH:MM): %w", err)
	}
	return t, nil
}

func printDay(w io.Writer, resp *usecase.DayResponse, everyMinutes int) error {
	fmt.Fprintf(w, "%s %s (UTC%s)  %s %s\n", resp.Date, resp.Current.Time, resp.Timezone, resp.Source, resp.Station)
	fmt.Fprintf(w, "Now: %.1f cm\n\n", resp.Current.HeightCm)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIDE\tTIME\tHEIGHT")
	for _, e := range resp.Extrema {
		fmt.Fprintf(tw, "%s\t%s\t%.1f cm\n", e.Kind, e.Time, e.HeightCm)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if everyMinutes <= 0 {
		return nil
	}
	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "TIME\tHEIGHT\t")
	for i := 0; i < len(resp.Samples); i += everyMinutes {
		s := resp.Samples[i]
		fmt.Fprintf(tw, "%s\t%.1f\t\n", s.Time, s.HeightCm)
	}
	return tw.Flush()
}
