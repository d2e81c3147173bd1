// Package main writes NetCDF calibration grids from a station CSV table, for
// bootstrapping and testing the gridded calibration store.
package main

import (
	"fmt"
	"math"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"go.ngs.io/tide-clock/internal/adapter/store/csv"
	"go.ngs.io/tide-clock/internal/adapter/store/grid"
	"go.ngs.io/tide-clock/internal/domain"
)

var opts struct {
	csvPath    string
	outDir     string
	region     string
	latMin     float64
	latMax     float64
	lonMin     float64
	lonMax     float64
	resolution float64
	refLat     float64
	refLon     float64
	uniform    bool
}

var rootCmd = &cobra.Command{
	Use:   "grid-generator",
	Short: "Write <code>.nc calibration grids around a reference station",
	Long: `Spreads a station calibration table over a lat/lon region. The
amplitude tapers and the phase lag drifts with distance from the reference
point, so interpolated predictions vary smoothly across the grid.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		region, err := selectRegion(opts.region)
		if err != nil {
			return err
		}

		table := domain.ReferenceCalibration()
		if opts.csvPath != "" {
			f, err := os.Open(opts.csvPath)
			if err != nil {
				return err
			}
			defer f.Close()
			if table, err = csv.Parse(f); err != nil {
				return fmt.Errorf("failed to read %s: %w", opts.csvPath, err)
			}
		}

		if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		field := taperedField(table, opts.refLat, opts.refLon)
		if opts.uniform {
			field = uniformField(table)
		}

		lat, lon, err := region.Axes()
		if err != nil {
			return err
		}
		log.Info().
			Str("region", opts.region).
			Float64("resolution", region.Resolution).
			Int("lat_points", len(lat)).
			Int("lon_points", len(lon)).
			Msg("generating calibration grids")

		if err := grid.WriteRegion(opts.outDir, region, field); err != nil {
			return err
		}

		log.Info().
			Str("dir", opts.outDir).
			Int("files", domain.NumConstituents).
			Float64("approx_mb", float64(len(lat)*len(lon)*8*2*domain.NumConstituents)/1024/1024).
			Msg("generation complete")
		return nil
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&opts.csvPath, "csv", "", "station calibration CSV (default: built-in reference table)")
	f.StringVar(&opts.outDir, "out", "./data/grid", "output directory")
	f.StringVar(&opts.region, "region", "japan", "region: japan, global, or custom")
	f.Float64Var(&opts.latMin, "lat-min", 20, "minimum latitude (custom region)")
	f.Float64Var(&opts.latMax, "lat-max", 50, "maximum latitude (custom region)")
	f.Float64Var(&opts.lonMin, "lon-min", 120, "minimum longitude (custom region)")
	f.Float64Var(&opts.lonMax, "lon-max", 150, "maximum longitude (custom region)")
	f.Float64Var(&opts.resolution, "resolution", 0.1, "grid resolution in degrees")
	f.Float64Var(&opts.refLat, "ref-lat", 35.6762, "latitude of the station the table belongs to")
	f.Float64Var(&opts.refLon, "ref-lon", 139.6503, "longitude of the station the table belongs to")
	f.BoolVar(&opts.uniform, "uniform", false, "write the table unchanged at every node")
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func selectRegion(name string) (grid.Region, error) {
	switch name {
	case "japan":
		return grid.Region{LatMin: 20, LatMax: 50, LonMin: 120, LonMax: 150, Resolution: opts.resolution}, nil
	case "global":
		return grid.Region{LatMin: -90, LatMax: 90, LonMin: -180, LonMax: 180, Resolution: 0.5}, nil
	case "custom":
		return grid.Region{LatMin: opts.latMin, LatMax: opts.latMax, LonMin: opts.lonMin, LonMax: opts.lonMax, Resolution: opts.resolution}, nil
	default:
		return grid.Region{}, fmt.Errorf("unknown region: %s (use japan, global, or custom)", name)
	}
}

func uniformField(table domain.CalibrationTable) grid.FieldFunc {
	return func(code domain.ConstituentCode, _, _ float64) (float64, float64) {
		c := table[code]
		return c.AmplitudeCm, domain.Rad2Deg(c.PhaseLagRad)
	}
}

// taperedField keeps the table exact at the reference point. Amplitude falls
// to no less than half of it with distance and the phase lag drifts 2° per
// degree of distance, with a gentle geographic ripple on both.
func taperedField(table domain.CalibrationTable, refLat, refLon float64) grid.FieldFunc {
	ripple := func(lat, lon float64) (float64, float64) {
		amp := 1 +
			0.15*math.Sin(lat*math.Pi/15) +
			0.1*math.Cos(lon*math.Pi/20) +
			0.05*math.Sin((lat+lon)*math.Pi/25)
		pha := 10*math.Sin(lat*math.Pi/30) + 8*math.Cos(lon*math.Pi/40)
		return amp, pha
	}
	refAmp, refPha := ripple(refLat, refLon)

	return func(code domain.ConstituentCode, lat, lon float64) (float64, float64) {
		c := table[code]
		dist := math.Hypot(lat-refLat, lon-refLon)

		taper := math.Max(math.Cos(dist*math.Pi/20), 0.5)
		amp, pha := ripple(lat, lon)

		phase := math.Mod(domain.Rad2Deg(c.PhaseLagRad)+2*dist+pha-refPha, 360)
		if phase < 0 {
			phase += 360
		}
		return c.AmplitudeCm * taper * amp / refAmp, phase
	}
}
