package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.ngs.io/tide-clock/internal/config"
)

const version = "0.2.0"

var (
	cfgFile string
	cfg     *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "tides",
	Short:   "Harmonic tide predictions for a tide clock",
	Version: version,
	Long: `Synthesizes a day of tide heights from seven harmonic constituents,
finds the highs and lows, and serves the result over HTTP or prints it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.FromViper(viper.GetViper())
		if err != nil {
			return err
		}
		cfg.InitializeLogging()
		log.Debug().Str("config", viper.ConfigFileUsed()).Msg("configuration loaded")
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	config.SetDefaults(viper.GetViper())

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.tides.yaml)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("env", "production", "environment; local or development enables console logs")
	flags.String("data-dir", "./data", "directory of <station>_calibration.csv files")
	flags.String("grid-dir", "", "directory of <code>.nc calibration grids; empty disables lat/lon lookups")
	flags.String("station", "reference", "default station")

	cobra.CheckErr(viper.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level")))
	cobra.CheckErr(viper.BindPFlag(config.KeyEnv, flags.Lookup("env")))
	cobra.CheckErr(viper.BindPFlag(config.KeyDataDir, flags.Lookup("data-dir")))
	cobra.CheckErr(viper.BindPFlag(config.KeyGridDir, flags.Lookup("grid-dir")))
	cobra.CheckErr(viper.BindPFlag(config.KeyStation, flags.Lookup("station")))

	rootCmd.AddCommand(serveCmd, predictCmd, correctionsCmd, constituentsCmd, stationsCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".tides")
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
