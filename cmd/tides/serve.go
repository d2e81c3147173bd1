package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.ngs.io/tide-clock/internal/config"
	httpHandler "go.ngs.io/tide-clock/internal/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg)
		if err != nil {
			return err
		}

		router := httpHandler.SetupRouter(a.predictions, a.models, cfg.AllowedOrigins)

		addr := fmt.Sprintf(":%s", cfg.Port)
		log.Info().
			Str("addr", addr).
			Str("data_dir", cfg.DataDir).
			Str("station", cfg.Station).
			Int("cache_size", cfg.CacheSize).
			Strs("allowed_origins", cfg.AllowedOrigins).
			Msg("server listening")

		return router.Run(addr)
	},
}

func init() {
	serveCmd.Flags().String("port", "8080", "HTTP port")
	serveCmd.Flags().StringSlice("allowed-origins", nil, "CORS origins (default: all origins)")
	cobra.CheckErr(viper.BindPFlag(config.KeyPort, serveCmd.Flags().Lookup("port")))
	cobra.CheckErr(viper.BindPFlag(config.KeyAllowedOrigins, serveCmd.Flags().Lookup("allowed-origins")))
}
