package main

import (
	"github.com/rs/zerolog/log"

	"go.ngs.io/tide-clock/internal/adapter/cache"
	"go.ngs.io/tide-clock/internal/adapter/store"
	"go.ngs.io/tide-clock/internal/adapter/store/csv"
	"go.ngs.io/tide-clock/internal/adapter/store/grid"
	"go.ngs.io/tide-clock/internal/adapter/store/memory"
	"go.ngs.io/tide-clock/internal/config"
	"go.ngs.io/tide-clock/internal/usecase"
)

// app wires the stores, the model cache and the use case from a Config.
type app struct {
	memory      *memory.Store
	csv         *csv.CalibrationStore
	models      *cache.ModelCache
	predictions *usecase.PredictionUseCase
}

func newApp(cfg *config.Config) (*app, error) {
	mem := memory.NewStore()
	csvStore := csv.NewCalibrationStore(cfg.DataDir)

	// Built-in stations win over files of the same name.
	stations := store.Chain{mem, csvStore}

	var locations store.CalibrationLoader
	if cfg.GridDir != "" {
		locations = grid.NewStore(cfg.GridDir)
		log.Info().Str("grid_dir", cfg.GridDir).Msg("gridded calibration enabled")
	} else {
		log.Info().Msg("gridded calibration disabled (no grid_dir configured)")
	}

	models, err := cache.NewModelCache(cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	uc := usecase.NewPredictionUseCase(stations, locations, models,
		usecase.WithYearRange(cfg.MinYear, cfg.MaxYear),
		usecase.WithDefaultStation(cfg.Station),
	)

	return &app{
		memory:      mem,
		csv:         csvStore,
		models:      models,
		predictions: uc,
	}, nil
}
