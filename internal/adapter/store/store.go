// Package store defines how calibration tables are looked up.
package store

import (
	"errors"
	"fmt"

	"go.ngs.io/tide-clock/internal/domain"
)

// ErrNotFound is returned when a loader has no calibration for the request.
var ErrNotFound = errors.New("calibration not found")

// CalibrationLoader is the interface for loading a location's calibration table.
type CalibrationLoader interface {
	// LoadForStation loads the table for a named station (e.g., "reference").
	LoadForStation(stationID string) (domain.CalibrationTable, error)

	// LoadForLocation loads the table for a lat/lon location.
	LoadForLocation(lat, lon float64) (domain.CalibrationTable, error)
}

// Chain tries each loader in order and moves on only when a loader
// reports ErrNotFound. Any other error stops the search.
type Chain []CalibrationLoader

// LoadForStation implements CalibrationLoader.
func (c Chain) LoadForStation(stationID string) (domain.CalibrationTable, error) {
	for _, l := range c {
		table, err := l.LoadForStation(stationID)
		if err == nil {
			return table, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return domain.CalibrationTable{}, err
		}
	}
	return domain.CalibrationTable{}, fmt.Errorf("station %q: %w", stationID, ErrNotFound)
}

// LoadForLocation implements CalibrationLoader.
func (c Chain) LoadForLocation(lat, lon float64) (domain.CalibrationTable, error) {
	for _, l := range c {
		table, err := l.LoadForLocation(lat, lon)
		if err == nil {
			return table, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return domain.CalibrationTable{}, err
		}
	}
	return domain.CalibrationTable{}, fmt.Errorf("location (%.4f, %.4f): %w", lat, lon, ErrNotFound)
}
