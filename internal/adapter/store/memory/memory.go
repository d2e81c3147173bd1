// Package memory serves calibration tables held in process memory.
package memory

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.ngs.io/tide-clock/internal/adapter/store"
	"go.ngs.io/tide-clock/internal/domain"
)

// ReferenceStation is the ID under which the built-in table is registered.
const ReferenceStation = "reference"

// Store maps station IDs to calibration tables.
type Store struct {
	mu       sync.RWMutex
	stations map[string]domain.CalibrationTable
}

// NewStore returns a store holding only the reference station.
func NewStore() *Store {
	return &Store{
		stations: map[string]domain.CalibrationTable{
			ReferenceStation: domain.ReferenceCalibration(),
		},
	}
}

// Add registers or replaces the table for stationID.
func (s *Store) Add(stationID string, table domain.CalibrationTable) error {
	if err := table.Validate(); err != nil {
		return fmt.Errorf("station %s: %w", stationID, err)
	}
	s.mu.Lock()
	s.stations[strings.ToLower(stationID)] = table
	s.mu.Unlock()
	return nil
}

// LoadForStation returns the table for stationID.
func (s *Store) LoadForStation(stationID string) (domain.CalibrationTable, error) {
	s.mu.RLock()
	table, ok := s.stations[strings.ToLower(stationID)]
	s.mu.RUnlock()
	if !ok {
		return domain.CalibrationTable{}, fmt.Errorf("station %q: %w", stationID, store.ErrNotFound)
	}
	return table, nil
}

// LoadForLocation always reports ErrNotFound; tables here are keyed by station.
func (s *Store) LoadForLocation(lat, lon float64) (domain.CalibrationTable, error) {
	return domain.CalibrationTable{}, fmt.Errorf("memory store has no location (%.4f, %.4f): %w", lat, lon, store.ErrNotFound)
}

// ListStations returns the registered station IDs, sorted.
func (s *Store) ListStations() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.stations))
	for id := range s.stations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
