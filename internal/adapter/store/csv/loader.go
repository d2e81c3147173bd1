// Package csv provides CSV-based calibration table loading.
package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.ngs.io/tide-clock/internal/adapter/store"
	"go.ngs.io/tide-clock/internal/domain"
)

const fileSuffix = "_calibration.csv"

var (
	requiredHeaders = []string{"constituent", "amplitude_cm", "phase_lag_deg"}
	speedHeader     = "speed_deg_per_hr"
	stationIDRe     = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)
)

// CalibrationStore reads <dataDir>/<station>_calibration.csv files.
type CalibrationStore struct {
	dataDir string
}

// NewCalibrationStore creates a new CSV-based calibration store.
func NewCalibrationStore(dataDir string) *CalibrationStore {
	return &CalibrationStore{
		dataDir: dataDir,
	}
}

// LoadForStation loads the calibration table for a named station.
func (s *CalibrationStore) LoadForStation(stationID string) (domain.CalibrationTable, error) {
	id := strings.ToLower(strings.TrimSpace(stationID))
	if !stationIDRe.MatchString(id) {
		return domain.CalibrationTable{}, fmt.Errorf("invalid station id %q: %w", stationID, store.ErrNotFound)
	}

	filename := filepath.Join(s.dataDir, id+fileSuffix)

	//nolint:gosec // G304: path built from configured dataDir and a validated station id.
	file, err := os.Open(filename)
	if errors.Is(err, os.ErrNotExist) {
		return domain.CalibrationTable{}, fmt.Errorf("no CSV file for station %s: %w", stationID, store.ErrNotFound)
	}
	if err != nil {
		return domain.CalibrationTable{}, fmt.Errorf("failed to open CSV file for station %s: %w", stationID, err)
	}
	defer func() { _ = file.Close() }()

	table, err := Parse(file)
	if err != nil {
		return domain.CalibrationTable{}, fmt.Errorf("station %s: %w", stationID, err)
	}
	return table, nil
}

// Parse reads a calibration table. The header must be
// constituent,amplitude_cm,phase_lag_deg with an optional fourth column
// speed_deg_per_hr; every constituent must appear exactly once.
func Parse(r io.Reader) (domain.CalibrationTable, error) {
	var table domain.CalibrationTable

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return table, fmt.Errorf("failed to read CSV header: %w", err)
	}
	hasSpeed, err := checkHeader(header)
	if err != nil {
		return table, err
	}

	var seen [domain.NumConstituents]bool
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return table, fmt.Errorf("failed to read CSV record: %w", err)
		}
		if len(record) != len(header) {
			return table, fmt.Errorf("invalid CSV record: expected %d columns, got %d", len(header), len(record))
		}

		c, err := parseRecord(record, hasSpeed)
		if err != nil {
			return table, err
		}
		if seen[c.Code] {
			return table, fmt.Errorf("duplicate constituent %s", c.Code)
		}
		seen[c.Code] = true
		table[c.Code] = c
	}

	for code, ok := range seen {
		if !ok {
			return table, fmt.Errorf("missing constituent %s", domain.ConstituentCode(code))
		}
	}

	if err := table.Validate(); err != nil {
		return table, err
	}
	return table, nil
}

func checkHeader(header []string) (bool, error) {
	if len(header) != len(requiredHeaders) && len(header) != len(requiredHeaders)+1 {
		return false, fmt.Errorf("invalid CSV header: expected %v, got %v", requiredHeaders, header)
	}
	for i, h := range requiredHeaders {
		if strings.TrimSpace(header[i]) != h {
			return false, fmt.Errorf("invalid CSV header: expected column %d to be %s, got %s", i, h, header[i])
		}
	}
	if len(header) == len(requiredHeaders) {
		return false, nil
	}
	if strings.TrimSpace(header[3]) != speedHeader {
		return false, fmt.Errorf("invalid CSV header: expected column 3 to be %s, got %s", speedHeader, header[3])
	}
	return true, nil
}

func parseRecord(record []string, hasSpeed bool) (domain.Constituent, error) {
	code, err := domain.ParseConstituentCode(record[0])
	if err != nil {
		return domain.Constituent{}, err
	}

	amplitude, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
	if err != nil {
		return domain.Constituent{}, fmt.Errorf("invalid amplitude for constituent %s: %w", code, err)
	}

	phase, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
	if err != nil {
		return domain.Constituent{}, fmt.Errorf("invalid phase for constituent %s: %w", code, err)
	}

	speed := code.StandardSpeed()
	if hasSpeed && strings.TrimSpace(record[3]) != "" {
		deg, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
		if err != nil {
			return domain.Constituent{}, fmt.Errorf("invalid speed for constituent %s: %w", code, err)
		}
		speed = domain.Deg2Rad(deg)
	}

	return domain.Constituent{
		Code:          code,
		AmplitudeCm:   amplitude,
		PhaseLagRad:   domain.Deg2Rad(phase),
		SpeedRadPerHr: speed,
	}, nil
}

// LoadForLocation is not supported by the CSV store.
func (s *CalibrationStore) LoadForLocation(lat, lon float64) (domain.CalibrationTable, error) {
	return domain.CalibrationTable{}, fmt.Errorf("CSV store does not support lat/lon queries (%.4f, %.4f): %w", lat, lon, store.ErrNotFound)
}

// ListStations returns available station IDs, sorted.
func (s *CalibrationStore) ListStations() ([]string, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	stations := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasSuffix(name, fileSuffix) && len(name) > len(fileSuffix) {
			stations = append(stations, strings.TrimSuffix(name, fileSuffix))
		}
	}
	sort.Strings(stations)

	return stations, nil
}

// Write renders table in the format Parse reads, phases in degrees.
func Write(w io.Writer, table domain.CalibrationTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append(append([]string{}, requiredHeaders...), speedHeader)); err != nil {
		return err
	}
	for _, c := range table {
		if err := cw.Write([]string{
			c.Code.String(),
			strconv.FormatFloat(c.AmplitudeCm, 'f', -1, 64),
			strconv.FormatFloat(domain.Rad2Deg(c.PhaseLagRad), 'f', -1, 64),
			strconv.FormatFloat(domain.Rad2Deg(c.SpeedRadPerHr), 'f', -1, 64),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
