// Package grid serves calibration tables interpolated from NetCDF grids,
// one file per constituent.
package grid

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fhs/go-netcdf/netcdf"

	"go.ngs.io/tide-clock/internal/adapter/interp"
	"go.ngs.io/tide-clock/internal/adapter/store"
	"go.ngs.io/tide-clock/internal/domain"
)

const (
	amplitudeVarName = "amplitude"
	phaseVarName     = "phase"
)

var (
	latNames  = []string{"lat", "latitude", "y"}
	lonNames  = []string{"lon", "longitude", "x"}
	ampNames  = []string{amplitudeVarName, "amp", "Ha", "HA"}
	phaNames  = []string{phaseVarName, "pha", "Hg", "HG", "phase_deg"}
	realNames = []string{"hRe", "Hre", "real", "Re"}
	imagNames = []string{"hIm", "Him", "imag", "Im"}

	errFileNotFound = errors.New("grid file not found")
)

// Store loads per-constituent grids lazily and keeps them in memory.
type Store struct {
	dataDir string
	cache   map[domain.ConstituentCode]*ConstituentGrid
	mu      sync.RWMutex
}

// ConstituentGrid holds the amplitude (cm) and phase lag (degrees) grids of
// one constituent.
type ConstituentGrid struct {
	Code      domain.ConstituentCode
	Amplitude *interp.Grid
	Phase     *interp.Grid
}

// NewStore creates a grid store reading <code>.nc files under dataDir.
func NewStore(dataDir string) *Store {
	return &Store{
		dataDir: dataDir,
		cache:   make(map[domain.ConstituentCode]*ConstituentGrid),
	}
}

// LoadForStation is not supported by the grid store.
func (s *Store) LoadForStation(stationID string) (domain.CalibrationTable, error) {
	return domain.CalibrationTable{}, fmt.Errorf("grid store does not serve station %q: %w", stationID, store.ErrNotFound)
}

// LoadForLocation interpolates every constituent at (lat, lon).
// Locations outside the grids or over land report store.ErrNotFound.
func (s *Store) LoadForLocation(lat, lon float64) (domain.CalibrationTable, error) {
	var table domain.CalibrationTable

	for _, code := range domain.AllConstituents {
		g, err := s.loadConstituent(code)
		if errors.Is(err, errFileNotFound) {
			return table, fmt.Errorf("no grid for %s: %w", code, store.ErrNotFound)
		}
		if err != nil {
			return table, err
		}

		x, ok := fitLongitude(g.Amplitude.X, lon)
		if !ok || lat < g.Amplitude.Y[0] || lat > g.Amplitude.Y[len(g.Amplitude.Y)-1] {
			return table, fmt.Errorf("location (%.4f, %.4f) outside %s grid: %w", lat, lon, code, store.ErrNotFound)
		}

		amp, phase, err := interp.InterpolatePhasor(g.Amplitude, g.Phase, x, lat)
		if errors.Is(err, interp.ErrNoData) {
			return table, fmt.Errorf("no %s data at (%.4f, %.4f): %w", code, lat, lon, store.ErrNotFound)
		}
		if err != nil {
			return table, fmt.Errorf("failed to interpolate %s at (%.4f, %.4f): %w", code, lat, lon, err)
		}

		table[code] = domain.Constituent{
			Code:          code,
			AmplitudeCm:   amp,
			PhaseLagRad:   domain.Deg2Rad(phase),
			SpeedRadPerHr: code.StandardSpeed(),
		}
	}

	if err := table.Validate(); err != nil {
		return table, fmt.Errorf("interpolated table at (%.4f, %.4f): %w", lat, lon, err)
	}
	return table, nil
}

// AvailableConstituents returns the codes that have a grid file.
func (s *Store) AvailableConstituents() ([]domain.ConstituentCode, error) {
	if _, err := os.Stat(s.dataDir); err != nil {
		return nil, fmt.Errorf("grid data directory: %w", err)
	}

	codes := make([]domain.ConstituentCode, 0, domain.NumConstituents)
	for _, code := range domain.AllConstituents {
		_, err := s.findFile(code)
		if errors.Is(err, errFileNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, nil
}

// fitLongitude maps lon onto the grid's longitude convention, either
// [0, 360) or [-180, 180).
func fitLongitude(xs []float64, lon float64) (float64, bool) {
	lo, hi := xs[0], xs[len(xs)-1]
	for _, cand := range []float64{lon, normalizeLon360(lon), normalizeLon360(lon) - 360} {
		if cand >= lo && cand <= hi {
			return cand, true
		}
	}
	return 0, false
}

// normalizeLon360 maps arbitrary degree longitudes into the [0, 360) range.
func normalizeLon360(lon float64) float64 {
	lon = math.Mod(lon, 360.0)
	if lon < 0 {
		lon += 360.0
	}
	return lon
}

// findFile searches dataDir recursively for <code>.nc, case-insensitively.
func (s *Store) findFile(code domain.ConstituentCode) (string, error) {
	target := strings.ToLower(code.String()) + ".nc"
	errFound := errors.New("found")

	var match string
	err := filepath.WalkDir(s.dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(d.Name(), target) {
			match = path
			return errFound
		}
		return nil
	})
	switch {
	case errors.Is(err, errFound):
		return match, nil
	case errors.Is(err, fs.ErrNotExist):
		return "", errFileNotFound
	case err != nil:
		return "", fmt.Errorf("failed to walk grid directory: %w", err)
	default:
		return "", errFileNotFound
	}
}

// loadConstituent loads the grids for code, using the cache when possible.
func (s *Store) loadConstituent(code domain.ConstituentCode) (*ConstituentGrid, error) {
	s.mu.RLock()
	if g, ok := s.cache[code]; ok {
		s.mu.RUnlock()
		return g, nil
	}
	s.mu.RUnlock()

	path, err := s.findFile(code)
	if err != nil {
		return nil, err
	}

	amp, pha, err := loadNetCDFGrids(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s grid from %s: %w", code, path, err)
	}

	g := &ConstituentGrid{Code: code, Amplitude: amp, Phase: pha}

	s.mu.Lock()
	s.cache[code] = g
	s.mu.Unlock()

	return g, nil
}

// loadNetCDFGrids reads amplitude and phase grids from one file. Files holding
// a complex pair (real/imag) instead are converted on the fly.
func loadNetCDFGrids(path string) (*interp.Grid, *interp.Grid, error) {
	nc, err := netcdf.OpenFile(path, netcdf.NOWRITE)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open NetCDF file: %w", err)
	}
	defer func() { _ = nc.Close() }()

	lat, err := readCoord(nc, latNames)
	if err != nil {
		return nil, nil, fmt.Errorf("latitude: %w", err)
	}
	lon, err := readCoord(nc, lonNames)
	if err != nil {
		return nil, nil, fmt.Errorf("longitude: %w", err)
	}

	var ampVals, phaVals [][]float64
	if ampVar, ok := findVar(nc, ampNames); ok {
		phaVar, ok := findVar(nc, phaNames)
		if !ok {
			return nil, nil, fmt.Errorf("phase variable not found (tried: %v)", phaNames)
		}
		if ampVals, err = readField(ampVar, len(lat), len(lon)); err != nil {
			return nil, nil, fmt.Errorf("amplitude: %w", err)
		}
		if phaVals, err = readField(phaVar, len(lat), len(lon)); err != nil {
			return nil, nil, fmt.Errorf("phase: %w", err)
		}
		scaleValues(ampVals, amplitudeScale(ampVar))
	} else {
		reVar, okRe := findVar(nc, realNames)
		imVar, okIm := findVar(nc, imagNames)
		if !okRe || !okIm {
			return nil, nil, fmt.Errorf("amplitude variable not found (tried: %v), and no complex pair detected", ampNames)
		}
		reVals, err := readField(reVar, len(lat), len(lon))
		if err != nil {
			return nil, nil, fmt.Errorf("real component: %w", err)
		}
		imVals, err := readField(imVar, len(lat), len(lon))
		if err != nil {
			return nil, nil, fmt.Errorf("imag component: %w", err)
		}
		ampVals, phaVals = fromComplex(reVals, imVals)
		scaleValues(ampVals, amplitudeScale(reVar))
	}

	amp := &interp.Grid{X: lon, Y: lat, Values: ampVals}
	if err := amp.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid amplitude grid: %w", err)
	}
	pha := &interp.Grid{X: lon, Y: lat, Values: phaVals}
	if err := pha.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid phase grid: %w", err)
	}
	return amp, pha, nil
}

func findVar(nc netcdf.Dataset, names []string) (netcdf.Var, bool) {
	for _, name := range names {
		if v, err := nc.Var(name); err == nil {
			return v, true
		}
	}
	return netcdf.Var{}, false
}

func readCoord(nc netcdf.Dataset, names []string) ([]float64, error) {
	v, ok := findVar(nc, names)
	if !ok {
		return nil, fmt.Errorf("variable not found (tried: %v)", names)
	}
	dims, err := v.Dims()
	if err != nil {
		return nil, fmt.Errorf("failed to get dimensions: %w", err)
	}
	if len(dims) != 1 {
		return nil, fmt.Errorf("expected 1D variable, got %dD", len(dims))
	}
	n, err := dims[0].Len()
	if err != nil {
		return nil, err
	}
	return readFlat(v, int(n))
}

// readField reads a 2D variable as [lat][lon], transposing [lon][lat] data.
// Fill values become NaN.
func readField(v netcdf.Var, nLat, nLon int) ([][]float64, error) {
	dims, err := v.Dims()
	if err != nil {
		return nil, fmt.Errorf("failed to get dimensions: %w", err)
	}
	if len(dims) != 2 {
		return nil, fmt.Errorf("expected 2D data, got %dD", len(dims))
	}
	dim0Len, err := dims[0].Len()
	if err != nil {
		return nil, fmt.Errorf("failed to get dim0 length: %w", err)
	}
	dim1Len, err := dims[1].Len()
	if err != nil {
		return nil, fmt.Errorf("failed to get dim1 length: %w", err)
	}

	var values [][]float64
	switch {
	case dim0Len == uint64(nLat) && dim1Len == uint64(nLon):
		values, err = read2D(v, nLat, nLon)
	case dim0Len == uint64(nLon) && dim1Len == uint64(nLat):
		var transposed [][]float64
		transposed, err = read2D(v, nLon, nLat)
		values = transpose2D(transposed)
	default:
		return nil, fmt.Errorf("dimension mismatch: data is [%d, %d], expected [%d, %d] or [%d, %d]",
			dim0Len, dim1Len, nLat, nLon, nLon, nLat)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}

	if fv, ok := getFillValue(v); ok {
		for i := range values {
			for j := range values[i] {
				if values[i][j] == fv {
					values[i][j] = math.NaN()
				}
			}
		}
	}
	return values, nil
}

// amplitudeScale converts the variable's units attribute to a factor to cm.
func amplitudeScale(v netcdf.Var) float64 {
	a := v.Attr("units")
	n, err := a.Len()
	if err != nil || n == 0 {
		return 1
	}
	buf := make([]byte, n)
	if err := a.ReadBytes(buf); err != nil {
		return 1
	}
	switch strings.ToLower(strings.TrimSpace(strings.TrimRight(string(buf), "\x00"))) {
	case "m", "meter", "meters", "metre", "metres":
		return 100
	case "mm", "millimeters", "millimetres":
		return 0.1
	default:
		return 1
	}
}

func scaleValues(values [][]float64, factor float64) {
	if factor == 1 {
		return
	}
	for i := range values {
		for j := range values[i] {
			values[i][j] *= factor
		}
	}
}

// fromComplex converts a (re, im) pair into amplitude and phase in degrees.
func fromComplex(re, im [][]float64) ([][]float64, [][]float64) {
	amp := make([][]float64, len(re))
	pha := make([][]float64, len(re))
	for i := range re {
		amp[i] = make([]float64, len(re[i]))
		pha[i] = make([]float64, len(re[i]))
		for j := range re[i] {
			amp[i][j] = math.Hypot(re[i][j], im[i][j])
			deg := domain.Rad2Deg(math.Atan2(im[i][j], re[i][j]))
			if deg < 0 {
				deg += 360.0
			}
			pha[i][j] = deg
		}
	}
	return amp, pha
}

// getFillValue returns the _FillValue or missing_value attribute if present as float64.
func getFillValue(v netcdf.Var) (float64, bool) {
	for _, name := range []string{"_FillValue", "missing_value"} {
		a := v.Attr(name)
		if n, err := a.Len(); err != nil || n == 0 {
			continue
		}
		buf64 := make([]float64, 1)
		if err := a.ReadFloat64s(buf64); err == nil {
			return buf64[0], true
		}
		buf32 := make([]float32, 1)
		if err := a.ReadFloat32s(buf32); err == nil {
			return float64(buf32[0]), true
		}
		bufi := make([]int32, 1)
		if err := a.ReadInt32s(bufi); err == nil {
			return float64(bufi[0]), true
		}
	}
	return 0, false
}

// readFlat reads n numeric values of any common NetCDF type as float64.
func readFlat(v netcdf.Var, n int) ([]float64, error) {
	t, err := v.Type()
	if err != nil {
		return nil, fmt.Errorf("failed to get var type: %w", err)
	}

	out := make([]float64, n)
	switch t {
	case netcdf.DOUBLE:
		if err := v.ReadFloat64s(out); err != nil {
			return nil, err
		}
	case netcdf.FLOAT:
		tmp := make([]float32, n)
		if err := v.ReadFloat32s(tmp); err != nil {
			return nil, err
		}
		for i, val := range tmp {
			out[i] = float64(val)
		}
	case netcdf.INT:
		tmp := make([]int32, n)
		if err := v.ReadInt32s(tmp); err != nil {
			return nil, err
		}
		for i, val := range tmp {
			out[i] = float64(val)
		}
	case netcdf.SHORT:
		tmp := make([]int16, n)
		if err := v.ReadInt16s(tmp); err != nil {
			return nil, err
		}
		for i, val := range tmp {
			out[i] = float64(val)
		}
	default:
		return nil, fmt.Errorf("unsupported var type: %v", t)
	}
	return out, nil
}

func read2D(v netcdf.Var, nRows, nCols int) ([][]float64, error) {
	flat, err := readFlat(v, nRows*nCols)
	if err != nil {
		return nil, err
	}
	values := make([][]float64, nRows)
	for i := 0; i < nRows; i++ {
		values[i] = flat[i*nCols : (i+1)*nCols]
	}
	return values, nil
}

// transpose2D transposes a 2D array.
func transpose2D(data [][]float64) [][]float64 {
	if len(data) == 0 {
		return data
	}

	nRows := len(data)
	nCols := len(data[0])

	transposed := make([][]float64, nCols)
	for i := 0; i < nCols; i++ {
		transposed[i] = make([]float64, nRows)
		for j := 0; j < nRows; j++ {
			transposed[i][j] = data[j][i]
		}
	}

	return transposed
}
