package grid

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/fhs/go-netcdf/netcdf"

	"go.ngs.io/tide-clock/internal/domain"
)

// Region is a regular lat/lon grid layout.
type Region struct {
	LatMin, LatMax float64
	LonMin, LonMax float64
	Resolution     float64 // Degrees.
}

// Axes returns the latitude and longitude coordinates of the region.
func (r Region) Axes() ([]float64, []float64, error) {
	if r.Resolution <= 0 {
		return nil, nil, fmt.Errorf("resolution must be positive, got %v", r.Resolution)
	}
	if r.LatMax <= r.LatMin || r.LonMax <= r.LonMin {
		return nil, nil, fmt.Errorf("empty region: lat [%v, %v], lon [%v, %v]", r.LatMin, r.LatMax, r.LonMin, r.LonMax)
	}

	axis := func(lo, hi float64) []float64 {
		n := int(math.Floor((hi-lo)/r.Resolution+1e-9)) + 1
		out := make([]float64, n)
		for i := range out {
			out[i] = lo + float64(i)*r.Resolution
		}
		return out
	}
	return axis(r.LatMin, r.LatMax), axis(r.LonMin, r.LonMax), nil
}

// FieldFunc returns the amplitude (cm) and phase lag (degrees) of a
// constituent at a grid node.
type FieldFunc func(code domain.ConstituentCode, lat, lon float64) (amplitudeCm, phaseDeg float64)

// WriteRegion writes one <code>.nc file per constituent into dir.
func WriteRegion(dir string, region Region, field FieldFunc) error {
	lat, lon, err := region.Axes()
	if err != nil {
		return err
	}

	for _, code := range domain.AllConstituents {
		amp := make([]float64, len(lat)*len(lon))
		pha := make([]float64, len(lat)*len(lon))
		for i, y := range lat {
			for j, x := range lon {
				amp[i*len(lon)+j], pha[i*len(lon)+j] = field(code, y, x)
			}
		}

		path := filepath.Join(dir, strings.ToLower(code.String())+".nc")
		if err := WriteFile(path, code, lat, lon, amp, pha); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}

// WriteFile writes one constituent grid. amplitudeCm and phaseDeg are
// row-major [lat][lon]; NaN marks nodes without data.
func WriteFile(path string, code domain.ConstituentCode, lat, lon, amplitudeCm, phaseDeg []float64) (err error) {
	if len(amplitudeCm) != len(lat)*len(lon) || len(phaseDeg) != len(amplitudeCm) {
		return fmt.Errorf("data size mismatch: %d amplitude / %d phase values for %dx%d grid",
			len(amplitudeCm), len(phaseDeg), len(lat), len(lon))
	}

	ds, err := netcdf.CreateFile(path, netcdf.CLOBBER)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	// Close flushes the data; a failure there means a truncated file.
	defer func() {
		if cerr := ds.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	latDim, err := ds.AddDim("lat", uint64(len(lat)))
	if err != nil {
		return err
	}
	lonDim, err := ds.AddDim("lon", uint64(len(lon)))
	if err != nil {
		return err
	}

	latVar, err := ds.AddVar("lat", netcdf.DOUBLE, []netcdf.Dim{latDim})
	if err != nil {
		return err
	}
	lonVar, err := ds.AddVar("lon", netcdf.DOUBLE, []netcdf.Dim{lonDim})
	if err != nil {
		return err
	}
	ampVar, err := ds.AddVar(amplitudeVarName, netcdf.DOUBLE, []netcdf.Dim{latDim, lonDim})
	if err != nil {
		return err
	}
	phaVar, err := ds.AddVar(phaseVarName, netcdf.DOUBLE, []netcdf.Dim{latDim, lonDim})
	if err != nil {
		return err
	}

	units := []struct {
		v     netcdf.Var
		units string
	}{
		{latVar, "degrees_north"},
		{lonVar, "degrees_east"},
		{ampVar, "cm"},
		{phaVar, "degrees"},
	}
	for _, u := range units {
		if err := u.v.Attr("units").WriteBytes([]byte(u.units)); err != nil {
			return fmt.Errorf("failed to write units: %w", err)
		}
	}
	if err := ds.Attr("constituent").WriteBytes([]byte(code.String())); err != nil {
		return fmt.Errorf("failed to write constituent attribute: %w", err)
	}

	if err := ds.EndDef(); err != nil {
		return err
	}

	if err := latVar.WriteFloat64s(lat); err != nil {
		return fmt.Errorf("write lat: %w", err)
	}
	if err := lonVar.WriteFloat64s(lon); err != nil {
		return fmt.Errorf("write lon: %w", err)
	}
	if err := ampVar.WriteFloat64s(amplitudeCm); err != nil {
		return fmt.Errorf("write amplitude: %w", err)
	}
	if err := phaVar.WriteFloat64s(phaseDeg); err != nil {
		return fmt.Errorf("write phase: %w", err)
	}
	return nil
}
