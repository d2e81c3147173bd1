// Package interp interpolates harmonic constants on regular lat/lon grids.
package interp

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrNoData is returned when a cell corner holds no value (land, fill value).
var ErrNoData = errors.New("no data at grid cell")

// Cell is one rectangle of a regular grid with its four corner values.
type Cell struct {
	X0, X1 float64 // Longitude bounds.
	Y0, Y1 float64 // Latitude bounds.

	// V00 at (X0, Y0), V10 at (X1, Y0), V01 at (X0, Y1), V11 at (X1, Y1).
	V00, V10, V01, V11 float64
}

// Bilinear interpolates within cell:
//
//	f(x,y) ≈ (1-t)(1-u)f(x0,y0) + t(1-u)f(x1,y0) + (1-t)u*f(x0,y1) + tu*f(x1,y1)
//
// with t = (x - x0) / (x1 - x0) and u = (y - y0) / (y1 - y0).
func Bilinear(cell Cell, x, y float64) (float64, error) {
	if cell.X1 <= cell.X0 {
		return 0, fmt.Errorf("invalid grid cell: X1 must be > X0")
	}
	if cell.Y1 <= cell.Y0 {
		return 0, fmt.Errorf("invalid grid cell: Y1 must be > Y0")
	}

	const epsilon = 1e-9
	if x < cell.X0-epsilon || x > cell.X1+epsilon {
		return 0, fmt.Errorf("x coordinate %.6f is outside grid cell [%.6f, %.6f]", x, cell.X0, cell.X1)
	}
	if y < cell.Y0-epsilon || y > cell.Y1+epsilon {
		return 0, fmt.Errorf("y coordinate %.6f is outside grid cell [%.6f, %.6f]", y, cell.Y0, cell.Y1)
	}

	for _, v := range []float64{cell.V00, cell.V10, cell.V01, cell.V11} {
		if math.IsNaN(v) {
			return 0, ErrNoData
		}
	}

	t := math.Max(0, math.Min(1, (x-cell.X0)/(cell.X1-cell.X0)))
	u := math.Max(0, math.Min(1, (y-cell.Y0)/(cell.Y1-cell.Y0)))

	return (1-t)*(1-u)*cell.V00 +
		t*(1-u)*cell.V10 +
		(1-t)*u*cell.V01 +
		t*u*cell.V11, nil
}

// Grid is a regular 2D grid. Missing values are NaN.
type Grid struct {
	X      []float64   // Longitudes, strictly increasing.
	Y      []float64   // Latitudes, strictly increasing.
	Values [][]float64 // Values[i][j] corresponds to (X[j], Y[i]).
}

// Validate checks dimensions and coordinate ordering.
func (g *Grid) Validate() error {
	if len(g.X) < 2 {
		return fmt.Errorf("grid must have at least 2 X coordinates")
	}
	if len(g.Y) < 2 {
		return fmt.Errorf("grid must have at least 2 Y coordinates")
	}
	if len(g.Values) != len(g.Y) {
		return fmt.Errorf("number of value rows (%d) must match Y coordinates (%d)", len(g.Values), len(g.Y))
	}
	for i, row := range g.Values {
		if len(row) != len(g.X) {
			return fmt.Errorf("row %d has %d values, expected %d", i, len(row), len(g.X))
		}
	}
	for i := 1; i < len(g.X); i++ {
		if g.X[i] <= g.X[i-1] {
			return fmt.Errorf("X coordinates must be strictly increasing")
		}
	}
	for i := 1; i < len(g.Y); i++ {
		if g.Y[i] <= g.Y[i-1] {
			return fmt.Errorf("Y coordinates must be strictly increasing")
		}
	}
	return nil
}

// CellAt returns the grid cell containing (x, y).
func (g *Grid) CellAt(x, y float64) (Cell, error) {
	xIdx, ok := bracket(g.X, x)
	if !ok {
		return Cell{}, fmt.Errorf("x coordinate %.6f is outside grid range [%.6f, %.6f]", x, g.X[0], g.X[len(g.X)-1])
	}
	yIdx, ok := bracket(g.Y, y)
	if !ok {
		return Cell{}, fmt.Errorf("y coordinate %.6f is outside grid range [%.6f, %.6f]", y, g.Y[0], g.Y[len(g.Y)-1])
	}

	return Cell{
		X0:  g.X[xIdx],
		X1:  g.X[xIdx+1],
		Y0:  g.Y[yIdx],
		Y1:  g.Y[yIdx+1],
		V00: g.Values[yIdx][xIdx],
		V10: g.Values[yIdx][xIdx+1],
		V01: g.Values[yIdx+1][xIdx],
		V11: g.Values[yIdx+1][xIdx+1],
	}, nil
}

// bracket returns i such that coords[i] <= v <= coords[i+1].
func bracket(coords []float64, v float64) (int, bool) {
	n := len(coords)
	if v < coords[0] || v > coords[n-1] {
		return 0, false
	}
	i := sort.SearchFloat64s(coords, v)
	if i >= n-1 {
		return n - 2, true
	}
	if coords[i] == v || i == 0 {
		return i, true
	}
	return i - 1, true
}

// InterpolateAt evaluates the grid at (x, y).
func (g *Grid) InterpolateAt(x, y float64) (float64, error) {
	if err := g.Validate(); err != nil {
		return 0, fmt.Errorf("invalid grid: %w", err)
	}
	cell, err := g.CellAt(x, y)
	if err != nil {
		return 0, err
	}
	return Bilinear(cell, x, y)
}

// InterpolatePhasor interpolates an amplitude grid and a phase grid (degrees)
// as the complex value H·e^(iG), so phases near 0°/360° blend correctly.
// It returns the amplitude and the phase in degrees, [0, 360).
func InterpolatePhasor(amplitude, phaseDeg *Grid, x, y float64) (float64, float64, error) {
	if len(amplitude.X) != len(phaseDeg.X) || len(amplitude.Y) != len(phaseDeg.Y) {
		return 0, 0, fmt.Errorf("grids must have the same dimensions")
	}
	if err := amplitude.Validate(); err != nil {
		return 0, 0, fmt.Errorf("invalid amplitude grid: %w", err)
	}
	if err := phaseDeg.Validate(); err != nil {
		return 0, 0, fmt.Errorf("invalid phase grid: %w", err)
	}

	ac, err := amplitude.CellAt(x, y)
	if err != nil {
		return 0, 0, err
	}
	pc, err := phaseDeg.CellAt(x, y)
	if err != nil {
		return 0, 0, err
	}

	re := ac
	im := ac
	re.V00, im.V00 = toPhasor(ac.V00, pc.V00)
	re.V10, im.V10 = toPhasor(ac.V10, pc.V10)
	re.V01, im.V01 = toPhasor(ac.V01, pc.V01)
	re.V11, im.V11 = toPhasor(ac.V11, pc.V11)

	reVal, err := Bilinear(re, x, y)
	if err != nil {
		return 0, 0, err
	}
	imVal, err := Bilinear(im, x, y)
	if err != nil {
		return 0, 0, err
	}

	amp := math.Hypot(reVal, imVal)
	phase := math.Atan2(imVal, reVal) * 180 / math.Pi
	if phase < 0 {
		phase += 360
	}
	return amp, phase, nil
}

func toPhasor(amp, phaseDeg float64) (float64, float64) {
	rad := phaseDeg * math.Pi / 180
	return amp * math.Cos(rad), amp * math.Sin(rad)
}
