package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// singleConstituentTable keeps only code, with its phase lag chosen so the
// effective phase in year is zero.
func singleConstituentTable(code ConstituentCode, year int) CalibrationTable {
	table := ReferenceCalibration()
	corr := YearlyCorrections(CalculateAstronomicalArguments(year))
	for i := range table {
		table[i].AmplitudeCm = 0
	}
	table[code].AmplitudeCm = 100
	table[code].PhaseLagRad = corr[code].EquilibriumArg
	return table
}

func TestHeightAt_SingleConstituent(t *testing.T) {
	model := NewConstituentModel(2025, singleConstituentTable(M2, 2025))
	f := model.Correction(M2).NodalFactor

	period := 2 * math.Pi / M2.StandardSpeed()
	tests := []struct {
		name  string
		hours float64
		want  float64
	}{
		{name: "start of year", hours: 0, want: 100 * f},
		{name: "quarter period", hours: period / 4, want: 0},
		{name: "half period", hours: period / 2, want: -100 * f},
		{name: "full period", hours: period, want: 100 * f},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, heightAt(model, tt.hours), 1e-9)
		})
	}
}

func TestHeightAt_StartOfYearIsPhasorSum(t *testing.T) {
	model := NewConstituentModel(2024, ReferenceCalibration())
	amp, phase := model.CompAmplitude(), model.CompPhase()

	var want float64
	for i := range amp {
		want += amp[i] * math.Cos(phase[i])
	}
	assert.InDelta(t, want, heightAt(model, 0), 1e-12)
}

func TestHeightAt_MatchesDirectEvaluation(t *testing.T) {
	for _, year := range []int{1850, 1999, 2024, 2150} {
		table := ReferenceCalibration()
		model := NewConstituentModel(year, table)
		args := CalculateAstronomicalArguments(year)

		for _, hours := range []float64{0, 1.25, 100, 4380.5, 8759} {
			var want float64
			for _, c := range table {
				f := NodalFactor(c.Code, args)
				v := EquilibriumArgument(c.Code, args)
				want += f * c.AmplitudeCm * math.Cos(c.SpeedRadPerHr*hours+v-c.PhaseLagRad)
			}
			assert.InDelta(t, want, heightAt(model, hours), 1e-9, "year %d hour %v", year, hours)
		}
	}
}

func TestHeightAt_BoundedByAmplitudeSum(t *testing.T) {
	model := NewConstituentModel(2024, ReferenceCalibration())
	var bound float64
	for _, a := range model.CompAmplitude() {
		bound += a
	}
	for h := 0.0; h < 8784; h += 0.7 {
		require.LessOrEqual(t, math.Abs(heightAt(model, h)), bound+1e-9)
	}
}

func TestNewConstituentModel_Deterministic(t *testing.T) {
	a := NewConstituentModel(2030, ReferenceCalibration())
	b := NewConstituentModel(2030, ReferenceCalibration())
	assert.Equal(t, a.CompAmplitude(), b.CompAmplitude())
	assert.Equal(t, a.CompPhase(), b.CompPhase())
	assert.Equal(t, a.Arguments(), b.Arguments())
}

func TestNewConstituentModel_Combines(t *testing.T) {
	table := ReferenceCalibration()
	model := NewConstituentModel(2024, table)
	amp, phase := model.CompAmplitude(), model.CompPhase()

	assert.Equal(t, 2024, model.Year())
	assert.Equal(t, table, model.Table())
	for _, code := range AllConstituents {
		corr := model.Correction(code)
		assert.Equal(t, corr.NodalFactor*table[code].AmplitudeCm, amp[code], "%s", code)
		assert.Equal(t, corr.EquilibriumArg-table[code].PhaseLagRad, phase[code], "%s", code)
	}
	// Solar constituents keep their calibrated amplitude.
	assert.Equal(t, table[S2].AmplitudeCm, amp[S2])
	assert.Equal(t, table[P1].AmplitudeCm, amp[P1])
}

func TestNewTidePredictor_DaySeries(t *testing.T) {
	date := time.Date(2024, time.June, 1, 9, 15, 0, 0, time.UTC)
	p := NewTidePredictor(date, NewConstituentModel(2024, ReferenceCalibration()))

	samples := p.Samples()
	require.Len(t, samples, SamplesPerDay)
	for i, s := range samples {
		require.Equal(t, float64(i)/60.0, s.Hour)
	}
	assert.Equal(t, 0.0, samples[0].Hour)
	assert.Equal(t, 24.0, samples[SamplesPerDay-1].Hour)

	// Sample i is the height at midnight plus i minutes.
	base := HoursIntoYear(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	for _, i := range []int{0, 1, 555, 1440} {
		assert.Equal(t, p.HeightAt(base+float64(i)/60.0), samples[i].HeightCm)
	}

	current := p.CurrentHeight()
	assert.Equal(t, 9.25, current.Hour)
	assert.Equal(t, p.HeightAt(base+9.25), current.HeightCm)
	assert.Equal(t, date, p.Date())
}

func TestNewTidePredictor_ExtremaAreInteriorAndAlternate(t *testing.T) {
	model := NewConstituentModel(2024, ReferenceCalibration())
	for day := 1; day <= 28; day++ {
		date := time.Date(2024, time.February, day, 12, 0, 0, 0, time.UTC)
		p := NewTidePredictor(date, model)
		extrema := p.Extrema()

		require.NotEmpty(t, extrema, "day %d", day)
		require.LessOrEqual(t, len(extrema), 6, "day %d", day)

		for i, e := range extrema {
			assert.Greater(t, e.Hour, 0.0)
			assert.Less(t, e.Hour, 24.0)
			if i > 0 {
				assert.Greater(t, e.Hour, extrema[i-1].Hour)
				assert.NotEqual(t, extrema[i-1].Kind, e.Kind, "day %d event %d", day, i)
			}
		}
	}
}

func TestNewTidePredictor_DSTOffsetShiftsCurve(t *testing.T) {
	model := NewConstituentModel(2024, ReferenceCalibration())
	date := time.Date(2024, time.July, 4, 0, 0, 0, 0, time.UTC)

	plain := NewTidePredictor(date, model)
	shifted := NewTidePredictor(date, model, WithDSTOffset(1))
	assert.Equal(t, 1.0, shifted.DSTOffset())

	// With a one-hour offset the curve is the plain curve one hour later.
	for i := 60; i < SamplesPerDay; i += 97 {
		assert.InDelta(t, plain.Samples()[i-60].HeightCm, shifted.Samples()[i].HeightCm, 1e-9)
	}
}

func TestNewTidePredictor_UsesDateLocation(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	model := NewConstituentModel(2024, ReferenceCalibration())

	local := NewTidePredictor(time.Date(2024, time.May, 10, 0, 0, 0, 0, loc), model)
	utc := NewTidePredictor(time.Date(2024, time.May, 9, 15, 0, 0, 0, time.UTC), model)

	// Local midnight is 15:00 UTC the previous day.
	assert.InDelta(t, utc.CurrentHeight().HeightCm, local.Samples()[0].HeightCm, 1e-9)
}

func TestHoursIntoYear(t *testing.T) {
	assert.Equal(t, 0.0, HoursIntoYear(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1776.0, HoursIntoYear(time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 8783.5, HoursIntoYear(time.Date(2024, time.December, 31, 23, 30, 0, 0, time.UTC)))
}

func series(heights ...float64) []TideSample {
	out := make([]TideSample, len(heights))
	for i, h := range heights {
		out[i] = TideSample{Hour: float64(i) / 60.0, HeightCm: h}
	}
	return out
}

// TestFindExtrema tests extrema detection.
func TestFindExtrema(t *testing.T) {
	tests := []struct {
		name    string
		heights []float64
		want    []ExtremumKind
		idx     []int
	}{
		{name: "single high", heights: []float64{0, 1, 2, 1, 0}, want: []ExtremumKind{High}, idx: []int{2}},
		{name: "single low", heights: []float64{2, 1, 0, 1, 2}, want: []ExtremumKind{Low}, idx: []int{2}},
		{name: "high then low", heights: []float64{0, 2, 1, -1, 0}, want: []ExtremumKind{High, Low}, idx: []int{1, 3}},
		{name: "monotonic", heights: []float64{0, 1, 2, 3, 4}},
		{name: "edges ignored", heights: []float64{5, 1, 1, 1, 5}},
		{name: "three-sample plateau", heights: []float64{0, 1, 3, 3, 3, 1, 0}},
		{name: "too short", heights: []float64{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindExtrema(series(tt.heights...))
			require.Len(t, got, len(tt.want))
			for i, e := range got {
				assert.Equal(t, tt.want[i], e.Kind)
				assert.Equal(t, float64(tt.idx[i])/60.0, e.Hour)
				assert.Equal(t, tt.heights[tt.idx[i]], e.HeightCm)
			}
		})
	}
}

func TestFindTurningPoints(t *testing.T) {
	tests := []struct {
		name    string
		heights []float64
		want    []ExtremumKind
		idx     []int
	}{
		{name: "strict peak", heights: []float64{0, 1, 2, 1, 0}, want: []ExtremumKind{High}, idx: []int{2}},
		{name: "two-sample plateau reported once", heights: []float64{0, 1, 3, 3, 1, 0}, want: []ExtremumKind{High}, idx: []int{2}},
		{name: "three-sample plateau at centre", heights: []float64{0, 1, 3, 3, 3, 1, 0}, want: []ExtremumKind{High}, idx: []int{3}},
		{name: "flat trough", heights: []float64{4, 2, -1, -1, -1, -1, -1, 2}, want: []ExtremumKind{Low}, idx: []int{4}},
		{name: "shelf is not a turning point", heights: []float64{0, 1, 1, 1, 2, 3}},
		{name: "leading plateau ignored", heights: []float64{1, 1, 1, 2, 3}},
		{name: "all equal", heights: []float64{1, 1, 1, 1}},
		{name: "high low high", heights: []float64{0, 1, 0, -1, 0, 1, 1, 0}, want: []ExtremumKind{High, Low, High}, idx: []int{1, 3, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindTurningPoints(series(tt.heights...))
			require.Len(t, got, len(tt.want))
			for i, e := range got {
				assert.Equal(t, tt.want[i], e.Kind)
				assert.Equal(t, float64(tt.idx[i])/60.0, e.Hour)
			}
		})
	}
}

func TestFindTurningPoints_AgreesWithStrictOnRealCurves(t *testing.T) {
	model := NewConstituentModel(2024, ReferenceCalibration())
	for _, day := range []int{1, 8, 15, 22} {
		date := time.Date(2024, time.October, day, 0, 0, 0, 0, time.UTC)
		strict := NewTidePredictor(date, model)
		dedup := NewTidePredictor(date, model, WithPlateauDedup())
		assert.Equal(t, strict.Extrema(), dedup.Extrema(), "day %d", day)
	}
}

func TestRefineExtremum(t *testing.T) {
	// y = 10 - (x - 1.004)^2 sampled one minute apart around x = 1.
	step := 1.0 / 60.0
	f := func(x float64) float64 { return 10 - (x-1.004)*(x-1.004) }
	before := TideSample{Hour: 1 - step, HeightCm: f(1 - step)}
	peak := TideSample{Hour: 1, HeightCm: f(1)}
	after := TideSample{Hour: 1 + step, HeightCm: f(1 + step)}

	hour, height := RefineExtremum(before, peak, after)
	assert.InDelta(t, 1.004, hour, 1e-9)
	assert.InDelta(t, 10.0, height, 1e-9)

	t.Run("flat falls back", func(t *testing.T) {
		s := TideSample{Hour: 2, HeightCm: 5}
		h, y := RefineExtremum(TideSample{Hour: 1, HeightCm: 5}, s, TideSample{Hour: 3, HeightCm: 5})
		assert.Equal(t, 2.0, h)
		assert.Equal(t, 5.0, y)
	})

	t.Run("uneven spacing falls back", func(t *testing.T) {
		h, y := RefineExtremum(TideSample{Hour: 1, HeightCm: 0}, TideSample{Hour: 2, HeightCm: 1}, TideSample{Hour: 4, HeightCm: 0})
		assert.Equal(t, 2.0, h)
		assert.Equal(t, 1.0, y)
	})
}

func TestRefinedExtrema(t *testing.T) {
	date := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	p := NewTidePredictor(date, NewConstituentModel(2024, ReferenceCalibration()))

	raw := p.Extrema()
	refined := p.RefinedExtrema()
	require.Len(t, refined, len(raw))
	for i := range raw {
		assert.Equal(t, raw[i].Kind, refined[i].Kind)
		assert.InDelta(t, raw[i].Hour, refined[i].Hour, 1.0/60.0)
		if raw[i].Kind == High {
			assert.GreaterOrEqual(t, refined[i].HeightCm, raw[i].HeightCm)
		} else {
			assert.LessOrEqual(t, refined[i].HeightCm, raw[i].HeightCm)
		}
	}
}

func TestExtremumLabel(t *testing.T) {
	e := newExtremumEvent(6.7, 112.34, High)
	assert.Equal(t, "06:42 112.3 cm", e.Label)

	text, err := Low.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "low", string(text))
}
