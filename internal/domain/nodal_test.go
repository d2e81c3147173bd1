package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJulianCenturies(t *testing.T) {
	// Jan 1 1900 00:00 is half a day after the epoch.
	assert.InDelta(t, 0.5/daysPerJulianCentury, julianCenturies(1900), 1e-15)
	// 2000-01-01 00:00 is JD 2451544.5.
	assert.InDelta(t, (2451544.5-2415020.0)/daysPerJulianCentury, julianCenturies(2000), 1e-12)
	assert.Less(t, julianCenturies(1850), 0.0)
}

func TestAstronomicalArgumentsAreNormalized(t *testing.T) {
	for year := 1850; year <= 2150; year += 7 {
		args := CalculateAstronomicalArguments(year)
		for name, angle := range map[string]float64{
			"h": args.SunLongitude,
			"s": args.MoonLongitude,
			"p": args.Perigee,
			"N": args.Node,
		} {
			assert.GreaterOrEqual(t, angle, 0.0, "%s in %d", name, year)
			assert.Less(t, angle, 2*math.Pi, "%s in %d", name, year)
		}
		// I swings between ω−i and ω+i over the nodal cycle.
		incl := Deg2Rad(lunarInclinationDeg)
		assert.GreaterOrEqual(t, args.Inclination, args.Obliquity-incl-1e-12, "I in %d", year)
		assert.LessOrEqual(t, args.Inclination, args.Obliquity+incl+1e-12, "I in %d", year)
	}
}

func TestAstronomicalArguments2000(t *testing.T) {
	args := CalculateAstronomicalArguments(2000)

	assert.InDelta(t, 23.44, Rad2Deg(args.Obliquity), 0.01)
	assert.InDelta(t, 0.01671, args.Eccentricity, 1e-5)
	// Mean solar longitude at 2000-01-01 00:00 is about 279.97°.
	assert.InDelta(t, 279.97, Rad2Deg(args.SunLongitude), 0.05)
	// Ascending node at mid-2000 is about 115°.
	assert.InDelta(t, 115.4, Rad2Deg(args.Node), 0.5)
}

func TestSolarNodalFactorsAreUnity(t *testing.T) {
	for year := 1700; year <= 2300; year++ {
		args := CalculateAstronomicalArguments(year)
		require.Equal(t, 1.0, NodalFactor(S2, args), "S2 in %d", year)
		require.Equal(t, 1.0, NodalFactor(P1, args), "P1 in %d", year)
	}
}

func TestSemidiurnalLunarFactorsMatch(t *testing.T) {
	for year := 1850; year <= 2150; year++ {
		args := CalculateAstronomicalArguments(year)
		require.Equal(t, NodalFactor(M2, args), NodalFactor(N2, args), "year %d", year)
	}
}

func TestNodalFactorRanges(t *testing.T) {
	// Published ranges over an 18.6-year cycle, with a little slack.
	ranges := map[ConstituentCode][2]float64{
		M2: {0.95, 1.05},
		N2: {0.95, 1.05},
		K2: {0.72, 1.33},
		K1: {0.87, 1.13},
		O1: {0.79, 1.20},
	}

	for year := 1850; year <= 2150; year++ {
		args := CalculateAstronomicalArguments(year)
		for code, bounds := range ranges {
			f := NodalFactor(code, args)
			assert.Greater(t, f, 0.0)
			assert.GreaterOrEqual(t, f, bounds[0], "%s in %d", code, year)
			assert.LessOrEqual(t, f, bounds[1], "%s in %d", code, year)
		}
	}
}

func TestNodalFactorsFollowTheNode(t *testing.T) {
	// Node near 0° in 2024: lunar diurnals peak and M2 bottoms out.
	args := CalculateAstronomicalArguments(2024)
	require.Greater(t, math.Cos(args.Node), 0.95)
	assert.Greater(t, NodalFactor(K1, args), 1.08)
	assert.Greater(t, NodalFactor(O1, args), 1.15)
	assert.Less(t, NodalFactor(M2, args), 0.97)
}

func TestEquilibriumArguments(t *testing.T) {
	for year := 1850; year <= 2150; year += 3 {
		args := CalculateAstronomicalArguments(year)
		assert.Equal(t, 0.0, EquilibriumArgument(S2, args), "S2 is the reference in %d", year)

		for _, code := range AllConstituents {
			v := EquilibriumArgument(code, args)
			assert.GreaterOrEqual(t, v, 0.0, "%s in %d", code, year)
			assert.Less(t, v, 2*math.Pi, "%s in %d", code, year)
		}

		h, s := args.SunLongitude, args.MoonLongitude
		assert.InDelta(t, math.Cos(2*h-2*s), math.Cos(EquilibriumArgument(M2, args)), 1e-12)
		assert.InDelta(t, math.Cos(2*h), math.Cos(EquilibriumArgument(K2, args)), 1e-12)
		// K1 and P1 are symmetric about the solar longitude.
		assert.InDelta(t, math.Cos(h+math.Pi/2), math.Cos(EquilibriumArgument(K1, args)), 1e-12)
		assert.InDelta(t, math.Cos(-h-math.Pi/2), math.Cos(EquilibriumArgument(P1, args)), 1e-12)
	}
}

func TestYearlyCorrectionsDeterministic(t *testing.T) {
	a := YearlyCorrections(CalculateAstronomicalArguments(2031))
	b := YearlyCorrections(CalculateAstronomicalArguments(2031))
	assert.Equal(t, a, b)
}

func TestExtrapolationStaysFinite(t *testing.T) {
	for _, year := range []int{1, 1000, 1849, 2151, 3000, 9999} {
		corr := YearlyCorrections(CalculateAstronomicalArguments(year))
		for code, c := range corr {
			assert.False(t, math.IsNaN(c.NodalFactor) || math.IsInf(c.NodalFactor, 0), "f %s in %d", ConstituentCode(code), year)
			assert.False(t, math.IsNaN(c.EquilibriumArg), "V0U %s in %d", ConstituentCode(code), year)
		}
	}
}
