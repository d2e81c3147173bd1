package domain

import (
	"math"
	"time"
)

// Orbital constants (Schureman, 1958).
const (
	// lunarInclinationDeg is the inclination of the Moon's orbit to the ecliptic.
	lunarInclinationDeg = 5.145
	// semidiurnalLunarMean is the mean of cos(I/2)^4 over a nodal cycle.
	semidiurnalLunarMean = 0.9154
	daysPerJulianCentury = 36525.0
	secondsPerDay        = 86400.0
)

// schuremanEpoch is JD 2415020.0, the reference for the mean longitudes.
var schuremanEpoch = time.Date(1899, time.December, 31, 12, 0, 0, 0, time.UTC)

// AstronomicalArguments holds the slowly varying celestial quantities for a year.
// Angles are in radians.
type AstronomicalArguments struct {
	Year          int
	T             float64 // Julian centuries from 1900 to Jan 1 of Year.
	SunLongitude  float64 // h
	MoonLongitude float64 // s
	Perigee       float64 // p
	Node          float64 // N, at the year's midpoint.
	Obliquity     float64 // ω
	Eccentricity  float64 // e (dimensionless).
	Inclination   float64 // I, lunar orbit to the equator.
}

// YearlyCorrection is the nodal factor f and equilibrium argument V0+u of one
// constituent for one calendar year.
type YearlyCorrection struct {
	NodalFactor    float64 // f, dimensionless.
	EquilibriumArg float64 // V0+u in radians, [0, 2π).
}

// julianCenturies returns the Julian centuries from the 1900 epoch to Jan 1
// 00:00 UTC of year.
func julianCenturies(year int) float64 {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	days := float64(start.Unix()-schuremanEpoch.Unix()) / secondsPerDay
	return days / daysPerJulianCentury
}

// polyDeg evaluates c0 + c1 t + c2 t² + c3 t³ and returns it in radians, mod 2π.
func polyDeg(t, c0, c1, c2, c3 float64) float64 {
	return normalizeRad(Deg2Rad(c0 + c1*t + c2*t*t + c3*t*t*t))
}

// CalculateAstronomicalArguments computes the mean longitudes and orbital
// geometry used for the nodal corrections of year.
//
// The polynomials are fitted for roughly 1850-2150; outside that range they
// extrapolate and lose physical accuracy.
func CalculateAstronomicalArguments(year int) AstronomicalArguments {
	t := julianCenturies(year)

	h := polyDeg(t, 279.69668, 36000.76892, 0.0003025, 0)
	s := polyDeg(t, 270.434358, 481267.88314137, -0.001133, 0.0000019)
	p := polyDeg(t, 334.329653, 4069.0340329, -0.010325, -0.0000125)

	// The node moves ~19° a year, so it is taken at mid-year.
	tm := (float64(year) + 0.5 - 1900.0) / 100.0
	n := polyDeg(tm, 259.182533, -1934.142397, 0.002106, 0.000002)

	ty := (float64(year) - 1900.0) / 100.0
	obliquity := Deg2Rad(23.452294 - 0.0130125*ty - 0.00000164*ty*ty + 0.000000503*ty*ty*ty)
	eccentricity := 0.01675104 - 0.0000418*ty - 0.000000126*ty*ty

	incl := Deg2Rad(lunarInclinationDeg)
	cosI := math.Cos(incl)*math.Cos(obliquity) - math.Sin(incl)*math.Sin(obliquity)*math.Cos(n)

	return AstronomicalArguments{
		Year:          year,
		T:             t,
		SunLongitude:  h,
		MoonLongitude: s,
		Perigee:       p,
		Node:          n,
		Obliquity:     obliquity,
		Eccentricity:  eccentricity,
		Inclination:   math.Acos(cosI),
	}
}

// NodalFactor returns f for code. Each constituent has its own closed form.
func NodalFactor(code ConstituentCode, args AstronomicalArguments) float64 {
	cosN := math.Cos(args.Node)
	cos2N := math.Cos(2 * args.Node)

	switch code {
	case M2, N2:
		return math.Pow(math.Cos(args.Inclination/2), 4) / semidiurnalLunarMean
	case S2, P1:
		// Solar constituents are unaffected by the lunar node.
		return 1.0
	case K2:
		return math.Sqrt(1.0898 + 0.5888*cosN + 0.0580*cos2N)
	case K1:
		return math.Sqrt(1.0187 + 0.2304*cosN - 0.0111*cos2N)
	case O1:
		return 1.0089 + 0.1871*cosN - 0.0147*cos2N
	default:
		return 1.0
	}
}

// EquilibriumArgument returns V0+u for code at 00:00 UTC on Jan 1, in [0, 2π).
func EquilibriumArgument(code ConstituentCode, args AstronomicalArguments) float64 {
	h, s, p := args.SunLongitude, args.MoonLongitude, args.Perigee

	switch code {
	case M2:
		return normalizeRad(2*h - 2*s)
	case S2:
		// Reference constituent.
		return 0
	case N2:
		return normalizeRad(2*h - 3*s + p)
	case K2:
		return normalizeRad(2 * h)
	case K1:
		return normalizeRad(h + math.Pi/2)
	case O1:
		return normalizeRad(h - 2*s - math.Pi/2)
	case P1:
		return normalizeRad(-h - math.Pi/2)
	default:
		return 0
	}
}

// YearlyCorrections computes f and V0+u for every constituent.
func YearlyCorrections(args AstronomicalArguments) [NumConstituents]YearlyCorrection {
	var out [NumConstituents]YearlyCorrection
	for _, code := range AllConstituents {
		out[code] = YearlyCorrection{
			NodalFactor:    NodalFactor(code, args),
			EquilibriumArg: EquilibriumArgument(code, args),
		}
	}
	return out
}
