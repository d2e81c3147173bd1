package domain

import (
	"fmt"
	"math"
	"strings"
)

// ConstituentCode identifies one of the seven tidal constituents the model sums.
type ConstituentCode int

const (
	// M2 is the principal lunar semidiurnal constituent.
	M2 ConstituentCode = iota
	// S2 is the principal solar semidiurnal constituent.
	S2
	// N2 is the larger lunar elliptic semidiurnal constituent.
	N2
	// K2 is the lunisolar semidiurnal constituent.
	K2
	// K1 is the lunisolar diurnal constituent.
	K1
	// O1 is the lunar diurnal constituent.
	O1
	// P1 is the solar diurnal constituent.
	P1

	// NumConstituents is the size of every per-constituent table.
	NumConstituents = 7
)

// AllConstituents lists the codes in table order.
var AllConstituents = [NumConstituents]ConstituentCode{M2, S2, N2, K2, K1, O1, P1}

var constituentNames = [NumConstituents]string{"M2", "S2", "N2", "K2", "K1", "O1", "P1"}

var constituentDescriptions = [NumConstituents]string{
	"Principal lunar semidiurnal",
	"Principal solar semidiurnal",
	"Larger lunar elliptic semidiurnal",
	"Lunisolar semidiurnal",
	"Lunisolar diurnal",
	"Lunar diurnal",
	"Solar diurnal",
}

// standardSpeedsDeg holds angular speeds in degrees per hour.
// Reference: https://www.pmel.noaa.gov/pubs/PDF/park2589/park2589.pdf
var standardSpeedsDeg = [NumConstituents]float64{
	28.9841042, // M2
	30.0000000, // S2
	28.4397295, // N2
	30.0821373, // K2
	15.0410686, // K1
	13.9430356, // O1
	14.9589314, // P1
}

// String returns the conventional constituent symbol, e.g. "M2".
func (c ConstituentCode) String() string {
	if !c.Valid() {
		return fmt.Sprintf("ConstituentCode(%d)", int(c))
	}
	return constituentNames[c]
}

// Valid reports whether c is one of the seven known codes.
func (c ConstituentCode) Valid() bool {
	return c >= 0 && int(c) < NumConstituents
}

// Description returns the long constituent name.
func (c ConstituentCode) Description() string {
	if !c.Valid() {
		return ""
	}
	return constituentDescriptions[c]
}

// StandardSpeed returns the angular speed of c in radians per hour.
func (c ConstituentCode) StandardSpeed() float64 {
	return Deg2Rad(standardSpeedsDeg[c])
}

// ParseConstituentCode maps a symbol such as "k1" to its code.
func ParseConstituentCode(name string) (ConstituentCode, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for i, n := range constituentNames {
		if n == upper {
			return ConstituentCode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown constituent: %q", name)
}

// Constituent is the location-calibrated record of one harmonic component.
type Constituent struct {
	Code          ConstituentCode
	AmplitudeCm   float64 // Mean amplitude H in centimeters.
	PhaseLagRad   float64 // Phase lag G in radians.
	SpeedRadPerHr float64 // Angular speed S in radians per hour.
}

// CalibrationTable holds one Constituent per code, indexed by ConstituentCode.
type CalibrationTable [NumConstituents]Constituent

// Validate checks that every slot carries its own code and sane values.
func (t CalibrationTable) Validate() error {
	for i, c := range t {
		if c.Code != ConstituentCode(i) {
			return fmt.Errorf("slot %d holds constituent %s", i, c.Code)
		}
		if c.AmplitudeCm < 0 || math.IsNaN(c.AmplitudeCm) || math.IsInf(c.AmplitudeCm, 0) {
			return fmt.Errorf("invalid amplitude for %s: %v", c.Code, c.AmplitudeCm)
		}
		if math.IsNaN(c.PhaseLagRad) || math.IsInf(c.PhaseLagRad, 0) {
			return fmt.Errorf("invalid phase lag for %s: %v", c.Code, c.PhaseLagRad)
		}
		if math.IsNaN(c.SpeedRadPerHr) || c.SpeedRadPerHr <= 0 || math.IsInf(c.SpeedRadPerHr, 0) {
			return fmt.Errorf("invalid speed for %s: %v", c.Code, c.SpeedRadPerHr)
		}
	}
	return nil
}

// ReferenceCalibration returns the project's reference station table.
func ReferenceCalibration() CalibrationTable {
	return CalibrationTable{
		{Code: M2, AmplitudeCm: 48.9, PhaseLagRad: 2.7038, SpeedRadPerHr: M2.StandardSpeed()},
		{Code: S2, AmplitudeCm: 23.4, PhaseLagRad: 3.0255, SpeedRadPerHr: S2.StandardSpeed()},
		{Code: N2, AmplitudeCm: 9.7, PhaseLagRad: 2.5726, SpeedRadPerHr: N2.StandardSpeed()},
		{Code: K2, AmplitudeCm: 6.5, PhaseLagRad: 2.9898, SpeedRadPerHr: K2.StandardSpeed()},
		{Code: K1, AmplitudeCm: 24.4, PhaseLagRad: 3.1555, SpeedRadPerHr: K1.StandardSpeed()},
		{Code: O1, AmplitudeCm: 19.3, PhaseLagRad: 2.7558, SpeedRadPerHr: O1.StandardSpeed()},
		{Code: P1, AmplitudeCm: 7.8, PhaseLagRad: 3.1276, SpeedRadPerHr: P1.StandardSpeed()},
	}
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Rad2Deg converts radians to degrees.
func Rad2Deg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// normalizeRad maps an angle into [0, 2π).
func normalizeRad(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	if a >= 2*math.Pi {
		a = 0
	}
	return a
}
