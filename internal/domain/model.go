package domain

// ConstituentModel combines one year's nodal corrections with a calibration
// table. It is immutable after construction and safe for concurrent use.
type ConstituentModel struct {
	year        int
	table       CalibrationTable
	args        AstronomicalArguments
	corrections [NumConstituents]YearlyCorrection

	compAmplitude [NumConstituents]float64 // f·H
	compPhase     [NumConstituents]float64 // V0U − G
	speed         [NumConstituents]float64
}

// NewConstituentModel derives the year-specific corrections for year and
// pre-combines them with table.
func NewConstituentModel(year int, table CalibrationTable) *ConstituentModel {
	args := CalculateAstronomicalArguments(year)
	m := &ConstituentModel{
		year:        year,
		table:       table,
		args:        args,
		corrections: YearlyCorrections(args),
	}

	for i, c := range table {
		corr := m.corrections[i]
		m.compAmplitude[i] = corr.NodalFactor * c.AmplitudeCm
		m.compPhase[i] = corr.EquilibriumArg - c.PhaseLagRad
		m.speed[i] = c.SpeedRadPerHr
	}

	return m
}

// Year returns the calendar year the model was built for.
func (m *ConstituentModel) Year() int { return m.year }

// Table returns the calibration table the model was built from.
func (m *ConstituentModel) Table() CalibrationTable { return m.table }

// Arguments returns the astronomical arguments of the model's year.
func (m *ConstituentModel) Arguments() AstronomicalArguments { return m.args }

// Correction returns f and V0+u for code.
func (m *ConstituentModel) Correction(code ConstituentCode) YearlyCorrection {
	return m.corrections[code]
}

// CompAmplitude returns the effective amplitudes f·H in centimeters.
func (m *ConstituentModel) CompAmplitude() [NumConstituents]float64 { return m.compAmplitude }

// CompPhase returns the effective phases V0U − G in radians.
func (m *ConstituentModel) CompPhase() [NumConstituents]float64 { return m.compPhase }
