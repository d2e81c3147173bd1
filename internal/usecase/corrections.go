package usecase

import (
	"fmt"

	"go.ngs.io/tide-clock/internal/domain"
)

// CorrectionsRequest asks for one year's nodal corrections.
type CorrectionsRequest struct {
	Year      int
	StationID string // Optional; defaults to the use case's default station.
}

// Validate checks the year against years.
func (r *CorrectionsRequest) Validate(years YearRange) error {
	if r.StationID == "" {
		return newValidationError("station_id", "station_id is required", nil)
	}
	if !years.Contains(r.Year) {
		return newValidationError("year",
			fmt.Sprintf("year %d is outside the supported range %d-%d", r.Year, years.Min, years.Max),
			ErrYearOutOfRange)
	}
	return nil
}

// ArgumentsResponse holds the astronomical arguments in degrees.
type ArgumentsResponse struct {
	JulianCenturies  float64 `json:"julian_centuries"`
	SunLongitudeDeg  float64 `json:"sun_longitude_deg"`
	MoonLongitudeDeg float64 `json:"moon_longitude_deg"`
	PerigeeDeg       float64 `json:"perigee_deg"`
	NodeDeg          float64 `json:"node_deg"`
	ObliquityDeg     float64 `json:"obliquity_deg"`
	Eccentricity     float64 `json:"eccentricity"`
	InclinationDeg   float64 `json:"inclination_deg"`
}

// ConstituentCorrection is one row of the corrections table.
type ConstituentCorrection struct {
	Code              string  `json:"code"`
	Description       string  `json:"description"`
	SpeedDegPerHr     float64 `json:"speed_deg_per_hr"`
	AmplitudeCm       float64 `json:"amplitude_cm"`
	PhaseLagDeg       float64 `json:"phase_lag_deg"`
	NodalFactor       float64 `json:"nodal_factor"`
	EquilibriumArgDeg float64 `json:"equilibrium_arg_deg"`
	CompAmplitudeCm   float64 `json:"comp_amplitude_cm"`
	CompPhaseDeg      float64 `json:"comp_phase_deg"`
}

// CorrectionsResponse lists f, V0+u and the effective constants of a year.
type CorrectionsResponse struct {
	Year         int                     `json:"year"`
	Station      string                  `json:"station"`
	Arguments    ArgumentsResponse       `json:"arguments"`
	Constituents []ConstituentCorrection `json:"constituents"`
}

// Corrections returns the yearly corrections applied to a station's table.
func (uc *PredictionUseCase) Corrections(req CorrectionsRequest) (*CorrectionsResponse, error) {
	if req.StationID == "" {
		req.StationID = uc.defaultStation
	}
	if err := req.Validate(uc.years); err != nil {
		return nil, err
	}

	model, _, station, err := uc.model(PredictionRequest{StationID: req.StationID}, req.Year)
	if err != nil {
		return nil, err
	}

	args := model.Arguments()
	amp, phase := model.CompAmplitude(), model.CompPhase()
	table := model.Table()

	rows := make([]ConstituentCorrection, 0, domain.NumConstituents)
	for _, code := range domain.AllConstituents {
		corr := model.Correction(code)
		c := table[code]
		rows = append(rows, ConstituentCorrection{
			Code:              code.String(),
			Description:       code.Description(),
			SpeedDegPerHr:     domain.Rad2Deg(c.SpeedRadPerHr),
			AmplitudeCm:       c.AmplitudeCm,
			PhaseLagDeg:       domain.Rad2Deg(c.PhaseLagRad),
			NodalFactor:       corr.NodalFactor,
			EquilibriumArgDeg: domain.Rad2Deg(corr.EquilibriumArg),
			CompAmplitudeCm:   amp[code],
			CompPhaseDeg:      domain.Rad2Deg(phase[code]),
		})
	}

	return &CorrectionsResponse{
		Year:    req.Year,
		Station: station,
		Arguments: ArgumentsResponse{
			JulianCenturies:  args.T,
			SunLongitudeDeg:  domain.Rad2Deg(args.SunLongitude),
			MoonLongitudeDeg: domain.Rad2Deg(args.MoonLongitude),
			PerigeeDeg:       domain.Rad2Deg(args.Perigee),
			NodeDeg:          domain.Rad2Deg(args.Node),
			ObliquityDeg:     domain.Rad2Deg(args.Obliquity),
			Eccentricity:     args.Eccentricity,
			InclinationDeg:   domain.Rad2Deg(args.Inclination),
		},
		Constituents: rows,
	}, nil
}

// ConstituentInfo describes one supported constituent.
type ConstituentInfo struct {
	Code          string  `json:"code"`
	Description   string  `json:"description"`
	SpeedDegPerHr float64 `json:"speed_deg_per_hr"`
	PeriodHours   float64 `json:"period_hours"`
}

// Constituents lists the seven constituents the model sums.
func Constituents() []ConstituentInfo {
	out := make([]ConstituentInfo, 0, domain.NumConstituents)
	for _, code := range domain.AllConstituents {
		speed := domain.Rad2Deg(code.StandardSpeed())
		out = append(out, ConstituentInfo{
			Code:          code.String(),
			Description:   code.Description(),
			SpeedDegPerHr: speed,
			PeriodHours:   360 / speed,
		})
	}
	return out
}
