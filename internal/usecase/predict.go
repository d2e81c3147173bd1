// Package usecase validates requests and orchestrates calibration lookup,
// model caching and day synthesis.
package usecase

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"go.ngs.io/tide-clock/internal/adapter/cache"
	"go.ngs.io/tide-clock/internal/adapter/store"
	"go.ngs.io/tide-clock/internal/domain"
	"go.ngs.io/tide-clock/internal/metrics"
)

// Default accepted years. The astronomical polynomials lose accuracy outside.
const (
	DefaultMinYear = 1850
	DefaultMaxYear = 2150
	maxDSTOffset   = 12.0
)

// Calibration sources reported in responses.
const (
	SourceStation  = "station"
	SourceLocation = "location"
)

// YearRange is an inclusive range of calendar years.
type YearRange struct {
	Min int
	Max int
}

// Contains reports whether year is within the range.
func (r YearRange) Contains(year int) bool {
	return year >= r.Min && year <= r.Max
}

// PredictionRequest encapsulates a day prediction request.
type PredictionRequest struct {
	// Date selects the day (in its own location) and the moment for the
	// current height.
	Date time.Time

	// Station ID (mutually exclusive with Lat/Lon).
	StationID string

	// Location parameters (mutually exclusive with StationID).
	Lat *float64
	Lon *float64

	DSTOffsetHours float64
	Refine         bool // Parabolic refinement of extrema.
	DedupPlateaus  bool // Sign-change extremum scan.
}

// Validate checks the request against the accepted year range.
func (r *PredictionRequest) Validate(years YearRange) error {
	if r.Date.IsZero() {
		return newValidationError("date", "date is required", ErrInvalidDate)
	}
	if year := r.Date.Year(); !years.Contains(year) {
		return newValidationError("date",
			fmt.Sprintf("year %d is outside the supported range %d-%d", year, years.Min, years.Max),
			ErrYearOutOfRange)
	}

	hasLatLon := r.Lat != nil || r.Lon != nil
	if hasLatLon && (r.Lat == nil || r.Lon == nil) {
		return newValidationError("lat/lon", "both lat and lon must be provided", nil)
	}
	if hasLatLon && r.StationID != "" {
		return newValidationError("station_id", "lat/lon and station_id are mutually exclusive", nil)
	}
	if !hasLatLon && r.StationID == "" {
		return newValidationError("station_id", "either lat/lon or station_id must be provided", nil)
	}
	if hasLatLon {
		if math.IsNaN(*r.Lat) || *r.Lat < -90 || *r.Lat > 90 {
			return newValidationError("lat", "latitude must be between -90 and 90", nil)
		}
		if math.IsNaN(*r.Lon) || *r.Lon < -180 || *r.Lon > 180 {
			return newValidationError("lon", "longitude must be between -180 and 180", nil)
		}
	}

	if math.IsNaN(r.DSTOffsetHours) || math.Abs(r.DSTOffsetHours) > maxDSTOffset {
		return newValidationError("dst", "DST offset must be between -12 and 12 hours", nil)
	}

	return nil
}

// SamplePoint is one sample of the day curve.
type SamplePoint struct {
	Hour     float64 `json:"hour"`
	Time     string  `json:"time"`
	HeightCm float64 `json:"height_cm"`
}

// ExtremumPoint is a high or low tide.
type ExtremumPoint struct {
	Hour     float64 `json:"hour"`
	Time     string  `json:"time"`
	HeightCm float64 `json:"height_cm"`
	Kind     string  `json:"kind"`
	Label    string  `json:"label"`
}

// DayResponse contains one day's curve and tide events.
type DayResponse struct {
	Source         string            `json:"source"`
	Station        string            `json:"station"`
	Date           string            `json:"date"`
	Timezone       string            `json:"timezone"`
	Year           int               `json:"year"`
	DSTOffsetHours float64           `json:"dst_offset_hours"`
	Current        SamplePoint       `json:"current"`
	Extrema        []ExtremumPoint   `json:"extrema"`
	Samples        []SamplePoint     `json:"samples"`
	Meta           map[string]string `json:"meta"`
}

// PredictionUseCase orchestrates tide prediction.
type PredictionUseCase struct {
	stations       store.CalibrationLoader
	locations      store.CalibrationLoader
	models         *cache.ModelCache
	years          YearRange
	defaultStation string
}

// Option configures a PredictionUseCase.
type Option func(*PredictionUseCase)

// WithYearRange sets the accepted years, inclusive.
func WithYearRange(minYear, maxYear int) Option {
	return func(uc *PredictionUseCase) {
		uc.years = YearRange{Min: minYear, Max: maxYear}
	}
}

// WithDefaultStation sets the station used when a request names no location.
func WithDefaultStation(stationID string) Option {
	return func(uc *PredictionUseCase) {
		uc.defaultStation = stationID
	}
}

// NewPredictionUseCase creates a new prediction use case. locations may be
// nil, in which case lat/lon requests report store.ErrNotFound.
func NewPredictionUseCase(stations, locations store.CalibrationLoader, models *cache.ModelCache, opts ...Option) *PredictionUseCase {
	uc := &PredictionUseCase{
		stations:  stations,
		locations: locations,
		models:    models,
		years:     YearRange{Min: DefaultMinYear, Max: DefaultMaxYear},
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Years returns the accepted year range.
func (uc *PredictionUseCase) Years() YearRange { return uc.years }

// model returns the cached model for the request's calibration source.
func (uc *PredictionUseCase) model(req PredictionRequest, year int) (*domain.ConstituentModel, string, string, error) {
	if req.StationID != "" {
		m, err := uc.models.GetOrBuild("station:"+strings.ToLower(req.StationID), year, func() (domain.CalibrationTable, error) {
			log.Debug().Str("station", req.StationID).Int("year", year).Msg("model cache miss")
			return uc.stations.LoadForStation(req.StationID)
		})
		if err != nil {
			return nil, "", "", fmt.Errorf("failed to load calibration for station %s: %w", req.StationID, err)
		}
		return m, SourceStation, req.StationID, nil
	}

	lat, lon := *req.Lat, *req.Lon
	label := fmt.Sprintf("%.4f,%.4f", lat, lon)
	if uc.locations == nil {
		return nil, "", "", fmt.Errorf("no gridded calibration configured for (%s): %w", label, store.ErrNotFound)
	}
	// Keyed on full precision: nearby points interpolate different constants.
	key := "location:" + strconv.FormatFloat(lat, 'g', -1, 64) + "," + strconv.FormatFloat(lon, 'g', -1, 64)
	m, err := uc.models.GetOrBuild(key, year, func() (domain.CalibrationTable, error) {
		log.Debug().Float64("lat", lat).Float64("lon", lon).Int("year", year).Msg("model cache miss")
		return uc.locations.LoadForLocation(lat, lon)
	})
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to load calibration for location (%s): %w", label, err)
	}
	return m, SourceLocation, label, nil
}

// Execute synthesizes the requested day.
func (uc *PredictionUseCase) Execute(req PredictionRequest) (*DayResponse, error) {
	if req.StationID == "" && req.Lat == nil && req.Lon == nil {
		req.StationID = uc.defaultStation
	}
	if err := req.Validate(uc.years); err != nil {
		return nil, err
	}

	year := req.Date.Year()
	model, source, station, err := uc.model(req, year)
	if err != nil {
		return nil, err
	}

	opts := []domain.Option{domain.WithDSTOffset(req.DSTOffsetHours)}
	if req.DedupPlateaus {
		opts = append(opts, domain.WithPlateauDedup())
	}
	p := domain.NewTidePredictor(req.Date, model, opts...)

	extrema := p.Extrema()
	if req.Refine {
		extrema = p.RefinedExtrema()
	}

	metrics.ObservePrediction(source)
	log.Debug().
		Str("source", source).
		Str("station", station).
		Str("date", req.Date.Format("2006-01-02")).
		Int("extrema", len(extrema)).
		Msg("day predicted")

	samples := p.Samples()
	points := make([]SamplePoint, len(samples))
	for i, s := range samples {
		points[i] = toSamplePoint(s)
	}

	events := make([]ExtremumPoint, len(extrema))
	for i, e := range extrema {
		events[i] = ExtremumPoint{
			Hour:     roundToDecimal(e.Hour, 4),
			Time:     domain.FormatHHMM(e.Hour),
			HeightCm: roundToDecimal(e.HeightCm, 3),
			Kind:     e.Kind.String(),
			Label:    e.Label,
		}
	}

	method := "strict"
	if req.DedupPlateaus {
		method = "turning_points"
	}
	if req.Refine {
		method += "+parabolic"
	}

	return &DayResponse{
		Source:         source,
		Station:        station,
		Date:           req.Date.Format("2006-01-02"),
		Timezone:       req.Date.Format("-07:00"),
		Year:           year,
		DSTOffsetHours: req.DSTOffsetHours,
		Current:        toSamplePoint(p.CurrentHeight()),
		Extrema:        events,
		Samples:        points,
		Meta: map[string]string{
			"model":        "harmonic_7",
			"constituents": "M2,S2,N2,K2,K1,O1,P1",
			"extrema":      method,
		},
	}, nil
}

func toSamplePoint(s domain.TideSample) SamplePoint {
	return SamplePoint{
		Hour:     roundToDecimal(s.Hour, 4),
		Time:     domain.FormatHHMM(s.Hour),
		HeightCm: roundToDecimal(s.HeightCm, 3),
	}
}

// roundToDecimal rounds half away from zero to precision places.
func roundToDecimal(val float64, precision int) float64 {
	multiplier := math.Pow(10, float64(precision))
	return math.Round(val*multiplier) / multiplier
}
