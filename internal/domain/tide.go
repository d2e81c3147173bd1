package domain

import (
	"fmt"
	"math"
	"time"
)

const (
	// SamplesPerDay is the number of samples in a day series: one per minute,
	// both midnights included.
	SamplesPerDay  = 24*60 + 1
	minutesPerHour = 60.0
)

// TideSample is one point of a synthesized day curve.
type TideSample struct {
	Hour     float64 // Decimal hour of day, 0..24.
	HeightCm float64 // Height relative to mean sea level.
}

// ExtremumKind tells a high tide from a low tide.
type ExtremumKind int

const (
	// High marks a local maximum.
	High ExtremumKind = iota
	// Low marks a local minimum.
	Low
)

func (k ExtremumKind) String() string {
	switch k {
	case High:
		return "high"
	case Low:
		return "low"
	default:
		return "invalid"
	}
}

// MarshalText encodes the kind as "high" or "low".
func (k ExtremumKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ExtremumEvent marks a high or low tide within a day series.
type ExtremumEvent struct {
	Hour     float64
	HeightCm float64
	Kind     ExtremumKind
	Label    string // E.g. "06:42 112.3 cm".
}

func newExtremumEvent(hour, height float64, kind ExtremumKind) ExtremumEvent {
	return ExtremumEvent{
		Hour:     hour,
		HeightCm: height,
		Kind:     kind,
		Label:    fmt.Sprintf("%s %.1f cm", FormatHHMM(hour), height),
	}
}

// Option configures a TidePredictor.
type Option func(*predictorOptions)

type predictorOptions struct {
	dstOffset     float64
	dedupPlateaus bool
}

// WithDSTOffset sets the manual daylight-saving compensation in hours.
func WithDSTOffset(hours float64) Option {
	return func(o *predictorOptions) {
		o.dstOffset = hours
	}
}

// WithPlateauDedup switches extremum detection to FindTurningPoints.
func WithPlateauDedup() Option {
	return func(o *predictorOptions) {
		o.dedupPlateaus = true
	}
}

// TidePredictor holds one day's synthesized curve and its extrema.
// All results are computed at construction; the value is immutable afterwards.
type TidePredictor struct {
	date      time.Time
	model     *ConstituentModel
	dstOffset float64
	baseHours float64 // Hours from the start of the year to midnight of date.

	samples []TideSample
	extrema []ExtremumEvent
	current TideSample
}

// NewTidePredictor synthesizes the day containing date using model.
// The day runs from midnight in date's own location.
func NewTidePredictor(date time.Time, model *ConstituentModel, opts ...Option) *TidePredictor {
	var o predictorOptions
	for _, opt := range opts {
		opt(&o)
	}

	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	p := &TidePredictor{
		date:      date,
		model:     model,
		dstOffset: o.dstOffset,
		baseHours: HoursIntoYear(midnight),
	}

	p.samples = p.GenerateDaySeries(p.baseHours)
	if o.dedupPlateaus {
		p.extrema = FindTurningPoints(p.samples)
	} else {
		p.extrema = FindExtrema(p.samples)
	}

	hourOfDay := decimalHourOfDay(date)
	p.current = TideSample{
		Hour:     hourOfDay,
		HeightCm: p.HeightAt(p.baseHours + hourOfDay),
	}

	return p
}

// HoursIntoYear returns the fractional hours from Jan 1 00:00 UTC of
// date.Year() to the instant date.
func HoursIntoYear(date time.Time) float64 {
	start := time.Date(date.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	return date.Sub(start).Hours()
}

func decimalHourOfDay(date time.Time) float64 {
	return float64(date.Hour()) +
		float64(date.Minute())/minutesPerHour +
		(float64(date.Second())+float64(date.Nanosecond())/1e9)/3600.0
}

// HeightAt evaluates the harmonic sum in centimeters relative to mean sea level.
func (p *TidePredictor) HeightAt(hoursSinceYearStart float64) float64 {
	return heightAt(p.model, hoursSinceYearStart-p.dstOffset)
}

func heightAt(m *ConstituentModel, hours float64) float64 {
	var height float64
	for i := 0; i < NumConstituents; i++ {
		height += m.compAmplitude[i] * math.Cos(m.speed[i]*hours+m.compPhase[i])
	}
	return height
}

// GenerateDaySeries samples HeightAt once a minute over decimal hours [0, 24].
func (p *TidePredictor) GenerateDaySeries(baseHoursIntoYear float64) []TideSample {
	series := make([]TideSample, SamplesPerDay)
	for i := range series {
		hour := float64(i) / minutesPerHour
		series[i] = TideSample{
			Hour:     hour,
			HeightCm: p.HeightAt(baseHoursIntoYear + hour),
		}
	}
	return series
}

// CurrentHeight returns the height at the exact requested moment.
func (p *TidePredictor) CurrentHeight() TideSample { return p.current }

// Samples returns the day series. Callers must not modify it.
func (p *TidePredictor) Samples() []TideSample { return p.samples }

// Extrema returns the high and low tides of the day in time order.
func (p *TidePredictor) Extrema() []ExtremumEvent { return p.extrema }

// Date returns the requested moment.
func (p *TidePredictor) Date() time.Time { return p.date }

// DSTOffset returns the manual offset in hours.
func (p *TidePredictor) DSTOffset() float64 { return p.dstOffset }

// Model returns the constituent model the day was synthesized with.
func (p *TidePredictor) Model() *ConstituentModel { return p.model }

// RefinedExtrema applies parabolic interpolation to every extremum.
func (p *TidePredictor) RefinedExtrema() []ExtremumEvent {
	refined := make([]ExtremumEvent, 0, len(p.extrema))
	for _, e := range p.extrema {
		idx := sampleIndex(e.Hour)
		if idx < 1 || idx >= len(p.samples)-1 {
			refined = append(refined, e)
			continue
		}
		hour, height := RefineExtremum(p.samples[idx-1], p.samples[idx], p.samples[idx+1])
		refined = append(refined, newExtremumEvent(hour, height, e.Kind))
	}
	return refined
}

func sampleIndex(hour float64) int {
	return int(math.Round(hour * minutesPerHour))
}

// FindExtrema flags interior samples strictly above or strictly below both
// neighbours. The first and last samples are never flagged. An exact plateau
// of three or more equal samples yields no event; see FindTurningPoints.
func FindExtrema(series []TideSample) []ExtremumEvent {
	events := make([]ExtremumEvent, 0)
	if len(series) < 3 {
		return events
	}

	for i := 1; i < len(series)-1; i++ {
		prev := series[i-1].HeightCm
		curr := series[i].HeightCm
		next := series[i+1].HeightCm

		if curr > prev && curr > next {
			events = append(events, newExtremumEvent(series[i].Hour, curr, High))
		}
		if curr < prev && curr < next {
			events = append(events, newExtremumEvent(series[i].Hour, curr, Low))
		}
	}

	return events
}

// FindTurningPoints finds sign changes in the first difference. A run of equal
// samples between a rise and a fall is reported once, at its centre; a run
// between two rises (or two falls) is not a turning point.
func FindTurningPoints(series []TideSample) []ExtremumEvent {
	events := make([]ExtremumEvent, 0)
	if len(series) < 3 {
		return events
	}

	prevSign := 0
	plateauStart := -1
	for i := 1; i < len(series); i++ {
		sign := compareHeights(series[i].HeightCm, series[i-1].HeightCm)
		if sign == 0 {
			if plateauStart < 0 {
				plateauStart = i - 1
			}
			continue
		}

		if prevSign != 0 && sign != prevSign {
			idx := i - 1
			if plateauStart >= 0 {
				idx = (plateauStart + i - 1) / 2
			}
			kind := Low
			if prevSign > 0 {
				kind = High
			}
			events = append(events, newExtremumEvent(series[idx].Hour, series[idx].HeightCm, kind))
		}

		plateauStart = -1
		prevSign = sign
	}

	return events
}

func compareHeights(a, b float64) int {
	switch {
	case a > b:
		return 1
	case a < b:
		return -1
	default:
		return 0
	}
}

// RefineExtremum fits a parabola through three evenly spaced samples and
// returns the hour and height of its vertex. It falls back to the middle
// sample when the spacing is uneven, the curve is nearly flat, or the vertex
// lands outside the bracket.
func RefineExtremum(before, peak, after TideSample) (float64, float64) {
	dt1 := peak.Hour - before.Hour
	dt2 := after.Hour - peak.Hour

	if dt1 <= 0 || math.Abs(dt1-dt2) > 1e-9 {
		return peak.Hour, peak.HeightCm
	}

	h0, h1, h2 := before.HeightCm, peak.HeightCm, after.HeightCm

	// y = a*x^2 + b*x + h1 with x measured from the peak.
	a := (h2 - 2*h1 + h0) / (2 * dt1 * dt1)
	b := (h2 - h0) / (2 * dt1)

	if math.Abs(a) < 1e-12 {
		return peak.Hour, peak.HeightCm
	}

	dtVertex := -b / (2 * a)
	if math.Abs(dtVertex) > dt1 {
		return peak.Hour, peak.HeightCm
	}

	return peak.Hour + dtVertex, h1 + b*dtVertex + a*dtVertex*dtVertex
}
