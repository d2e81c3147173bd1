package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.ngs.io/tide-clock/internal/adapter/store"
	"go.ngs.io/tide-clock/internal/domain"
)

func TestCorrections(t *testing.T) {
	uc, _ := newTestUseCase(t, nil)

	resp, err := uc.Corrections(CorrectionsRequest{Year: 2024})
	require.NoError(t, err)

	assert.Equal(t, 2024, resp.Year)
	assert.Equal(t, "reference", resp.Station)
	require.Len(t, resp.Constituents, domain.NumConstituents)

	byCode := map[string]ConstituentCorrection{}
	for _, c := range resp.Constituents {
		byCode[c.Code] = c
	}
	assert.Equal(t, 1.0, byCode["S2"].NodalFactor)
	assert.Equal(t, 1.0, byCode["P1"].NodalFactor)
	assert.Equal(t, byCode["M2"].NodalFactor, byCode["N2"].NodalFactor)
	assert.InDelta(t, 0.964, byCode["M2"].NodalFactor, 1e-3)
	assert.InDelta(t, 47.1419, byCode["M2"].CompAmplitudeCm, 1e-4)
	assert.InDelta(t, 28.9841042, byCode["M2"].SpeedDegPerHr, 1e-9)
	assert.Equal(t, 0.0, byCode["S2"].EquilibriumArgDeg)
	assert.InDelta(t, 28.5, resp.Arguments.InclinationDeg, 0.1)
}

func TestCorrections_Errors(t *testing.T) {
	uc, _ := newTestUseCase(t, nil)

	_, err := uc.Corrections(CorrectionsRequest{Year: 1700})
	assert.ErrorIs(t, err, ErrYearOutOfRange)

	_, err = uc.Corrections(CorrectionsRequest{Year: 2024, StationID: "nowhere"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	bare := NewPredictionUseCase(nil, nil, mustCache(t))
	_, err = bare.Corrections(CorrectionsRequest{Year: 2024})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestConstituents(t *testing.T) {
	list := Constituents()
	require.Len(t, list, domain.NumConstituents)
	assert.Equal(t, "M2", list[0].Code)
	assert.InDelta(t, 12.4206, list[0].PeriodHours, 1e-4)
	assert.Equal(t, "P1", list[6].Code)
	assert.InDelta(t, 24.0659, list[6].PeriodHours, 1e-4)
}
