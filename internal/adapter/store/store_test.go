package store_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.ngs.io/tide-clock/internal/adapter/store"
	"go.ngs.io/tide-clock/internal/domain"
)

type stubLoader struct {
	table domain.CalibrationTable
	err   error
	calls int
}

func (s *stubLoader) LoadForStation(string) (domain.CalibrationTable, error) {
	s.calls++
	return s.table, s.err
}

func (s *stubLoader) LoadForLocation(float64, float64) (domain.CalibrationTable, error) {
	s.calls++
	return s.table, s.err
}

func TestChain_FallsThroughOnNotFound(t *testing.T) {
	ref := domain.ReferenceCalibration()
	first := &stubLoader{err: fmt.Errorf("nope: %w", store.ErrNotFound)}
	second := &stubLoader{table: ref}
	third := &stubLoader{err: errors.New("never reached")}
	chain := store.Chain{first, second, third}

	got, err := chain.LoadForStation("x")
	require.NoError(t, err)
	assert.Equal(t, ref, got)

	got, err = chain.LoadForLocation(35, 139)
	require.NoError(t, err)
	assert.Equal(t, ref, got)

	assert.Equal(t, 2, first.calls)
	assert.Equal(t, 2, second.calls)
	assert.Equal(t, 0, third.calls)
}

func TestChain_StopsOnOtherErrors(t *testing.T) {
	boom := errors.New("corrupt file")
	second := &stubLoader{table: domain.ReferenceCalibration()}
	chain := store.Chain{&stubLoader{err: boom}, second}

	_, err := chain.LoadForStation("x")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, second.calls)
}

func TestChain_AllMissing(t *testing.T) {
	chain := store.Chain{&stubLoader{err: store.ErrNotFound}}

	_, err := chain.LoadForStation("nowhere")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = chain.LoadForLocation(0, 0)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = store.Chain{}.LoadForStation("empty")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
