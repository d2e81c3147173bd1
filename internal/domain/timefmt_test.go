package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatHHMM(t *testing.T) {
	tests := []struct {
		hours float64
		want  string
	}{
		{0, "00:00"},
		{12.5, "12:30"},
		{6.7, "06:42"},
		{9.0 + 59.4/60.0, "09:59"},
		{10.0 - 0.2/60.0, "10:00"},
		{23.99, "23:59"},
		{23.995, "00:00"},
		{24.0, "00:00"},
		{25.25, "01:15"},
		{-0.5, "23:30"},
		{math.NaN(), "--:--"},
		{math.Inf(1), "--:--"},
		{24e6 + 12.5, "12:30"},
		// 2^62 h is 960 min past a whole day; far beyond int64 minutes.
		{math.Ldexp(1, 62), "16:00"},
		{-math.Ldexp(1, 62), "08:00"},
		{1e30, "12:48"},
		{-1e30, "11:12"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatHHMM(tt.hours), "FormatHHMM(%v)", tt.hours)
	}
}
