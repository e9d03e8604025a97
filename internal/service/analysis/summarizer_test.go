package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"kenyatrends/internal/domain/trend"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name      string
		values    []float64
		direction trend.Direction
		growth    float64
		undefined bool
		peak      float64
		average   float64
	}{
		{
			name:      "empty",
			values:    nil,
			direction: trend.DirectionStable,
		},
		{
			name:      "flat",
			values:    []float64{50, 50, 50, 50},
			direction: trend.DirectionStable,
			peak:      50,
			average:   50,
		},
		{
			name:      "increasing",
			values:    []float64{10, 10, 11, 11},
			direction: trend.DirectionIncreasing,
			growth:    10,
			peak:      11,
			average:   10.5,
		},
		{
			name:      "decreasing",
			values:    []float64{11, 11, 10, 10},
			direction: trend.DirectionDecreasing,
			growth:    -9.09,
			peak:      11,
			average:   10.5,
		},
		{
			name:      "small move is stable",
			values:    []float64{50, 51, 51, 52},
			direction: trend.DirectionStable,
			growth:    1.98,
			peak:      52,
			average:   51,
		},
		{
			name:      "wide spread overrides to volatile",
			values:    []float64{10, 90, 10, 90},
			direction: trend.DirectionVolatile,
			growth:    0,
			peak:      90,
			average:   50,
		},
		{
			name:      "odd length splits at floor half",
			values:    []float64{10, 11, 11},
			direction: trend.DirectionIncreasing,
			growth:    10,
			peak:      11,
			average:   10.67,
		},
		{
			name:      "single value has undefined growth",
			values:    []float64{42},
			direction: trend.DirectionVolatile,
			undefined: true,
			peak:      42,
			average:   42,
		},
		{
			name:      "zero first half has undefined growth",
			values:    []float64{0, 0, 10, 10},
			direction: trend.DirectionVolatile,
			undefined: true,
			peak:      10,
			average:   5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Summarize(tt.values)

			assert.Equal(t, tt.direction, s.Direction)
			assert.InDelta(t, tt.growth, s.GrowthRate, 1e-9)
			assert.Equal(t, tt.undefined, s.GrowthUndefined)
			assert.InDelta(t, tt.peak, s.PeakValue, 1e-9)
			assert.InDelta(t, tt.average, s.AverageValue, 1e-9)
		})
	}
}

func TestSummarize_RoundsToTwoPlaces(t *testing.T) {
	s := Summarize([]float64{1.234, 5.678})

	assert.Equal(t, 5.68, s.PeakValue)
	assert.Equal(t, 3.46, s.AverageValue)
}

func TestGrowthDirection_Boundaries(t *testing.T) {
	assert.Equal(t, trend.DirectionStable, growthDirection(4.99))
	assert.Equal(t, trend.DirectionVolatile, growthDirection(5))
	assert.Equal(t, trend.DirectionVolatile, growthDirection(-5))
	assert.Equal(t, trend.DirectionIncreasing, growthDirection(5.01))
	assert.Equal(t, trend.DirectionDecreasing, growthDirection(-5.01))
	assert.Equal(t, trend.DirectionVolatile, growthDirection(math.NaN()))
	assert.Equal(t, trend.DirectionIncreasing, growthDirection(math.Inf(1)))
}
