package analysis

import (
	"math"

	"kenyatrends/internal/domain/trend"
	"kenyatrends/internal/stats"
)

// growthBand is the |growth rate| below which a trend counts as stable
const growthBand = 5.0

// volatileSpread is the std dev to mean ratio above which a trend is volatile
const volatileSpread = 0.3

// Summarize reduces a series to direction, growth rate, peak and average.
// Growth compares the means of the two halves split at len/2; the raw rate
// may be non-finite when the first half averages zero.
func Summarize(values []float64) trend.Summary {
	if len(values) == 0 {
		return trend.Summary{Direction: trend.DirectionStable}
	}

	mid := len(values) / 2
	firstMean := math.NaN()
	if mid > 0 {
		firstMean = stats.Mean(values[:mid])
	}
	secondMean := stats.Mean(values[mid:])

	growth := (secondMean - firstMean) / firstMean * 100
	average := stats.Mean(values)

	direction := growthDirection(growth)
	if stats.StdDev(values) > average*volatileSpread {
		direction = trend.DirectionVolatile
	}

	summary := trend.Summary{
		Direction:    direction,
		GrowthRate:   stats.Round2(growth),
		PeakValue:    stats.Round2(stats.Max(values)),
		AverageValue: stats.Round2(average),
	}
	if math.IsNaN(growth) || math.IsInf(growth, 0) {
		summary.GrowthRate = 0
		summary.GrowthUndefined = true
	}
	return summary
}

// growthDirection labels a growth rate. Exactly ±5 and NaN fall through to
// volatile.
func growthDirection(growth float64) trend.Direction {
	switch {
	case math.Abs(growth) < growthBand:
		return trend.DirectionStable
	case growth > growthBand:
		return trend.DirectionIncreasing
	case growth < -growthBand:
		return trend.DirectionDecreasing
	default:
		return trend.DirectionVolatile
	}
}
