package analysis

import (
	"math"

	"kenyatrends/internal/domain/trend"
	"kenyatrends/internal/stats"
)

// PredictionWindow is the number of trailing samples the predictor fits
const PredictionWindow = 7

// sidewaysBand is the |estimated change| below which the outlook is sideways
const sidewaysBand = 2.0

// Predict extrapolates the last PredictionWindow values over the next week
// and labels the result with a heuristic confidence.
func Predict(values []float64, keyword string) trend.Prediction {
	if len(values) < PredictionWindow {
		return trend.Prediction{
			Direction:       trend.OutlookSideways,
			Confidence:      trend.ConfidenceLow,
			ConfidenceRange: trend.ConfidenceLow.Range(),
			EstimatedChange: 0,
			Timeframe:       trend.PredictionTimeframe,
		}
	}

	recent := values[len(values)-PredictionWindow:]
	slope := stats.Slope(recent)
	change := slope * PredictionWindow

	var direction trend.Outlook
	switch {
	case math.Abs(change) < sidewaysBand:
		direction = trend.OutlookSideways
	case change > 0:
		direction = trend.OutlookUp
	default:
		direction = trend.OutlookDown
	}

	confidence := confidenceFor(consistency(slope, recent), trend.KeywordVolatility(keyword))

	return trend.Prediction{
		Direction:       direction,
		Confidence:      confidence,
		ConfidenceRange: confidence.Range(),
		EstimatedChange: stats.Round2(change),
		Timeframe:       trend.PredictionTimeframe,
	}
}

// consistency is 1 - |slope| / max(window). A window without a positive
// maximum scores 0.
func consistency(slope float64, window []float64) float64 {
	max := stats.Max(window)
	if max <= 0 {
		return 0
	}
	return 1 - math.Abs(slope)/max
}

func confidenceFor(consistency, volatility float64) trend.Confidence {
	switch {
	case consistency > 0.8 && volatility < 10:
		return trend.ConfidenceHigh
	case consistency > 0.6 && volatility < 15:
		return trend.ConfidenceMedium
	default:
		return trend.ConfidenceLow
	}
}
