package trend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordVolatility(t *testing.T) {
	tests := []struct {
		keyword  string
		expected float64
	}{
		{keyword: "Bitcoin crypto", expected: VolatilityHigh},
		{keyword: "Kenya shilling rate", expected: VolatilityHigh},
		{keyword: "tea export Kenya", expected: VolatilityLow},
		{keyword: "Healthcare Kenya", expected: VolatilityLow},
		{keyword: "Safaricom", expected: VolatilityMedium},
		// high-volatility terms win over low ones
		{keyword: "tea strike", expected: VolatilityHigh},
		// the upper-case term never matches a lower-cased keyword
		{keyword: "NSE listings", expected: VolatilityMedium},
	}

	for _, tc := range tests {
		t.Run(tc.keyword, func(t *testing.T) {
			assert.Equal(t, tc.expected, KeywordVolatility(tc.keyword))
		})
	}
}

func TestAllowedRanges(t *testing.T) {
	for _, days := range []int{7, 30, 90, 180, 365} {
		assert.True(t, IsAllowedRange(days), days)
	}
	assert.False(t, IsAllowedRange(14))
	assert.False(t, IsAllowedRange(0))
}

func TestHistoricalDays(t *testing.T) {
	assert.Equal(t, 14, HistoricalDays(7))
	assert.Equal(t, 60, HistoricalDays(30))
	assert.Equal(t, 180, HistoricalDays(90))
	assert.Equal(t, 180, HistoricalDays(365))
}

func TestSeriesHelpers(t *testing.T) {
	s := Series{{Date: "2024-01-01", Value: 1.5}, {Date: "2024-01-02", Value: 2.5}}
	assert.Equal(t, []float64{1.5, 2.5}, s.Values())
	assert.Equal(t, 2.5, s.Last())
	assert.Equal(t, 0.0, Series{}.Last())
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Positive", SentimentLabel(20.5))
	assert.Equal(t, "Neutral", SentimentLabel(20))
	assert.Equal(t, "Negative", SentimentLabel(-35))
	assert.Equal(t, "85-95%", ConfidenceHigh.Range())
	assert.Equal(t, "65-85%", ConfidenceMedium.Range())
	assert.Equal(t, "45-65%", ConfidenceLow.Range())
}
