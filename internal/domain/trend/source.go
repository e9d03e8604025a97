// internal/domain/trend/source.go

package trend

import (
	"context"
)

// Source supplies keyword signals for an analysis
type Source interface {
	// FetchSeries returns a daily series of the given length ending yesterday
	FetchSeries(ctx context.Context, keyword string, days int, location string) (Series, error)

	// FetchSocial returns the current social media signal for a keyword
	FetchSocial(ctx context.Context, keyword string, location string) (SocialSignal, error)
}

// AllowedRanges are the day counts an analysis can be requested for
var AllowedRanges = []int{7, 30, 90, 180, 365}

// IsAllowedRange reports whether days is one of AllowedRanges
func IsAllowedRange(days int) bool {
	for _, d := range AllowedRanges {
		if d == days {
			return true
		}
	}
	return false
}

// MaxHistoricalDays caps the historical performance series
const MaxHistoricalDays = 180

// HistoricalDays is the length of the historical series for a request of days
func HistoricalDays(days int) int {
	if 2*days > MaxHistoricalDays {
		return MaxHistoricalDays
	}
	return 2 * days
}
