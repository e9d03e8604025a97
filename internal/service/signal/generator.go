// internal/service/signal/generator.go

package signal

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"kenyatrends/internal/domain/geo"
	"kenyatrends/internal/domain/trend"
)

const dateLayout = "2006-01-02"

// RandomWalk is a mock trend.Source producing synthetic interest series.
// It stands in for a real data feed.
type RandomWalk struct {
	rng *rand.Rand
	now func() time.Time
	mu  sync.Mutex
}

// NewRandomWalk creates a generator seeded from the clock
func NewRandomWalk() *RandomWalk {
	return NewRandomWalkWithRand(rand.New(rand.NewSource(time.Now().UnixNano())), time.Now)
}

// NewRandomWalkWithRand creates a generator with an explicit random source and clock
func NewRandomWalkWithRand(rng *rand.Rand, now func() time.Time) *RandomWalk {
	return &RandomWalk{
		rng: rng,
		now: now,
	}
}

// FetchSeries walks from a uniform start value, adding keyword-scaled noise
// and the location multiplier at every step, clamped to [0, 100]
func (g *RandomWalk) FetchSeries(ctx context.Context, keyword string, days int, location string) (trend.Series, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if days <= 0 {
		return trend.Series{}, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	multiplier := geo.LocationMultiplier(location)
	volatility := trend.KeywordVolatility(keyword)
	today := g.now()

	series := make(trend.Series, 0, days)
	current := g.rng.Float64() * 100

	for i := 0; i < days; i++ {
		change := (g.rng.Float64() - 0.5) * volatility
		current = clamp((current+change)*multiplier, 0, 100)

		series = append(series, trend.Sample{
			Date:     today.AddDate(0, 0, -(days - i)).Format(dateLayout),
			Value:    math.Round(current*100) / 100,
			Volume:   int(math.Floor(g.rng.Float64()*10000*multiplier)) + 1000,
			Location: location,
		})
	}

	return series, nil
}

// FetchSocial produces a synthetic sentiment, mention and engagement signal
func (g *RandomWalk) FetchSocial(ctx context.Context, keyword string, location string) (trend.SocialSignal, error) {
	if err := ctx.Err(); err != nil {
		return trend.SocialSignal{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	multiplier := geo.LocationMultiplier(location)
	engagement := g.rng.Float64() * 1000000 * multiplier
	sentiment := math.Round((g.rng.Float64()*200-100)*100) / 100
	mentions := math.Floor(engagement * (0.1 + g.rng.Float64()*0.3))

	return trend.SocialSignal{
		Sentiment:      sentiment,
		SentimentLabel: trend.SentimentLabel(sentiment),
		Mentions:       int(mentions),
		Engagement:     int(math.Floor(engagement)),
	}, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
