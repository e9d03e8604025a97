package analysis

import (
	"errors"
	"fmt"
	"time"

	"kenyatrends/internal/domain/trend"
)

// MaxKeywords is the most keywords one analysis accepts
const MaxKeywords = 5

// Request is a single multi-keyword analysis request. Source, when set, is
// consulted before the service's default source.
type Request struct {
	Keywords []string     `json:"keywords"`
	Days     int          `json:"days"`
	Location string       `json:"location,omitempty"`
	Source   trend.Source `json:"-"`
}

// Signals groups the raw inputs behind a keyword analysis
type Signals struct {
	Trend             trend.Series       `json:"trend"`
	Social            trend.SocialSignal `json:"socialMedia"`
	Historical        trend.Series       `json:"historicalPerformance"`
	CurrentValue      float64            `json:"currentValue"`
	HistoricalAverage float64            `json:"historicalAverage"`
}

// KeywordAnalysis is the result for one keyword
type KeywordAnalysis struct {
	Keyword       string           `json:"keyword"`
	Location      string           `json:"location,omitempty"`
	DateRange     string           `json:"dateRange"`
	Summary       trend.Summary    `json:"trendSummary"`
	Signals       Signals          `json:"signals"`
	Prediction    trend.Prediction `json:"prediction"`
	MarketSectors []string         `json:"marketSectors"`
}

// CorrelationStrength labels the magnitude of a correlation
type CorrelationStrength string

const (
	StrengthStrong   CorrelationStrength = "Strong"
	StrengthModerate CorrelationStrength = "Moderate"
	StrengthWeak     CorrelationStrength = "Weak"
)

// StrengthOf buckets |r| into strong (> 0.7), moderate (> 0.4) or weak
func StrengthOf(r float64) CorrelationStrength {
	if r < 0 {
		r = -r
	}
	switch {
	case r > 0.7:
		return StrengthStrong
	case r > 0.4:
		return StrengthModerate
	default:
		return StrengthWeak
	}
}

// Correlation relates the trend series of two keywords
type Correlation struct {
	Keyword1    string              `json:"keyword1"`
	Keyword2    string              `json:"keyword2"`
	Correlation float64             `json:"correlation"`
	Strength    CorrelationStrength `json:"strength"`
}

// Comparison ranks the keywords of one report against each other
type Comparison struct {
	TopPerformer  string        `json:"topPerformer"`
	MostVolatile  string        `json:"mostVolatile"`
	AverageGrowth float64       `json:"averageGrowth"`
	Correlations  []Correlation `json:"correlations"`
}

// Report is the outcome of one analysis request
type Report struct {
	ID         string            `json:"id"`
	Keywords   []string          `json:"keywords"`
	Location   string            `json:"location,omitempty"`
	DateRange  string            `json:"dateRange"`
	CreatedAt  time.Time         `json:"createdAt"`
	Analyses   []KeywordAnalysis `json:"analyses"`
	Comparison Comparison        `json:"comparison"`
}

// EventCompleted is the type of the event published for a finished report
const EventCompleted = "analysis.completed"

// CompletedSubject is the bus subject for finished reports under topic
func CompletedSubject(topic string) string {
	return fmt.Sprintf("%s.completed", topic)
}

// Event is published when a report completes
type Event struct {
	Type          string    `json:"type"`
	ReportID      string    `json:"reportId"`
	Keywords      []string  `json:"keywords"`
	Location      string    `json:"location,omitempty"`
	DateRange     string    `json:"dateRange"`
	TopPerformer  string    `json:"topPerformer"`
	AverageGrowth float64   `json:"averageGrowth"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Common errors
var (
	ErrNoKeywords      = errors.New("at least one keyword is required")
	ErrTooManyKeywords = errors.New("too many keywords")
	ErrInvalidRange    = errors.New("unsupported date range")
	ErrUnknownCounty   = errors.New("unknown county")
	ErrInvalidHistory  = errors.New("invalid history upload")
	ErrNotFound        = errors.New("not found")
)
