package trend

// Sample is a single point of a keyword's interest series
type Sample struct {
	Date     string  `json:"date"`
	Value    float64 `json:"value"`
	Volume   int     `json:"volume,omitempty"`
	Location string  `json:"location,omitempty"`
}

// Series is a chronological run of samples for one keyword
type Series []Sample

// Values returns the sample values in order
func (s Series) Values() []float64 {
	values := make([]float64, len(s))
	for i, sample := range s {
		values[i] = sample.Value
	}
	return values
}

// Last returns the most recent value, or 0 for an empty series
func (s Series) Last() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].Value
}

// Direction is the overall shape of a trend summary
type Direction string

const (
	DirectionIncreasing Direction = "increasing"
	DirectionDecreasing Direction = "decreasing"
	DirectionVolatile   Direction = "volatile"
	DirectionStable     Direction = "stable"
)

// Summary condenses a series into direction, growth, peak and average
type Summary struct {
	Direction       Direction `json:"direction"`
	GrowthRate      float64   `json:"growthRate"`
	GrowthUndefined bool      `json:"growthUndefined,omitempty"`
	PeakValue       float64   `json:"peakValue"`
	AverageValue    float64   `json:"averageValue"`
}

// Outlook is the direction of a short-horizon prediction
type Outlook string

const (
	OutlookUp       Outlook = "up"
	OutlookDown     Outlook = "down"
	OutlookSideways Outlook = "sideways"
)

// Confidence is the heuristic label attached to a prediction
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Range returns the display band shown for a confidence label
func (c Confidence) Range() string {
	switch c {
	case ConfidenceHigh:
		return "85-95%"
	case ConfidenceMedium:
		return "65-85%"
	default:
		return "45-65%"
	}
}

// PredictionTimeframe is the fixed horizon quoted on every prediction
const PredictionTimeframe = "7-30 days"

// Prediction is a linear extrapolation of the recent window
type Prediction struct {
	Direction       Outlook    `json:"direction"`
	Confidence      Confidence `json:"confidence"`
	ConfidenceRange string     `json:"confidenceRange"`
	EstimatedChange float64    `json:"estimatedChange"`
	Timeframe       string     `json:"timeframe"`
}

// SocialSignal is the social media side of a keyword's signals
type SocialSignal struct {
	Sentiment      float64 `json:"sentiment"`
	SentimentLabel string  `json:"sentimentLabel"`
	Mentions       int     `json:"mentions"`
	Engagement     int     `json:"engagement"`
}

// SentimentLabel buckets a sentiment score in [-100, 100]
func SentimentLabel(sentiment float64) string {
	if sentiment > 20 {
		return "Positive"
	}
	if sentiment < -20 {
		return "Negative"
	}
	return "Neutral"
}
