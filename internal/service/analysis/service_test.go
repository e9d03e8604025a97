package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kenyatrends/internal/adapter/storage"
	"kenyatrends/internal/domain/analysis"
	"kenyatrends/internal/domain/trend"
	"kenyatrends/internal/service/signal"
)

// fixedSource returns the same values for every keyword unless overridden
type fixedSource struct {
	values    []float64
	overrides map[string][]float64
	err       error
}

func (s fixedSource) FetchSeries(ctx context.Context, keyword string, days int, location string) (trend.Series, error) {
	if s.err != nil {
		return nil, s.err
	}
	values := s.values
	if v, ok := s.overrides[keyword]; ok {
		values = v
	}
	series := make(trend.Series, len(values))
	for i, v := range values {
		series[i] = trend.Sample{Date: time.Date(2024, 6, 1+i, 0, 0, 0, 0, time.UTC).Format("2006-01-02"), Value: v, Location: location}
	}
	return series, nil
}

func (s fixedSource) FetchSocial(ctx context.Context, keyword string, location string) (trend.SocialSignal, error) {
	return trend.SocialSignal{Sentiment: 25, SentimentLabel: "Positive", Mentions: 10, Engagement: 100}, nil
}

type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
	payloads [][]byte
	err      error
}

func (p *recordingPublisher) Publish(subject string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	p.payloads = append(p.payloads, data)
	return p.err
}

type failingStore struct {
	*storage.MemoryStore
}

func (failingStore) SaveReport(ctx context.Context, r analysis.Report) error {
	return errors.New("disk full")
}

func newTestService(source trend.Source, store analysis.ReportStore, pub analysis.Publisher) *Service {
	svc := NewService(source, store, pub, ServiceConfig{MaxRecent: 3})
	svc.now = func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestAnalyze(t *testing.T) {
	source := fixedSource{values: []float64{10, 13, 16, 19, 22, 25, 28}}
	pub := &recordingPublisher{}
	store := storage.NewMemoryStore(10)
	svc := newTestService(source, store, pub)

	report, err := svc.Analyze(context.Background(), analysis.Request{
		Keywords: []string{" tea export ", "M-Pesa"},
		Days:     7,
		Location: "mombasa",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, []string{"tea export", "M-Pesa"}, report.Keywords)
	assert.Equal(t, "Mombasa", report.Location)
	assert.Equal(t, "7 days", report.DateRange)
	assert.Equal(t, time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC), report.CreatedAt)
	require.Len(t, report.Analyses, 2)

	tea := report.Analyses[0]
	assert.Equal(t, "tea export", tea.Keyword)
	assert.Equal(t, "Mombasa", tea.Location)
	assert.Equal(t, "7 days", tea.DateRange)
	assert.Equal(t, 28.0, tea.Signals.CurrentValue)
	assert.Equal(t, 19.0, tea.Signals.HistoricalAverage)
	assert.Equal(t, trend.OutlookUp, tea.Prediction.Direction)
	assert.InDelta(t, 21.0, tea.Prediction.EstimatedChange, 1e-9)
	assert.Equal(t, []string{"Agriculture", "Tea & Coffee", "Horticulture", "Livestock"}, tea.MarketSectors)
	assert.Equal(t, "Positive", tea.Signals.Social.SentimentLabel)

	require.Len(t, report.Comparison.Correlations, 1)
	assert.Equal(t, 1.0, report.Comparison.Correlations[0].Correlation)
	assert.Equal(t, analysis.StrengthStrong, report.Comparison.Correlations[0].Strength)

	stored, err := store.GetReport(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, report.ID, stored.ID)

	require.Len(t, pub.subjects, 1)
	assert.Equal(t, "analysis.completed", pub.subjects[0])

	var event analysis.Event
	require.NoError(t, json.Unmarshal(pub.payloads[0], &event))
	assert.Equal(t, analysis.EventCompleted, event.Type)
	assert.Equal(t, report.ID, event.ReportID)
	assert.Equal(t, report.Comparison.TopPerformer, event.TopPerformer)
}

func TestAnalyze_Validation(t *testing.T) {
	svc := newTestService(fixedSource{values: []float64{1, 2, 3}}, storage.NewMemoryStore(10), nil)

	tests := []struct {
		name string
		req  analysis.Request
		err  error
	}{
		{"no keywords", analysis.Request{Days: 30}, analysis.ErrNoKeywords},
		{"blank keywords", analysis.Request{Keywords: []string{" ", ""}, Days: 30}, analysis.ErrNoKeywords},
		{"six keywords", analysis.Request{Keywords: []string{"a", "b", "c", "d", "e", "f"}, Days: 30}, analysis.ErrTooManyKeywords},
		{"unsupported range", analysis.Request{Keywords: []string{"tea"}, Days: 60}, analysis.ErrInvalidRange},
		{"zero range", analysis.Request{Keywords: []string{"tea"}}, analysis.ErrInvalidRange},
		{"unknown county", analysis.Request{Keywords: []string{"tea"}, Days: 30, Location: "Eldoret"}, analysis.ErrUnknownCounty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Analyze(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestAnalyze_FiveKeywordsAllowed(t *testing.T) {
	svc := newTestService(fixedSource{values: []float64{1, 2, 3, 4}}, storage.NewMemoryStore(10), nil)

	report, err := svc.Analyze(context.Background(), analysis.Request{
		Keywords: []string{"a", "b", "c", "d", "e"},
		Days:     365,
	})
	require.NoError(t, err)
	assert.Len(t, report.Analyses, 5)
	assert.Len(t, report.Comparison.Correlations, 10)
	assert.Empty(t, report.Location)
}

func TestAnalyze_SourceError(t *testing.T) {
	svc := newTestService(fixedSource{err: errors.New("feed down")}, storage.NewMemoryStore(10), nil)

	_, err := svc.Analyze(context.Background(), analysis.Request{Keywords: []string{"tea"}, Days: 7})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "feed down")
}

func TestAnalyze_UploadedHistoryTakesPrecedence(t *testing.T) {
	svc := newTestService(fixedSource{values: []float64{5, 5, 5, 5, 5, 5, 5}}, storage.NewMemoryStore(10), nil)

	history, err := signal.ParseCSV(strings.NewReader(
		"keyword,date,value\n" +
			"Tea,2024-06-01,40\n" +
			"Tea,2024-06-02,42\n" +
			"Tea,2024-06-03,44\n",
	))
	require.NoError(t, err)

	report, err := svc.Analyze(context.Background(), analysis.Request{
		Keywords: []string{"tea", "coffee"},
		Days:     7,
		Source:   history,
	})
	require.NoError(t, err)

	assert.Equal(t, []float64{40, 42, 44}, report.Analyses[0].Signals.Trend.Values())
	assert.Equal(t, []float64{5, 5, 5, 5, 5, 5, 5}, report.Analyses[1].Signals.Trend.Values())
	assert.Equal(t, "Positive", report.Analyses[0].Signals.Social.SentimentLabel)
}

func TestAnalyze_StoreAndPublishFailuresDoNotFail(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("bus down")}
	svc := newTestService(
		fixedSource{values: []float64{1, 2, 3}},
		failingStore{storage.NewMemoryStore(10)},
		pub,
	)

	report, err := svc.Analyze(context.Background(), analysis.Request{Keywords: []string{"tea"}, Days: 7})
	require.NoError(t, err)
	assert.NotNil(t, report)
	assert.Len(t, pub.subjects, 1)
}

func TestAnalyze_LatencyHonoursCancellation(t *testing.T) {
	svc := NewService(fixedSource{values: []float64{1}}, storage.NewMemoryStore(10), nil, ServiceConfig{
		SimulatedLatency: time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Analyze(ctx, analysis.Request{Keywords: []string{"tea"}, Days: 7})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyze_LatencyElapses(t *testing.T) {
	svc := NewService(fixedSource{values: []float64{1}}, storage.NewMemoryStore(10), nil, ServiceConfig{
		SimulatedLatency: 20 * time.Millisecond,
	})

	start := time.Now()
	_, err := svc.Analyze(context.Background(), analysis.Request{Keywords: []string{"tea"}, Days: 7})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestGetAndRecent(t *testing.T) {
	svc := newTestService(fixedSource{values: []float64{1, 2, 3}}, storage.NewMemoryStore(10), nil)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 5; i++ {
		r, err := svc.Analyze(ctx, analysis.Request{Keywords: []string{"tea"}, Days: 7})
		require.NoError(t, err)
		ids = append(ids, r.ID)
	}

	got, err := svc.Get(ctx, ids[2])
	require.NoError(t, err)
	assert.Equal(t, ids[2], got.ID)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, analysis.ErrNotFound)

	recent, err := svc.Recent(ctx, 100)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, ids[4], recent[0].ID)

	recent, err = svc.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func keywordAnalysis(keyword string, growth float64, values ...float64) analysis.KeywordAnalysis {
	series := make(trend.Series, len(values))
	for i, v := range values {
		series[i] = trend.Sample{Value: v}
	}
	return analysis.KeywordAnalysis{
		Keyword: keyword,
		Summary: trend.Summary{GrowthRate: growth},
		Signals: analysis.Signals{Trend: series},
	}
}

func TestCompare(t *testing.T) {
	analyses := []analysis.KeywordAnalysis{
		keywordAnalysis("a", 10, 1, 2, 3, 4),
		keywordAnalysis("b", -30, 4, 3, 2, 1),
		keywordAnalysis("c", 10, 5, 5, 5, 5),
		keywordAnalysis("d", 30, 1, 3, 2, 4),
	}

	c := Compare(analyses)

	assert.Equal(t, "d", c.TopPerformer)
	assert.Equal(t, "b", c.MostVolatile)
	assert.Equal(t, 5.0, c.AverageGrowth)
	require.Len(t, c.Correlations, 6)

	byPair := map[string]analysis.Correlation{}
	for _, corr := range c.Correlations {
		byPair[corr.Keyword1+corr.Keyword2] = corr
	}

	assert.Equal(t, -1.0, byPair["ab"].Correlation)
	assert.Equal(t, analysis.StrengthStrong, byPair["ab"].Strength)
	assert.Equal(t, 0.0, byPair["ac"].Correlation)
	assert.Equal(t, analysis.StrengthWeak, byPair["ac"].Strength)
	assert.Equal(t, 0.8, byPair["ad"].Correlation)
}

func TestCompare_TiesKeepFirst(t *testing.T) {
	c := Compare([]analysis.KeywordAnalysis{
		keywordAnalysis("first", 12, 1, 2),
		keywordAnalysis("second", 12, 1, 2),
		keywordAnalysis("third", -12, 1, 2),
	})

	assert.Equal(t, "first", c.TopPerformer)
	assert.Equal(t, "first", c.MostVolatile)
	assert.Equal(t, 4.0, c.AverageGrowth)
}

func TestCompare_Single(t *testing.T) {
	c := Compare([]analysis.KeywordAnalysis{keywordAnalysis("solo", 3.333, 1, 2, 3)})

	assert.Equal(t, "solo", c.TopPerformer)
	assert.Equal(t, "solo", c.MostVolatile)
	assert.Equal(t, 3.33, c.AverageGrowth)
	assert.Empty(t, c.Correlations)
}

func TestStrengthOf(t *testing.T) {
	assert.Equal(t, "Strong", string(analysis.StrengthStrong))
	assert.Equal(t, "Moderate", string(analysis.StrengthModerate))
	assert.Equal(t, "Weak", string(analysis.StrengthWeak))

	assert.Equal(t, analysis.StrengthStrong, analysis.StrengthOf(0.71))
	assert.Equal(t, analysis.StrengthStrong, analysis.StrengthOf(-0.9))
	assert.Equal(t, analysis.StrengthModerate, analysis.StrengthOf(0.7))
	assert.Equal(t, analysis.StrengthModerate, analysis.StrengthOf(-0.41))
	assert.Equal(t, analysis.StrengthWeak, analysis.StrengthOf(0.4))
	assert.Equal(t, analysis.StrengthWeak, analysis.StrengthOf(0))
}
