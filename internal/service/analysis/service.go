// internal/service/analysis/service.go

package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kenyatrends/internal/domain/analysis"
	"kenyatrends/internal/domain/geo"
	"kenyatrends/internal/domain/sector"
	"kenyatrends/internal/domain/trend"
	"kenyatrends/internal/logger"
	"kenyatrends/internal/metrics"
	"kenyatrends/internal/service/signal"
	"kenyatrends/internal/stats"
)

// ServiceConfig contains configuration for the analysis service
type ServiceConfig struct {
	SimulatedLatency time.Duration
	EventsTopic      string
	MaxRecent        int
}

// Service implements the analysis.Service interface
type Service struct {
	source    trend.Source
	store     analysis.ReportStore
	publisher analysis.Publisher
	config    ServiceConfig
	now       func() time.Time
}

// NewService creates a new analysis service. publisher may be nil.
func NewService(
	source trend.Source,
	store analysis.ReportStore,
	publisher analysis.Publisher,
	config ServiceConfig,
) *Service {
	if config.EventsTopic == "" {
		config.EventsTopic = "analysis"
	}
	if config.MaxRecent <= 0 {
		config.MaxRecent = 50
	}

	return &Service{
		source:    source,
		store:     store,
		publisher: publisher,
		config:    config,
		now:       time.Now,
	}
}

// CompletedSubject is the event subject for finished reports
func (s *Service) CompletedSubject() string {
	return analysis.CompletedSubject(s.config.EventsTopic)
}

// Analyze runs a multi-keyword analysis
func (s *Service) Analyze(ctx context.Context, req analysis.Request) (*analysis.Report, error) {
	start := time.Now()

	report, err := s.analyze(ctx, req)
	metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.AnalysesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.AnalysesTotal.WithLabelValues("ok").Inc()

	if err := s.store.SaveReport(ctx, *report); err != nil {
		metrics.StoreErrors.WithLabelValues("save").Inc()
		logger.Error("Failed to archive report", zap.String("report_id", report.ID), zap.Error(err))
	}

	if err := s.publishCompleted(report); err != nil {
		logger.Warn("Failed to publish analysis event", zap.String("report_id", report.ID), zap.Error(err))
	}

	logger.Info("Analysis completed",
		zap.String("report_id", report.ID),
		zap.Strings("keywords", report.Keywords),
		zap.String("location", report.Location),
		zap.String("date_range", report.DateRange),
		zap.Duration("took", time.Since(start)),
	)

	return report, nil
}

func (s *Service) analyze(ctx context.Context, req analysis.Request) (*analysis.Report, error) {
	keywords, location, err := validate(req)
	if err != nil {
		return nil, err
	}

	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	source := s.source
	if req.Source != nil {
		source = signal.FallbackSource{Primary: req.Source, Fallback: s.source}
	}

	dateRange := fmt.Sprintf("%d days", req.Days)
	analyses := make([]analysis.KeywordAnalysis, 0, len(keywords))

	for _, keyword := range keywords {
		ka, err := analyzeKeyword(ctx, source, keyword, req.Days, location)
		if err != nil {
			return nil, fmt.Errorf("error analyzing %q: %w", keyword, err)
		}
		ka.DateRange = dateRange
		analyses = append(analyses, ka)
	}

	return &analysis.Report{
		ID:         uuid.New().String(),
		Keywords:   keywords,
		Location:   location,
		DateRange:  dateRange,
		CreatedAt:  s.now().UTC(),
		Analyses:   analyses,
		Comparison: Compare(analyses),
	}, nil
}

func analyzeKeyword(ctx context.Context, source trend.Source, keyword string, days int, location string) (analysis.KeywordAnalysis, error) {
	series, err := source.FetchSeries(ctx, keyword, days, location)
	if err != nil {
		return analysis.KeywordAnalysis{}, fmt.Errorf("error fetching trend series: %w", err)
	}

	historical, err := source.FetchSeries(ctx, keyword, trend.HistoricalDays(days), location)
	if err != nil {
		return analysis.KeywordAnalysis{}, fmt.Errorf("error fetching historical series: %w", err)
	}

	social, err := source.FetchSocial(ctx, keyword, location)
	if err != nil {
		return analysis.KeywordAnalysis{}, fmt.Errorf("error fetching social signal: %w", err)
	}

	values := series.Values()
	summary := Summarize(values)
	prediction := Predict(values, keyword)

	metrics.KeywordsAnalyzed.Inc()
	metrics.TrendDirections.WithLabelValues(string(summary.Direction)).Inc()
	metrics.PredictionConfidence.WithLabelValues(string(prediction.Direction), string(prediction.Confidence)).Inc()

	return analysis.KeywordAnalysis{
		Keyword:  keyword,
		Location: location,
		Summary:  summary,
		Signals: analysis.Signals{
			Trend:             series,
			Social:            social,
			Historical:        historical,
			CurrentValue:      series.Last(),
			HistoricalAverage: stats.Round2(stats.Mean(historical.Values())),
		},
		Prediction:    prediction,
		MarketSectors: sector.Map(keyword),
	}, nil
}

// Compare ranks analyses by growth and correlates every pair of trend series
func Compare(analyses []analysis.KeywordAnalysis) analysis.Comparison {
	if len(analyses) == 0 {
		return analysis.Comparison{Correlations: []analysis.Correlation{}}
	}

	top, volatile := analyses[0], analyses[0]
	var growthSum float64
	for _, a := range analyses {
		if a.Summary.GrowthRate > top.Summary.GrowthRate {
			top = a
		}
		if math.Abs(a.Summary.GrowthRate) > math.Abs(volatile.Summary.GrowthRate) {
			volatile = a
		}
		growthSum += a.Summary.GrowthRate
	}

	correlations := make([]analysis.Correlation, 0, len(analyses)*(len(analyses)-1)/2)
	for i := 0; i < len(analyses); i++ {
		for j := i + 1; j < len(analyses); j++ {
			r := stats.Round2(stats.Correlation(
				analyses[i].Signals.Trend.Values(),
				analyses[j].Signals.Trend.Values(),
			))
			correlations = append(correlations, analysis.Correlation{
				Keyword1:    analyses[i].Keyword,
				Keyword2:    analyses[j].Keyword,
				Correlation: r,
				Strength:    analysis.StrengthOf(r),
			})
		}
	}

	return analysis.Comparison{
		TopPerformer:  top.Keyword,
		MostVolatile:  volatile.Keyword,
		AverageGrowth: stats.Round2(growthSum / float64(len(analyses))),
		Correlations:  correlations,
	}
}

// Get returns an archived report by ID
func (s *Service) Get(ctx context.Context, id string) (*analysis.Report, error) {
	return s.store.GetReport(ctx, id)
}

// Recent returns the newest archived reports first
func (s *Service) Recent(ctx context.Context, limit int) ([]analysis.Report, error) {
	if limit <= 0 || limit > s.config.MaxRecent {
		limit = s.config.MaxRecent
	}
	return s.store.RecentReports(ctx, limit)
}

// validate trims keywords, drops empty ones and checks range and county
func validate(req analysis.Request) ([]string, string, error) {
	keywords := make([]string, 0, len(req.Keywords))
	for _, k := range req.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}

	if len(keywords) == 0 {
		return nil, "", analysis.ErrNoKeywords
	}
	if len(keywords) > analysis.MaxKeywords {
		return nil, "", fmt.Errorf("%w: %d given, at most %d allowed", analysis.ErrTooManyKeywords, len(keywords), analysis.MaxKeywords)
	}
	if !trend.IsAllowedRange(req.Days) {
		return nil, "", fmt.Errorf("%w: %d days", analysis.ErrInvalidRange, req.Days)
	}

	location := strings.TrimSpace(req.Location)
	if location != "" {
		county, ok := geo.CanonicalCounty(location)
		if !ok {
			return nil, "", fmt.Errorf("%w: %s", analysis.ErrUnknownCounty, location)
		}
		location = county
	}

	return keywords, location, nil
}

// wait holds the request for the simulated latency
func (s *Service) wait(ctx context.Context) error {
	if s.config.SimulatedLatency <= 0 {
		return nil
	}

	timer := time.NewTimer(s.config.SimulatedLatency)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// publishCompleted publishes a report completed event
func (s *Service) publishCompleted(r *analysis.Report) error {
	if s.publisher == nil {
		return nil
	}

	data, err := json.Marshal(analysis.Event{
		Type:          analysis.EventCompleted,
		ReportID:      r.ID,
		Keywords:      r.Keywords,
		Location:      r.Location,
		DateRange:     r.DateRange,
		TopPerformer:  r.Comparison.TopPerformer,
		AverageGrowth: r.Comparison.AverageGrowth,
		CreatedAt:     r.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("error marshaling event: %w", err)
	}

	return s.publisher.Publish(s.CompletedSubject(), data)
}
