package signal

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"kenyatrends/internal/domain/analysis"
	"kenyatrends/internal/domain/trend"
)

// CSVSource serves uploaded keyword history. Keywords are matched
// case-insensitively; social signals are not part of an upload.
type CSVSource struct {
	series map[string]trend.Series
}

// ErrNoHistory is returned for keywords the upload does not cover
var ErrNoHistory = errors.New("no history for keyword")

// ParseCSV reads rows of keyword,date,value[,volume]. A header row naming
// the columns is required; column order is free.
func ParseCSV(r io.Reader) (*CSVSource, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", analysis.ErrInvalidHistory)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", analysis.ErrInvalidHistory, err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"keyword", "date", "value"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: missing %q column", analysis.ErrInvalidHistory, required)
		}
	}
	volumeCol, hasVolume := cols["volume"]

	src := &CSVSource{series: make(map[string]trend.Series)}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", analysis.ErrInvalidHistory, line, err)
		}

		field := func(col int) string {
			if col >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[col])
		}

		keyword := strings.ToLower(field(cols["keyword"]))
		if keyword == "" {
			return nil, fmt.Errorf("%w: line %d: empty keyword", analysis.ErrInvalidHistory, line)
		}

		date, err := time.Parse(dateLayout, field(cols["date"]))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad date %q", analysis.ErrInvalidHistory, line, field(cols["date"]))
		}

		value, err := strconv.ParseFloat(field(cols["value"]), 64)
		if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, fmt.Errorf("%w: line %d: bad value %q", analysis.ErrInvalidHistory, line, field(cols["value"]))
		}

		sample := trend.Sample{Date: date.Format(dateLayout), Value: value}
		if hasVolume && field(volumeCol) != "" {
			volume, err := strconv.Atoi(field(volumeCol))
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: bad volume %q", analysis.ErrInvalidHistory, line, field(volumeCol))
			}
			sample.Volume = volume
		}

		src.series[keyword] = append(src.series[keyword], sample)
	}

	if len(src.series) == 0 {
		return nil, fmt.Errorf("%w: no rows", analysis.ErrInvalidHistory)
	}

	for k := range src.series {
		s := src.series[k]
		sort.SliceStable(s, func(i, j int) bool { return s[i].Date < s[j].Date })
	}

	return src, nil
}

// Keywords lists the covered keywords, lower-cased and sorted
func (s *CSVSource) Keywords() []string {
	keywords := make([]string, 0, len(s.series))
	for k := range s.series {
		keywords = append(keywords, k)
	}
	sort.Strings(keywords)
	return keywords
}

// FetchSeries returns up to the last days samples uploaded for keyword
func (s *CSVSource) FetchSeries(ctx context.Context, keyword string, days int, location string) (trend.Series, error) {
	series, ok := s.series[strings.ToLower(strings.TrimSpace(keyword))]
	if !ok {
		return nil, ErrNoHistory
	}
	if days < len(series) {
		series = series[len(series)-days:]
	}

	out := make(trend.Series, len(series))
	copy(out, series)
	for i := range out {
		out[i].Location = location
	}
	return out, nil
}

// FetchSocial is not covered by uploads
func (s *CSVSource) FetchSocial(ctx context.Context, keyword string, location string) (trend.SocialSignal, error) {
	return trend.SocialSignal{}, ErrNoHistory
}

// FallbackSource asks Primary first and uses Fallback when Primary has no data
type FallbackSource struct {
	Primary  trend.Source
	Fallback trend.Source
}

// FetchSeries implements trend.Source
func (f FallbackSource) FetchSeries(ctx context.Context, keyword string, days int, location string) (trend.Series, error) {
	series, err := f.Primary.FetchSeries(ctx, keyword, days, location)
	if errors.Is(err, ErrNoHistory) {
		return f.Fallback.FetchSeries(ctx, keyword, days, location)
	}
	return series, err
}

// FetchSocial implements trend.Source
func (f FallbackSource) FetchSocial(ctx context.Context, keyword string, location string) (trend.SocialSignal, error) {
	social, err := f.Primary.FetchSocial(ctx, keyword, location)
	if errors.Is(err, ErrNoHistory) {
		return f.Fallback.FetchSocial(ctx, keyword, location)
	}
	return social, err
}
