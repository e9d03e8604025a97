// internal/adapter/storage/redis_store.go

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"kenyatrends/internal/domain/analysis"
)

const (
	reportKeyPrefix = "report:"
	recentKey       = "reports:recent"
)

// RedisStore keeps reports in Redis with a TTL, indexed by creation time
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a new Redis-backed report store. A zero ttl keeps
// reports until evicted.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func reportKey(id string) string {
	return reportKeyPrefix + id
}

// SaveReport saves a report and indexes it in the recent set
func (s *RedisStore) SaveReport(ctx context.Context, r analysis.Report) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("error marshaling report: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, reportKey(r.ID), data, s.ttl)
	pipe.ZAdd(ctx, recentKey, redis.Z{
		Score:  float64(r.CreatedAt.UnixNano()),
		Member: r.ID,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("error saving report: %w", err)
	}

	return nil
}

// GetReport retrieves a report by ID
func (s *RedisStore) GetReport(ctx context.Context, id string) (*analysis.Report, error) {
	data, err := s.client.Get(ctx, reportKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, analysis.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting report: %w", err)
	}

	var r analysis.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("error unmarshaling report: %w", err)
	}

	return &r, nil
}

// RecentReports returns up to limit reports, newest first. Index entries
// whose report has expired are pruned.
func (s *RedisStore) RecentReports(ctx context.Context, limit int) ([]analysis.Report, error) {
	reports := []analysis.Report{}
	if limit <= 0 {
		return reports, nil
	}

	ids, err := s.client.ZRevRange(ctx, recentKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("error listing reports: %w", err)
	}
	if len(ids) == 0 {
		return reports, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = reportKey(id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("error getting reports: %w", err)
	}

	var expired []any
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			expired = append(expired, ids[i])
			continue
		}

		var r analysis.Report
		if err := json.Unmarshal([]byte(str), &r); err != nil {
			return nil, fmt.Errorf("error unmarshaling report: %w", err)
		}
		reports = append(reports, r)
	}

	if len(expired) > 0 {
		if err := s.client.ZRem(ctx, recentKey, expired...).Err(); err != nil {
			return nil, fmt.Errorf("error pruning index: %w", err)
		}
	}

	return reports, nil
}

// Close closes the Redis client
func (s *RedisStore) Close() error {
	return s.client.Close()
}
