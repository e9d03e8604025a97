// internal/adapter/storage/memory_store.go

package storage

import (
	"context"
	"sync"

	"kenyatrends/internal/domain/analysis"
)

// MemoryStore keeps the most recent reports in process memory
type MemoryStore struct {
	capacity int
	order    []string
	reports  map[string]analysis.Report
	mu       sync.RWMutex
}

// NewMemoryStore creates a store holding at most capacity reports
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = 100
	}
	return &MemoryStore{
		capacity: capacity,
		reports:  make(map[string]analysis.Report),
	}
}

// SaveReport stores a report, evicting the oldest beyond capacity
func (s *MemoryStore) SaveReport(ctx context.Context, r analysis.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.reports[r.ID]; !exists {
		s.order = append(s.order, r.ID)
	}
	s.reports[r.ID] = r

	for len(s.order) > s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.reports, oldest)
	}

	return nil
}

// GetReport retrieves a report by ID
func (s *MemoryStore) GetReport(ctx context.Context, id string) (*analysis.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reports[id]
	if !ok {
		return nil, analysis.ErrNotFound
	}
	return &r, nil
}

// RecentReports returns up to limit reports, newest first
func (s *MemoryStore) RecentReports(ctx context.Context, limit int) ([]analysis.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reports := make([]analysis.Report, 0, limit)
	for i := len(s.order) - 1; i >= 0 && len(reports) < limit; i-- {
		reports = append(reports, s.reports[s.order[i]])
	}
	return reports, nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}
