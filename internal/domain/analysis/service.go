// internal/domain/analysis/service.go

package analysis

import (
	"context"
)

// Service defines the interface for running and reading back analyses
type Service interface {
	// Analyze runs a multi-keyword analysis
	Analyze(ctx context.Context, req Request) (*Report, error)

	// Get returns an archived report by ID
	Get(ctx context.Context, id string) (*Report, error)

	// Recent returns the newest archived reports first
	Recent(ctx context.Context, limit int) ([]Report, error)
}

// ReportStore archives completed reports
type ReportStore interface {
	SaveReport(ctx context.Context, r Report) error
	GetReport(ctx context.Context, id string) (*Report, error)
	RecentReports(ctx context.Context, limit int) ([]Report, error)
	Close() error
}

// Publisher emits analysis events
type Publisher interface {
	Publish(subject string, data []byte) error
}
