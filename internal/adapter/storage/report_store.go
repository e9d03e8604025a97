// internal/adapter/storage/report_store.go

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"kenyatrends/internal/domain/analysis"
)

// DB is the subset of *pgxpool.Pool the report store needs
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

// Schema creates the reports table
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS analysis_reports (
		id          UUID PRIMARY KEY,
		keywords    TEXT[] NOT NULL,
		location    TEXT NOT NULL DEFAULT '',
		date_range  TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL,
		report      JSONB NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS analysis_reports_created_at_idx ON analysis_reports (created_at DESC)`,
}

// PostgresStore implements storage for reports on PostgreSQL
type PostgresStore struct {
	db DB
}

// NewPostgresStore creates a new report store
func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{
		db: db,
	}
}

// Migrate creates the schema if it does not exist
func (s *PostgresStore) Migrate(ctx context.Context) error {
	for _, stmt := range Schema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("error creating schema: %w", err)
		}
	}
	return nil
}

// SaveReport saves a report to storage
func (s *PostgresStore) SaveReport(ctx context.Context, r analysis.Report) error {
	query := `
		INSERT INTO analysis_reports (
			id, keywords, location, date_range, created_at, report
		) VALUES (
			$1, $2, $3, $4, $5, $6
		)
		ON CONFLICT (id) DO UPDATE
		SET
			keywords = $2,
			location = $3,
			date_range = $4,
			report = $6
	`

	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	reportJSON, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("error marshaling report: %w", err)
	}

	_, err = s.db.Exec(
		ctx,
		query,
		r.ID,
		r.Keywords,
		r.Location,
		r.DateRange,
		r.CreatedAt,
		reportJSON,
	)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	return nil
}

// GetReport retrieves a report by ID
func (s *PostgresStore) GetReport(ctx context.Context, id string) (*analysis.Report, error) {
	query := `SELECT report FROM analysis_reports WHERE id = $1`

	var reportJSON []byte
	err := s.db.QueryRow(ctx, query, id).Scan(&reportJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, analysis.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying report: %w", err)
	}

	var r analysis.Report
	if err := json.Unmarshal(reportJSON, &r); err != nil {
		return nil, fmt.Errorf("error unmarshaling report: %w", err)
	}

	return &r, nil
}

// RecentReports returns up to limit reports, newest first
func (s *PostgresStore) RecentReports(ctx context.Context, limit int) ([]analysis.Report, error) {
	query := `
		SELECT report
		FROM analysis_reports
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	reports := []analysis.Report{}
	for rows.Next() {
		var reportJSON []byte
		if err := rows.Scan(&reportJSON); err != nil {
			return nil, fmt.Errorf("error scanning report: %w", err)
		}

		var r analysis.Report
		if err := json.Unmarshal(reportJSON, &r); err != nil {
			return nil, fmt.Errorf("error unmarshaling report: %w", err)
		}
		reports = append(reports, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}

	return reports, nil
}

// Close releases the connection pool
func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
