package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"honeynet-lab/internal/domain/models"
)

// reportSchema creates the engagement report table on first use. Kept as
// plain DDL; the table is append-mostly and has no relations.
const reportSchema = `
CREATE TABLE IF NOT EXISTS engagement_reports (
    session_id        TEXT PRIMARY KEY,
    scam_detected     BOOLEAN NOT NULL,
    scam_type         TEXT NOT NULL,
    confidence_level  DOUBLE PRECISION NOT NULL,
    total_messages    INTEGER NOT NULL,
    duration_seconds  BIGINT NOT NULL,
    intelligence      JSONB NOT NULL,
    agent_notes       TEXT NOT NULL,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_engagement_reports_scam_type ON engagement_reports (scam_type);
CREATE INDEX IF NOT EXISTS idx_engagement_reports_created_at ON engagement_reports (created_at DESC);
`

// ReportRepository persists final engagement reports
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new report repository
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// EnsureSchema creates the backing table if it does not exist yet
func (r *ReportRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, reportSchema); err != nil {
		return fmt.Errorf("failed to ensure report schema: %w", err)
	}
	return nil
}

// Save inserts or refreshes a final report. Reports are keyed by session,
// so regenerating a report for the same session overwrites the prior row.
func (r *ReportRepository) Save(ctx context.Context, report *models.FinalReport) error {
	intel, err := json.Marshal(report.ExtractedIntelligence)
	if err != nil {
		return fmt.Errorf("failed to marshal intelligence: %w", err)
	}

	const query = `
		INSERT INTO engagement_reports (
			session_id, scam_detected, scam_type, confidence_level,
			total_messages, duration_seconds, intelligence, agent_notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (session_id) DO UPDATE SET
			scam_detected    = EXCLUDED.scam_detected,
			scam_type        = EXCLUDED.scam_type,
			confidence_level = EXCLUDED.confidence_level,
			total_messages   = EXCLUDED.total_messages,
			duration_seconds = EXCLUDED.duration_seconds,
			intelligence     = EXCLUDED.intelligence,
			agent_notes      = EXCLUDED.agent_notes,
			updated_at       = now()`

	_, err = r.pool.Exec(ctx, query,
		report.SessionID,
		report.ScamDetected,
		report.ScamType,
		report.ConfidenceLevel,
		report.TotalMessagesExchanged,
		report.EngagementDurationSeconds,
		intel,
		report.AgentNotes,
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// GetBySessionID returns a stored report, or (nil, nil) when none exists
func (r *ReportRepository) GetBySessionID(ctx context.Context, sessionID string) (*models.FinalReport, error) {
	const query = `
		SELECT session_id, scam_detected, scam_type, confidence_level,
		       total_messages, duration_seconds, intelligence, agent_notes
		FROM engagement_reports
		WHERE session_id = $1`

	var (
		report models.FinalReport
		intel  []byte
	)
	err := r.pool.QueryRow(ctx, query, sessionID).Scan(
		&report.SessionID,
		&report.ScamDetected,
		&report.ScamType,
		&report.ConfidenceLevel,
		&report.TotalMessagesExchanged,
		&report.EngagementDurationSeconds,
		&intel,
		&report.AgentNotes,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	if err := json.Unmarshal(intel, &report.ExtractedIntelligence); err != nil {
		return nil, fmt.Errorf("failed to unmarshal intelligence: %w", err)
	}
	return &report, nil
}

// ListRecent returns the newest reports, most recent first
func (r *ReportRepository) ListRecent(ctx context.Context, limit int) ([]*models.FinalReport, error) {
	if limit <= 0 {
		limit = 50
	}

	const query = `
		SELECT session_id, scam_detected, scam_type, confidence_level,
		       total_messages, duration_seconds, intelligence, agent_notes
		FROM engagement_reports
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	reports := []*models.FinalReport{}
	for rows.Next() {
		var (
			report models.FinalReport
			intel  []byte
		)
		if err := rows.Scan(
			&report.SessionID,
			&report.ScamDetected,
			&report.ScamType,
			&report.ConfidenceLevel,
			&report.TotalMessagesExchanged,
			&report.EngagementDurationSeconds,
			&intel,
			&report.AgentNotes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		if err := json.Unmarshal(intel, &report.ExtractedIntelligence); err != nil {
			return nil, fmt.Errorf("failed to unmarshal intelligence: %w", err)
		}
		reports = append(reports, &report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}
	return reports, nil
}

// CountSince returns how many reports landed after the cutoff, used by the
// stats endpoint.
func (r *ReportRepository) CountSince(ctx context.Context, cutoff time.Time) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM engagement_reports WHERE created_at >= $1`, cutoff).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return n, nil
}
