package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"mantelzorg-engine/internal/trends"

	"go.uber.org/zap"
)

// StatsRepository is the read-only history store behind the trend and
// effectiveness calculator. It implements trends.Store over the
// assessments, subjects and help_requests tables.
type StatsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewStatsRepository creates the repository.
func NewStatsRepository(db *sql.DB, logger *zap.Logger) *StatsRepository {
	return &StatsRepository{
		db:     db,
		logger: logger,
	}
}

// ListAssessments returns the trend records for a municipality and time
// window. Empty municipality means platform-wide; zero times mean
// unbounded.
func (r *StatsRepository) ListAssessments(ctx context.Context, municipality string, from, to time.Time) ([]trends.Record, error) {
	where := []string{}
	args := []interface{}{}
	argN := 1

	if municipality != "" {
		where = append(where, fmt.Sprintf("municipality = $%d", argN))
		args = append(args, municipality)
		argN++
	}
	if !from.IsZero() {
		where = append(where, fmt.Sprintf("completed_at >= $%d", argN))
		args = append(args, from)
		argN++
	}
	if !to.IsZero() {
		where = append(where, fmt.Sprintf("completed_at <= $%d", argN))
		args = append(args, to)
		argN++
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT subject_id, municipality, total_score, level, completed_at
		FROM assessments
		%s
		ORDER BY completed_at ASC
	`, whereClause)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessment history: %w", err)
	}
	defer rows.Close()

	records := []trends.Record{}
	for rows.Next() {
		var rec trends.Record
		if err := rows.Scan(&rec.SubjectID, &rec.Municipality, &rec.Score, &rec.Level, &rec.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan assessment history: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assessment history: %w", err)
	}

	return records, nil
}

// CountSubjects counts registered subjects, optionally per municipality.
func (r *StatsRepository) CountSubjects(ctx context.Context, municipality string) (int, error) {
	query := `SELECT COUNT(1) FROM subjects`
	args := []interface{}{}
	if municipality != "" {
		query += ` WHERE municipality = $1`
		args = append(args, municipality)
	}
	return r.countQuery(ctx, query, args...)
}

// CountSubjectsWithAssessment counts subjects with at least one
// completed assessment.
func (r *StatsRepository) CountSubjectsWithAssessment(ctx context.Context, municipality string) (int, error) {
	query := `SELECT COUNT(DISTINCT subject_id) FROM assessments`
	args := []interface{}{}
	if municipality != "" {
		query += ` WHERE municipality = $1`
		args = append(args, municipality)
	}
	return r.countQuery(ctx, query, args...)
}

// CountSubjectsWithHelpRequest counts subjects with at least one
// completed assessment and at least one help request.
func (r *StatsRepository) CountSubjectsWithHelpRequest(ctx context.Context, municipality string) (int, error) {
	query := `
		SELECT COUNT(DISTINCT a.subject_id)
		FROM assessments a
		JOIN help_requests h ON h.subject_id = a.subject_id
	`
	args := []interface{}{}
	if municipality != "" {
		query += ` WHERE a.municipality = $1`
		args = append(args, municipality)
	}
	return r.countQuery(ctx, query, args...)
}

// CountHelpRequests counts help requests for a municipality, for the
// help-request summary view.
func (r *StatsRepository) CountHelpRequests(ctx context.Context, municipality string) (int, error) {
	if municipality == "" {
		return 0, fmt.Errorf("municipality is required")
	}
	query := `
		SELECT COUNT(1)
		FROM help_requests h
		JOIN subjects s ON s.subject_id = h.subject_id
		WHERE s.municipality = $1
	`
	return r.countQuery(ctx, query, municipality)
}

func (r *StatsRepository) countQuery(ctx context.Context, query string, args ...interface{}) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count: %w", err)
	}
	return count, nil
}
