package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"mantelzorg-engine/internal/models"

	"go.uber.org/zap"
)

// AlarmEventsRepository persists alarm events (alarm_events table).
// Events are an audit trail: rows are created once and mutated only by
// the triage operations, never deleted.
type AlarmEventsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAlarmEventsRepository creates the repository.
func NewAlarmEventsRepository(db *sql.DB, logger *zap.Logger) *AlarmEventsRepository {
	return &AlarmEventsRepository{
		db:     db,
		logger: logger,
	}
}

// AlarmEventFilters are the triage-view filter conditions.
type AlarmEventFilters struct {
	Municipality *string
	SubjectID    *string
	AssessmentID *string

	AlarmType *models.AlarmType
	Urgency   *models.Urgency
	Urgencies []models.Urgency

	// Handled filters on the handled flag; nil means both open and
	// handled events.
	Handled *bool

	StartTime *time.Time // created_at >= StartTime
	EndTime   *time.Time // created_at <= EndTime
}

const alarmEventColumns = `
	event_id,
	assessment_id,
	subject_id,
	municipality,
	alarm_type,
	urgency,
	description,
	handled,
	handled_at,
	handler,
	note,
	created_at,
	updated_at
`

// urgencyRankSQL orders rows by the urgency total order; ties break on
// recency.
const urgencyRankSQL = `CASE urgency
	WHEN 'CRITICAL' THEN 3
	WHEN 'HIGH' THEN 2
	WHEN 'MEDIUM' THEN 1
	ELSE 0
END`

// CreateAlarmEvent inserts a new alarm event.
func (r *AlarmEventsRepository) CreateAlarmEvent(ctx context.Context, event *models.AlarmEvent) error {
	if event == nil {
		return fmt.Errorf("event is required")
	}
	if event.EventID == "" {
		return fmt.Errorf("event_id is required")
	}
	if event.AssessmentID == "" {
		return fmt.Errorf("assessment_id is required")
	}

	query := `
		INSERT INTO alarm_events (` + alarmEventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.ExecContext(ctx, query,
		event.EventID,
		event.AssessmentID,
		event.SubjectID,
		event.Municipality,
		event.AlarmType,
		event.Urgency,
		event.Description,
		event.Handled,
		event.HandledAt,
		event.Handler,
		event.Note,
		event.CreatedAt,
		event.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create alarm event: %w", err)
	}

	return nil
}

// ExistsForAssessment reports whether an alarm of the given type was
// already recorded for the assessment. This is the dedupe check the
// evaluation pipeline runs before inserting: the dedupe key is
// assessment_id + alarm_type.
func (r *AlarmEventsRepository) ExistsForAssessment(ctx context.Context, assessmentID string, alarmType models.AlarmType) (bool, error) {
	if assessmentID == "" {
		return false, fmt.Errorf("assessment_id is required")
	}

	query := `
		SELECT COUNT(1)
		FROM alarm_events
		WHERE assessment_id = $1
		  AND alarm_type = $2
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, assessmentID, alarmType).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check existing alarm event: %w", err)
	}

	return count > 0, nil
}

// GetAlarmEvent fetches a single event by ID.
func (r *AlarmEventsRepository) GetAlarmEvent(ctx context.Context, eventID string) (*models.AlarmEvent, error) {
	if eventID == "" {
		return nil, fmt.Errorf("event_id is required")
	}

	query := `
		SELECT ` + alarmEventColumns + `
		FROM alarm_events
		WHERE event_id = $1
	`

	event, err := scanAlarmEvent(r.db.QueryRowContext(ctx, query, eventID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("alarm event not found: event_id=%s", eventID)
		}
		return nil, fmt.Errorf("failed to get alarm event: %w", err)
	}

	return event, nil
}

// buildWhereClause builds the WHERE conditions for list/count queries.
func (r *AlarmEventsRepository) buildWhereClause(filters AlarmEventFilters, args *[]interface{}, argN *int) []string {
	where := []string{}

	add := func(cond string, value interface{}) {
		where = append(where, fmt.Sprintf(cond, *argN))
		*args = append(*args, value)
		*argN++
	}

	if filters.Municipality != nil {
		add("municipality = $%d", *filters.Municipality)
	}
	if filters.SubjectID != nil {
		add("subject_id = $%d", *filters.SubjectID)
	}
	if filters.AssessmentID != nil {
		add("assessment_id = $%d", *filters.AssessmentID)
	}
	if filters.AlarmType != nil {
		add("alarm_type = $%d", *filters.AlarmType)
	}
	if filters.Urgency != nil {
		add("urgency = $%d", *filters.Urgency)
	}
	if len(filters.Urgencies) > 0 {
		placeholders := make([]string, len(filters.Urgencies))
		for i := range filters.Urgencies {
			placeholders[i] = fmt.Sprintf("$%d", *argN)
			*args = append(*args, filters.Urgencies[i])
			*argN++
		}
		where = append(where, fmt.Sprintf("urgency IN (%s)", strings.Join(placeholders, ", ")))
	}
	if filters.Handled != nil {
		add("handled = $%d", *filters.Handled)
	}
	if filters.StartTime != nil {
		add("created_at >= $%d", *filters.StartTime)
	}
	if filters.EndTime != nil {
		add("created_at <= $%d", *filters.EndTime)
	}

	return where
}

// ListAlarmEvents lists events with filtering and paging, ordered by
// descending urgency then recency.
func (r *AlarmEventsRepository) ListAlarmEvents(ctx context.Context, filters AlarmEventFilters, page, size int) ([]*models.AlarmEvent, int, error) {
	args := []interface{}{}
	argN := 1
	where := r.buildWhereClause(filters, &args, &argN)

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	queryCount := fmt.Sprintf(`
		SELECT COUNT(1)
		FROM alarm_events
		%s
	`, whereClause)

	var total int
	if err := r.db.QueryRowContext(ctx, queryCount, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count alarm events: %w", err)
	}

	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`
		SELECT `+alarmEventColumns+`
		FROM alarm_events
		%s
		ORDER BY %s DESC, created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, urgencyRankSQL, len(args)+1, len(args)+2)

	args = append(args, size, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query alarm events: %w", err)
	}
	defer rows.Close()

	events := []*models.AlarmEvent{}
	for rows.Next() {
		event, err := scanAlarmEvent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan alarm event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate alarm events: %w", err)
	}

	return events, total, nil
}

// HandleAlarmEvent marks an event handled by a staff member, optionally
// attaching a note. Concurrent toggles are last-writer-wins: curated
// data, no locking.
func (r *AlarmEventsRepository) HandleAlarmEvent(ctx context.Context, eventID, handlerID string, note *string) error {
	if eventID == "" {
		return fmt.Errorf("event_id is required")
	}
	if handlerID == "" {
		return fmt.Errorf("handler_id is required")
	}

	query := `
		UPDATE alarm_events
		SET handled = TRUE,
		    handled_at = $1,
		    handler = $2,
		    note = COALESCE($3, note),
		    updated_at = CURRENT_TIMESTAMP
		WHERE event_id = $4
	`

	result, err := r.db.ExecContext(ctx, query, time.Now(), handlerID, note, eventID)
	if err != nil {
		return fmt.Errorf("failed to handle alarm event: %w", err)
	}
	return requireRowAffected(result, eventID)
}

// ReopenAlarmEvent reverses a handled toggle. The original handler and
// note stay on the row for the audit trail.
func (r *AlarmEventsRepository) ReopenAlarmEvent(ctx context.Context, eventID string) error {
	if eventID == "" {
		return fmt.Errorf("event_id is required")
	}

	query := `
		UPDATE alarm_events
		SET handled = FALSE,
		    handled_at = NULL,
		    updated_at = CURRENT_TIMESTAMP
		WHERE event_id = $1
	`

	result, err := r.db.ExecContext(ctx, query, eventID)
	if err != nil {
		return fmt.Errorf("failed to reopen alarm event: %w", err)
	}
	return requireRowAffected(result, eventID)
}

// AttachNote sets or replaces the staff note on an event.
func (r *AlarmEventsRepository) AttachNote(ctx context.Context, eventID, note string) error {
	if eventID == "" {
		return fmt.Errorf("event_id is required")
	}

	query := `
		UPDATE alarm_events
		SET note = $1,
		    updated_at = CURRENT_TIMESTAMP
		WHERE event_id = $2
	`

	result, err := r.db.ExecContext(ctx, query, note, eventID)
	if err != nil {
		return fmt.Errorf("failed to attach note: %w", err)
	}
	return requireRowAffected(result, eventID)
}

// CountByUrgency returns per-urgency counts for a municipality,
// optionally restricted to open (unhandled) events.
func (r *AlarmEventsRepository) CountByUrgency(ctx context.Context, municipality string, openOnly bool) (map[models.Urgency]int, error) {
	if municipality == "" {
		return nil, fmt.Errorf("municipality is required")
	}

	query := `
		SELECT urgency, COUNT(1)
		FROM alarm_events
		WHERE municipality = $1
	`
	if openOnly {
		query += " AND handled = FALSE"
	}
	query += " GROUP BY urgency"

	rows, err := r.db.QueryContext(ctx, query, municipality)
	if err != nil {
		return nil, fmt.Errorf("failed to count alarm events by urgency: %w", err)
	}
	defer rows.Close()

	counts := map[models.Urgency]int{}
	for rows.Next() {
		var urgency models.Urgency
		var count int
		if err := rows.Scan(&urgency, &count); err != nil {
			return nil, fmt.Errorf("failed to scan urgency count: %w", err)
		}
		counts[urgency] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate urgency counts: %w", err)
	}

	return counts, nil
}

// CountDistinctSubjects returns the number of distinct subjects the
// municipality's alarm set derives from, used as the cohort size for the
// k-anonymity gate on alarm summaries.
func (r *AlarmEventsRepository) CountDistinctSubjects(ctx context.Context, municipality string) (int, error) {
	if municipality == "" {
		return 0, fmt.Errorf("municipality is required")
	}

	query := `
		SELECT COUNT(DISTINCT subject_id)
		FROM alarm_events
		WHERE municipality = $1
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, municipality).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count distinct subjects: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAlarmEvent(row rowScanner) (*models.AlarmEvent, error) {
	var event models.AlarmEvent
	var handledAt sql.NullTime
	var handler, note sql.NullString

	err := row.Scan(
		&event.EventID,
		&event.AssessmentID,
		&event.SubjectID,
		&event.Municipality,
		&event.AlarmType,
		&event.Urgency,
		&event.Description,
		&event.Handled,
		&handledAt,
		&handler,
		&note,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if handledAt.Valid {
		event.HandledAt = &handledAt.Time
	}
	if handler.Valid {
		event.Handler = &handler.String
	}
	if note.Valid {
		event.Note = &note.String
	}

	return &event, nil
}

func requireRowAffected(result sql.Result, eventID string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("alarm event not found: event_id=%s", eventID)
	}
	return nil
}
