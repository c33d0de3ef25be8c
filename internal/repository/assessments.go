package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"mantelzorg-engine/internal/models"

	"go.uber.org/zap"
)

// AssessmentsRepository persists completed questionnaire instances
// (assessments table). Rows are immutable after completion: re-tests
// insert new rows and history is retained indefinitely.
type AssessmentsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAssessmentsRepository creates the repository.
func NewAssessmentsRepository(db *sql.DB, logger *zap.Logger) *AssessmentsRepository {
	return &AssessmentsRepository{
		db:     db,
		logger: logger,
	}
}

const assessmentColumns = `
	assessment_id,
	subject_id,
	municipality,
	answers,
	total_score,
	level,
	domain_scores,
	tasks,
	care_hours,
	completed_at,
	created_at
`

// CreateAssessment inserts a completed assessment. Answers, domain
// scores and tasks are stored as JSONB snapshots on the row.
func (r *AssessmentsRepository) CreateAssessment(ctx context.Context, a *models.Assessment) error {
	if a == nil {
		return fmt.Errorf("assessment is required")
	}
	if a.AssessmentID == "" {
		return fmt.Errorf("assessment_id is required")
	}
	if a.SubjectID == "" {
		return fmt.Errorf("subject_id is required")
	}

	answers, err := json.Marshal(a.Answers)
	if err != nil {
		return fmt.Errorf("failed to marshal answers: %w", err)
	}
	domainScores, err := json.Marshal(a.DomainScores)
	if err != nil {
		return fmt.Errorf("failed to marshal domain scores: %w", err)
	}
	tasks, err := json.Marshal(a.Tasks)
	if err != nil {
		return fmt.Errorf("failed to marshal tasks: %w", err)
	}

	query := `
		INSERT INTO assessments (` + assessmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = r.db.ExecContext(ctx, query,
		a.AssessmentID,
		a.SubjectID,
		a.Municipality,
		answers,
		a.TotalScore,
		a.Level,
		domainScores,
		tasks,
		a.CareHours,
		a.CompletedAt,
		a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create assessment: %w", err)
	}

	return nil
}

// GetAssessment fetches a single assessment by ID.
func (r *AssessmentsRepository) GetAssessment(ctx context.Context, assessmentID string) (*models.Assessment, error) {
	if assessmentID == "" {
		return nil, fmt.Errorf("assessment_id is required")
	}

	query := `
		SELECT ` + assessmentColumns + `
		FROM assessments
		WHERE assessment_id = $1
	`

	a, err := scanAssessment(r.db.QueryRowContext(ctx, query, assessmentID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("assessment not found: assessment_id=%s", assessmentID)
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}

	return a, nil
}

// GetPreviousAssessment returns the subject's most recent assessment
// completed before the given time, or nil when this is the first one.
// Feeds the trend wording in alarm descriptions.
func (r *AssessmentsRepository) GetPreviousAssessment(ctx context.Context, subjectID string, before time.Time) (*models.Assessment, error) {
	if subjectID == "" {
		return nil, fmt.Errorf("subject_id is required")
	}

	query := `
		SELECT ` + assessmentColumns + `
		FROM assessments
		WHERE subject_id = $1
		  AND completed_at < $2
		ORDER BY completed_at DESC
		LIMIT 1
	`

	a, err := scanAssessment(r.db.QueryRowContext(ctx, query, subjectID, before))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // first assessment for this subject
		}
		return nil, fmt.Errorf("failed to get previous assessment: %w", err)
	}

	return a, nil
}

// ListBySubject returns a subject's full assessment history, oldest
// first.
func (r *AssessmentsRepository) ListBySubject(ctx context.Context, subjectID string) ([]*models.Assessment, error) {
	if subjectID == "" {
		return nil, fmt.Errorf("subject_id is required")
	}

	query := `
		SELECT ` + assessmentColumns + `
		FROM assessments
		WHERE subject_id = $1
		ORDER BY completed_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	defer rows.Close()

	assessments := []*models.Assessment{}
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		assessments = append(assessments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assessments: %w", err)
	}

	return assessments, nil
}

func scanAssessment(row rowScanner) (*models.Assessment, error) {
	var a models.Assessment
	var answers, domainScores, tasks []byte

	err := row.Scan(
		&a.AssessmentID,
		&a.SubjectID,
		&a.Municipality,
		&answers,
		&a.TotalScore,
		&a.Level,
		&domainScores,
		&tasks,
		&a.CareHours,
		&a.CompletedAt,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &a.Answers); err != nil {
			return nil, fmt.Errorf("failed to unmarshal answers: %w", err)
		}
	}
	if len(domainScores) > 0 {
		if err := json.Unmarshal(domainScores, &a.DomainScores); err != nil {
			return nil, fmt.Errorf("failed to unmarshal domain scores: %w", err)
		}
	}
	if len(tasks) > 0 {
		if err := json.Unmarshal(tasks, &a.Tasks); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tasks: %w", err)
		}
	}

	return &a, nil
}
