package repository

import (
	"context"
	"testing"
	"time"

	"mantelzorg-engine/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupStatsRepo(t *testing.T) (*StatsRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewStatsRepository(db, zap.NewNop()), mock
}

func TestListAssessmentHistory(t *testing.T) {
	repo, mock := setupStatsRepo(t)

	from := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"subject_id", "municipality", "total_score", "level", "completed_at"}).
		AddRow("s1", "Utrecht", 6.0, "LAAG", from.AddDate(0, 1, 0)).
		AddRow("s2", "Utrecht", 14.5, "HOOG", from.AddDate(0, 2, 0))

	mock.ExpectQuery("FROM assessments").
		WithArgs("Utrecht", from, to).
		WillReturnRows(rows)

	records, err := repo.ListAssessments(context.Background(), "Utrecht", from, to)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "s1", records[0].SubjectID)
	assert.Equal(t, models.LevelHigh, records[1].Level)
	assert.Equal(t, 14.5, records[1].Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAssessmentHistory_Unbounded(t *testing.T) {
	repo, mock := setupStatsRepo(t)

	mock.ExpectQuery("FROM assessments").
		WillReturnRows(sqlmock.NewRows([]string{"subject_id", "municipality", "total_score", "level", "completed_at"}))

	records, err := repo.ListAssessments(context.Background(), "", time.Time{}, time.Time{})

	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountSubjects(t *testing.T) {
	repo, mock := setupStatsRepo(t)

	mock.ExpectQuery("FROM subjects").
		WithArgs("Utrecht").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := repo.CountSubjects(context.Background(), "Utrecht")

	require.NoError(t, err)
	assert.Equal(t, 42, count)
}

func TestCountSubjectsWithAssessment(t *testing.T) {
	repo, mock := setupStatsRepo(t)

	mock.ExpectQuery("SELECT COUNT\\(DISTINCT subject_id\\) FROM assessments").
		WithArgs("Utrecht").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(30))

	count, err := repo.CountSubjectsWithAssessment(context.Background(), "Utrecht")

	require.NoError(t, err)
	assert.Equal(t, 30, count)
}

func TestCountSubjectsWithHelpRequest(t *testing.T) {
	repo, mock := setupStatsRepo(t)

	mock.ExpectQuery("JOIN help_requests").
		WithArgs("Utrecht").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))

	count, err := repo.CountSubjectsWithHelpRequest(context.Background(), "Utrecht")

	require.NoError(t, err)
	assert.Equal(t, 6, count)
}

func TestCountHelpRequests(t *testing.T) {
	repo, mock := setupStatsRepo(t)

	mock.ExpectQuery("FROM help_requests").
		WithArgs("Utrecht").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	count, err := repo.CountHelpRequests(context.Background(), "Utrecht")

	require.NoError(t, err)
	assert.Equal(t, 11, count)
}

func TestCountHelpRequests_RequiresMunicipality(t *testing.T) {
	repo, _ := setupStatsRepo(t)

	_, err := repo.CountHelpRequests(context.Background(), "")

	assert.Error(t, err)
}
