package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"mantelzorg-engine/internal/advice"
	"mantelzorg-engine/internal/config"
	"mantelzorg-engine/internal/evaluator"
	"mantelzorg-engine/internal/models"
	"mantelzorg-engine/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAssessmentStore struct {
	created  []*models.Assessment
	previous *models.Assessment
	err      error
}

func (f *fakeAssessmentStore) CreateAssessment(_ context.Context, a *models.Assessment) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, a)
	return nil
}

func (f *fakeAssessmentStore) GetPreviousAssessment(context.Context, string, time.Time) (*models.Assessment, error) {
	return f.previous, nil
}

type fakeAlarmStore struct {
	created   []*models.AlarmEvent
	existing  map[string]bool // alarm type -> already recorded
	createErr error
}

func (f *fakeAlarmStore) CreateAlarmEvent(_ context.Context, e *models.AlarmEvent) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, e)
	return nil
}

func (f *fakeAlarmStore) ExistsForAssessment(_ context.Context, _ string, alarmType models.AlarmType) (bool, error) {
	return f.existing[string(alarmType)], nil
}

type fakeNotifier struct {
	notified []models.AlarmEvent
	err      error
}

func (f *fakeNotifier) NotifyCritical(_ context.Context, e models.AlarmEvent) error {
	f.notified = append(f.notified, e)
	return f.err
}

func intakeQuestionnaire() *config.QuestionnaireDefinition {
	return &config.QuestionnaireDefinition{
		Domains: []config.DomainDefinition{
			{Name: "energie", MaxScore: 8, Questions: []string{"q1", "q2"}},
			{Name: "emotie", MaxScore: 8, Questions: []string{"q3", "q4"}},
			{Name: "sociaal", MaxScore: 8, Questions: []string{"q5", "q6"}},
		},
	}
}

func newIntakeService(t *testing.T, assessments *fakeAssessmentStore, alarms *fakeAlarmStore, notifier *fakeNotifier) *IntakeService {
	t.Helper()

	thresholds := scoring.Thresholds{LowMax: 6, MediumMax: 12}
	eval := evaluator.New(evaluator.Config{CareHoursWeeklyMax: 40}, zap.NewNop())
	selector := advice.NewSelector(nil, "advies:override:", zap.NewNop())

	var n CriticalNotifier
	if notifier != nil {
		n = notifier
	}

	return NewIntakeService(thresholds, intakeQuestionnaire(), eval, selector,
		assessments, alarms, n, zap.NewNop())
}

func lowSubmission() Submission {
	return Submission{
		SubjectID:    "s1",
		Municipality: "Utrecht",
		Answers: []models.Answer{
			{QuestionID: "q1", Score: 1},
			{QuestionID: "q3", Score: 1},
			{QuestionID: "q5", Score: 1},
		},
		CompletedAt: time.Date(2026, time.August, 20, 10, 0, 0, 0, time.UTC),
	}
}

func highSubmission() Submission {
	return Submission{
		SubjectID:    "s1",
		Municipality: "Utrecht",
		Answers: []models.Answer{
			{QuestionID: "q1", Score: 4},
			{QuestionID: "q2", Score: 4},
			{QuestionID: "q3", Score: 4},
			{QuestionID: "q4", Score: 3},
			{QuestionID: "q5", Score: 1},
		},
		Tasks: []models.SelectedTask{
			{TaskID: "huishouden", Difficulty: "zwaar", WeeklyHours: 12},
		},
		CompletedAt: time.Date(2026, time.August, 20, 10, 0, 0, 0, time.UTC),
	}
}

func TestCompleteAssessment_LowBurden(t *testing.T) {
	assessments := &fakeAssessmentStore{}
	alarms := &fakeAlarmStore{}
	svc := newIntakeService(t, assessments, alarms, nil)

	report, err := svc.CompleteAssessment(context.Background(), lowSubmission())

	require.NoError(t, err)
	assert.Equal(t, 3.0, report.TotalScore)
	assert.Equal(t, models.LevelLow, report.Level)
	assert.Empty(t, report.Alarms)
	require.Len(t, assessments.created, 1)
	assert.Equal(t, report.AssessmentID, assessments.created[0].AssessmentID)
	assert.Empty(t, alarms.created)

	// Advice for total level plus each scored domain.
	require.NotEmpty(t, report.Advice)
	assert.Equal(t, "totaal.LAAG", report.Advice[0].Key)
}

func TestCompleteAssessment_HighBurdenPersistsAlarms(t *testing.T) {
	assessments := &fakeAssessmentStore{}
	alarms := &fakeAlarmStore{}
	notifier := &fakeNotifier{}
	svc := newIntakeService(t, assessments, alarms, notifier)

	report, err := svc.CompleteAssessment(context.Background(), highSubmission())

	require.NoError(t, err)
	// 4+4+4+3+1 = 16 > 12.
	assert.Equal(t, 16.0, report.TotalScore)
	assert.Equal(t, models.LevelHigh, report.Level)

	require.NotEmpty(t, report.Alarms)
	assert.Equal(t, models.AlarmCriticalCombination, report.Alarms[0].AlarmType)
	assert.Equal(t, models.UrgencyCritical, report.Alarms[0].Urgency)
	assert.Len(t, alarms.created, len(report.Alarms))

	// The CRITICAL alarm went out over the webhook, exactly once.
	require.Len(t, notifier.notified, 1)
	assert.Equal(t, models.AlarmCriticalCombination, notifier.notified[0].AlarmType)
}

func TestCompleteAssessment_DedupeSkipsExistingAlarms(t *testing.T) {
	assessments := &fakeAssessmentStore{}
	alarms := &fakeAlarmStore{existing: map[string]bool{
		string(models.AlarmHighBurden): true,
	}}
	svc := newIntakeService(t, assessments, alarms, nil)

	report, err := svc.CompleteAssessment(context.Background(), highSubmission())

	require.NoError(t, err)
	for _, a := range report.Alarms {
		assert.NotEqual(t, models.AlarmHighBurden, a.AlarmType)
	}
	for _, a := range alarms.created {
		assert.NotEqual(t, models.AlarmHighBurden, a.AlarmType)
	}
}

func TestCompleteAssessment_ValidationRejects(t *testing.T) {
	svc := newIntakeService(t, &fakeAssessmentStore{}, &fakeAlarmStore{}, nil)

	_, err := svc.CompleteAssessment(context.Background(), Submission{Municipality: "Utrecht"})
	assert.Error(t, err)

	_, err = svc.CompleteAssessment(context.Background(), Submission{SubjectID: "s1"})
	assert.Error(t, err)

	sub := lowSubmission()
	sub.Answers = []models.Answer{{QuestionID: "q1", Score: -1}}
	_, err = svc.CompleteAssessment(context.Background(), sub)
	assert.Error(t, err)
}

func TestCompleteAssessment_StoreFailureAborts(t *testing.T) {
	assessments := &fakeAssessmentStore{err: errors.New("db down")}
	svc := newIntakeService(t, assessments, &fakeAlarmStore{}, nil)

	_, err := svc.CompleteAssessment(context.Background(), lowSubmission())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to store assessment")
}

func TestCompleteAssessment_AlarmInsertFailureDoesNotAbort(t *testing.T) {
	alarms := &fakeAlarmStore{createErr: errors.New("insert failed")}
	svc := newIntakeService(t, &fakeAssessmentStore{}, alarms, nil)

	report, err := svc.CompleteAssessment(context.Background(), highSubmission())

	require.NoError(t, err)
	assert.Empty(t, report.Alarms)
	assert.Equal(t, models.LevelHigh, report.Level)
}

func TestCompleteAssessment_NotifierFailureDoesNotAbort(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("webhook 500")}
	svc := newIntakeService(t, &fakeAssessmentStore{}, &fakeAlarmStore{}, notifier)

	report, err := svc.CompleteAssessment(context.Background(), highSubmission())

	require.NoError(t, err)
	assert.NotEmpty(t, report.Alarms)
}

func TestCompleteAssessment_PreviousScoreFlowsIntoDescription(t *testing.T) {
	assessments := &fakeAssessmentStore{previous: &models.Assessment{TotalScore: 10}}
	svc := newIntakeService(t, assessments, &fakeAlarmStore{}, nil)

	report, err := svc.CompleteAssessment(context.Background(), highSubmission())

	require.NoError(t, err)
	var found bool
	for _, a := range report.Alarms {
		if a.AlarmType == models.AlarmHighBurden {
			found = true
			assert.Contains(t, a.Description, "worsened from 10.0")
		}
	}
	assert.True(t, found)
}

func TestCompleteAssessment_TaskAdviceUsesDifficultyTier(t *testing.T) {
	svc := newIntakeService(t, &fakeAssessmentStore{}, &fakeAlarmStore{}, nil)

	report, err := svc.CompleteAssessment(context.Background(), highSubmission())

	require.NoError(t, err)
	var keys []string
	for _, item := range report.Advice {
		keys = append(keys, item.Key)
	}
	// Task difficulty "zwaar" selects the HOOG tier.
	assert.Contains(t, keys, "taak.huishouden.HOOG")
}

func TestCompleteAssessment_CareHoursSummed(t *testing.T) {
	assessments := &fakeAssessmentStore{}
	svc := newIntakeService(t, assessments, &fakeAlarmStore{}, nil)

	sub := lowSubmission()
	sub.Tasks = []models.SelectedTask{
		{TaskID: "huishouden", WeeklyHours: 6},
		{TaskID: "vervoer", WeeklyHours: 2.5},
	}

	report, err := svc.CompleteAssessment(context.Background(), sub)

	require.NoError(t, err)
	assert.Equal(t, 8.5, report.CareHours)
	assert.Equal(t, 8.5, assessments.created[0].CareHours)
}
