package service

import (
	"context"
	"fmt"
	"time"

	"mantelzorg-engine/internal/advice"
	"mantelzorg-engine/internal/config"
	"mantelzorg-engine/internal/evaluator"
	"mantelzorg-engine/internal/models"
	"mantelzorg-engine/internal/scoring"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AssessmentStore is the persistence the intake pipeline needs.
type AssessmentStore interface {
	CreateAssessment(ctx context.Context, a *models.Assessment) error
	GetPreviousAssessment(ctx context.Context, subjectID string, before time.Time) (*models.Assessment, error)
}

// AlarmStore persists alarm events with the dedupe check.
type AlarmStore interface {
	CreateAlarmEvent(ctx context.Context, event *models.AlarmEvent) error
	ExistsForAssessment(ctx context.Context, assessmentID string, alarmType models.AlarmType) (bool, error)
}

// AdviceProvider resolves advice keys.
type AdviceProvider interface {
	Select(ctx context.Context, key string) (models.AdviceEntry, bool)
}

// CriticalNotifier pushes CRITICAL alarms to an external channel.
type CriticalNotifier interface {
	NotifyCritical(ctx context.Context, event models.AlarmEvent) error
}

// Submission is one completed questionnaire as handed over by the
// surrounding application.
type Submission struct {
	SubjectID    string
	Municipality string
	Answers      []models.Answer
	Tasks        []models.SelectedTask
	CompletedAt  time.Time // zero means now
}

// AdviceItem is one guidance block in the personal report.
type AdviceItem struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Text  string `json:"text"`
}

// PersonalReport is the respondent-facing result of one submission.
type PersonalReport struct {
	AssessmentID string               `json:"assessment_id"`
	TotalScore   float64              `json:"total_score"`
	Level        models.BurdenLevel   `json:"level"`
	DomainScores []models.DomainScore `json:"domain_scores"`
	CareHours    float64              `json:"care_hours"`
	Advice       []AdviceItem         `json:"advice"`
	Alarms       []models.AlarmEvent  `json:"alarms"`
}

// IntakeService runs the full submission pipeline: persist the
// assessment, score it, aggregate domains, evaluate and persist alarms,
// and assemble the personal report. The whole call is meant to run
// inside the caller's transaction boundary so alarm creation
// happens-before the assessment's alarms become readable.
type IntakeService struct {
	thresholds    scoring.Thresholds
	questionnaire *config.QuestionnaireDefinition
	evaluator     *evaluator.Evaluator
	advice        AdviceProvider
	assessments   AssessmentStore
	alarms        AlarmStore
	notifier      CriticalNotifier
	logger        *zap.Logger
}

// NewIntakeService wires the pipeline. notifier may be nil (no webhook
// configured).
func NewIntakeService(
	thresholds scoring.Thresholds,
	questionnaire *config.QuestionnaireDefinition,
	eval *evaluator.Evaluator,
	adviceProvider AdviceProvider,
	assessments AssessmentStore,
	alarms AlarmStore,
	notifier CriticalNotifier,
	logger *zap.Logger,
) *IntakeService {
	return &IntakeService{
		thresholds:    thresholds,
		questionnaire: questionnaire,
		evaluator:     eval,
		advice:        adviceProvider,
		assessments:   assessments,
		alarms:        alarms,
		notifier:      notifier,
		logger:        logger,
	}
}

// CompleteAssessment processes one submission end to end. Validation
// errors reject the whole submission: the caller never receives a
// partial score.
func (s *IntakeService) CompleteAssessment(ctx context.Context, sub Submission) (*PersonalReport, error) {
	if sub.SubjectID == "" {
		return nil, fmt.Errorf("subject_id is required")
	}
	if sub.Municipality == "" {
		return nil, fmt.Errorf("municipality is required")
	}

	completedAt := sub.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now()
	}

	// 1. Score and classify.
	result, err := scoring.Score(sub.Answers, s.thresholds)
	if err != nil {
		return nil, fmt.Errorf("invalid submission: %w", err)
	}

	// 2. Per-domain aggregation.
	domainScores, err := scoring.AggregateDomains(sub.Answers, s.questionnaire, s.thresholds)
	if err != nil {
		return nil, fmt.Errorf("invalid submission: %w", err)
	}

	careHours := 0.0
	for _, t := range sub.Tasks {
		careHours += t.WeeklyHours
	}

	// 3. Persist the assessment.
	assessment := &models.Assessment{
		AssessmentID: uuid.New().String(),
		SubjectID:    sub.SubjectID,
		Municipality: sub.Municipality,
		Answers:      sub.Answers,
		TotalScore:   result.Total,
		Level:        result.Level,
		DomainScores: domainScores,
		Tasks:        sub.Tasks,
		CareHours:    careHours,
		CompletedAt:  completedAt,
		CreatedAt:    time.Now(),
	}
	if err := s.assessments.CreateAssessment(ctx, assessment); err != nil {
		return nil, fmt.Errorf("failed to store assessment: %w", err)
	}

	// 4. Previous score, for trend wording. Absence is not an error.
	var previousScore *float64
	previous, err := s.assessments.GetPreviousAssessment(ctx, sub.SubjectID, completedAt)
	if err != nil {
		s.logger.Warn("Failed to load previous assessment",
			zap.String("subject_id", sub.SubjectID),
			zap.Error(err),
		)
	} else if previous != nil {
		previousScore = &previous.TotalScore
	}

	// 5. Evaluate alarm rules and persist what fired.
	alarms := s.evaluator.Evaluate(evaluator.Input{
		AssessmentID:  assessment.AssessmentID,
		SubjectID:     sub.SubjectID,
		Municipality:  sub.Municipality,
		Score:         result,
		Domains:       domainScores,
		Tasks:         sub.Tasks,
		PreviousScore: previousScore,
	})
	stored := s.storeAlarms(ctx, assessment.AssessmentID, alarms)

	// 6. Assemble the personal report.
	report := &PersonalReport{
		AssessmentID: assessment.AssessmentID,
		TotalScore:   result.Total,
		Level:        result.Level,
		DomainScores: domainScores,
		CareHours:    careHours,
		Advice:       s.collectAdvice(ctx, result.Level, domainScores, sub.Tasks),
		Alarms:       stored,
	}

	s.logger.Info("Assessment completed",
		zap.String("assessment_id", assessment.AssessmentID),
		zap.String("municipality", sub.Municipality),
		zap.Float64("total_score", result.Total),
		zap.String("level", string(result.Level)),
		zap.Int("alarms", len(stored)),
	)

	return report, nil
}

// storeAlarms inserts fired alarms, skipping any already recorded for
// this assessment (dedupe key assessment_id + alarm_type). A failed
// insert is logged and does not abort the remaining alarms.
func (s *IntakeService) storeAlarms(ctx context.Context, assessmentID string, alarms []models.AlarmEvent) []models.AlarmEvent {
	stored := make([]models.AlarmEvent, 0, len(alarms))
	for _, alarm := range alarms {
		exists, err := s.alarms.ExistsForAssessment(ctx, assessmentID, alarm.AlarmType)
		if err != nil {
			s.logger.Error("Failed to check alarm dedupe",
				zap.String("assessment_id", assessmentID),
				zap.String("alarm_type", string(alarm.AlarmType)),
				zap.Error(err),
			)
			continue
		}
		if exists {
			continue
		}

		if err := s.alarms.CreateAlarmEvent(ctx, &alarm); err != nil {
			s.logger.Error("Failed to create alarm event",
				zap.String("event_id", alarm.EventID),
				zap.String("alarm_type", string(alarm.AlarmType)),
				zap.Error(err),
			)
			continue
		}
		stored = append(stored, alarm)

		s.logger.Info("Alarm event created",
			zap.String("event_id", alarm.EventID),
			zap.String("alarm_type", string(alarm.AlarmType)),
			zap.String("urgency", string(alarm.Urgency)),
		)

		if alarm.Urgency == models.UrgencyCritical && s.notifier != nil {
			if err := s.notifier.NotifyCritical(ctx, alarm); err != nil {
				// Notification failures never fail the pipeline.
				s.logger.Error("Failed to notify critical alarm",
					zap.String("event_id", alarm.EventID),
					zap.Error(err),
				)
			}
		}
	}
	return stored
}

// collectAdvice looks up the advice texts for the total level, each
// scored domain, and each selected task. Missing keys are silently
// skipped: the caller supplies fallback copy.
func (s *IntakeService) collectAdvice(ctx context.Context, total models.BurdenLevel, domains []models.DomainScore, tasks []models.SelectedTask) []AdviceItem {
	var items []AdviceItem

	appendEntry := func(key string) {
		if entry, ok := s.advice.Select(ctx, key); ok {
			items = append(items, AdviceItem{Key: entry.Key, Label: entry.Label, Text: entry.Text})
		}
	}

	appendEntry(advice.TotalKey(total))
	for _, d := range domains {
		appendEntry(advice.DomainKey(d.Domain, d.Level))
	}
	for _, t := range tasks {
		appendEntry(advice.TaskKey(t.TaskID, taskLevel(t, total)))
	}

	return items
}

// taskLevel maps a task's difficulty tier onto the advice level scale;
// an unknown tier falls back to the total burden level.
func taskLevel(t models.SelectedTask, total models.BurdenLevel) models.BurdenLevel {
	switch t.Difficulty {
	case "licht":
		return models.LevelLow
	case "gemiddeld":
		return models.LevelMedium
	case "zwaar":
		return models.LevelHigh
	default:
		return total
	}
}
