package models

import (
	"time"
)

// BurdenLevel is the ordinal classification of caregiver strain.
// The Dutch labels are part of the product contract: advice keys and
// persisted rows both use them.
type BurdenLevel string

const (
	LevelLow    BurdenLevel = "LAAG"
	LevelMedium BurdenLevel = "GEMIDDELD"
	LevelHigh   BurdenLevel = "HOOG"
)

// Rank returns the position of the level in the total order LAAG < GEMIDDELD < HOOG.
func (l BurdenLevel) Rank() int {
	switch l {
	case LevelLow:
		return 0
	case LevelMedium:
		return 1
	case LevelHigh:
		return 2
	default:
		return -1
	}
}

// Valid reports whether the level is one of the three known values.
func (l BurdenLevel) Valid() bool {
	return l.Rank() >= 0
}

// Answer is one question response belonging to exactly one Assessment.
// QuestionText is snapshotted at submission time so reports stay stable
// when the questionnaire is edited later.
type Answer struct {
	QuestionID   string   `json:"question_id" db:"question_id"`
	QuestionText string   `json:"question_text" db:"question_text"`
	Response     string   `json:"response" db:"response"`
	Score        float64  `json:"score" db:"score"`
	Weight       *float64 `json:"weight,omitempty" db:"weight"` // nil means 1.0
}

// EffectiveWeight returns the answer weight, defaulting to 1.0 when absent.
func (a Answer) EffectiveWeight() float64 {
	if a.Weight == nil {
		return 1.0
	}
	return *a.Weight
}

// DomainScore is the derived per-domain load. Percentage is 0-100,
// rounded to one decimal. Computed on demand, persisted only as a
// snapshot on the owning Assessment row.
type DomainScore struct {
	Domain     string      `json:"domain" db:"domain"`
	Percentage float64     `json:"percentage" db:"percentage"`
	Level      BurdenLevel `json:"level" db:"level"`
}

// SelectedTask is one care task the respondent selected, with its
// difficulty tier and estimated weekly hours. Task selection feeds the
// care-hours alarm rule and task-level advice keys.
type SelectedTask struct {
	TaskID      string  `json:"task_id" db:"task_id"`
	Difficulty  string  `json:"difficulty" db:"difficulty"` // licht, gemiddeld, zwaar
	WeeklyHours float64 `json:"weekly_hours" db:"weekly_hours"`
}

// Assessment is one completed questionnaire instance (corresponds to the
// assessments table). Immutable after completion: a re-test creates a new
// row, never an edit. Rows are retained indefinitely for trend history.
type Assessment struct {
	AssessmentID string         `json:"assessment_id" db:"assessment_id"`
	SubjectID    string         `json:"subject_id" db:"subject_id"`
	Municipality string         `json:"municipality" db:"municipality"`
	Answers      []Answer       `json:"answers" db:"answers"` // JSONB
	TotalScore   float64        `json:"total_score" db:"total_score"`
	Level        BurdenLevel    `json:"level" db:"level"`
	DomainScores []DomainScore  `json:"domain_scores" db:"domain_scores"` // JSONB snapshot
	Tasks        []SelectedTask `json:"tasks" db:"tasks"`                 // JSONB
	CareHours    float64        `json:"care_hours" db:"care_hours"`       // total weekly estimate
	CompletedAt  time.Time      `json:"completed_at" db:"completed_at"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
}
