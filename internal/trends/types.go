package trends

import (
	"context"
	"time"

	"mantelzorg-engine/internal/models"
)

// Record is the slice of an assessment the calculator needs: who, where,
// scored what, when. Read-only historical data.
type Record struct {
	SubjectID    string
	Municipality string
	Score        float64
	Level        models.BurdenLevel
	CompletedAt  time.Time
}

// Store is the read contract the calculator consumes. An empty
// municipality means platform-wide. Zero from/to mean an unbounded
// window.
type Store interface {
	ListAssessments(ctx context.Context, municipality string, from, to time.Time) ([]Record, error)
	CountSubjects(ctx context.Context, municipality string) (int, error)
	CountSubjectsWithAssessment(ctx context.Context, municipality string) (int, error)
	CountSubjectsWithHelpRequest(ctx context.Context, municipality string) (int, error)
}

// Bucket is one time-bucketed aggregate: period key, respondent count,
// mean score (one decimal) and count per level. Fully derived, never
// persisted.
type Bucket struct {
	Period    string                     `json:"period"`
	Count     int                        `json:"count"`
	MeanScore float64                    `json:"mean_score"`
	Levels    map[models.BurdenLevel]int `json:"levels"`
}

// MonthlyTrend is the trailing-12-months series, empty months zero-filled.
type MonthlyTrend struct {
	Municipality    string   `json:"municipality,omitempty"`
	Months          []Bucket `json:"months"`
	RespondentCount int      `json:"respondent_count"`
}

// SeasonalAggregate buckets all-time records into the 4 calendar quarters.
type SeasonalAggregate struct {
	Municipality    string   `json:"municipality,omitempty"`
	Quarters        []Bucket `json:"quarters"`
	RespondentCount int      `json:"respondent_count"`
}

// YearBucket is one side of the year-over-year comparison.
type YearBucket struct {
	Year      int     `json:"year"`
	Count     int     `json:"count"`
	MeanScore float64 `json:"mean_score"`
}

// YearComparison compares the current calendar year with the previous
// one. Delta is signed: current mean minus previous mean.
type YearComparison struct {
	Municipality    string     `json:"municipality,omitempty"`
	Current         YearBucket `json:"current"`
	Previous        YearBucket `json:"previous"`
	Delta           float64    `json:"delta"`
	RespondentCount int        `json:"respondent_count"`
}

// FunnelMetrics is the effectiveness funnel: registered subjects, those
// with at least one completed assessment, and those who additionally
// filed a help request. Both rates are percentages of the subject count,
// so the funnel is monotonically non-increasing.
type FunnelMetrics struct {
	Municipality    string  `json:"municipality,omitempty"`
	Subjects        int     `json:"subjects"`
	WithAssessment  int     `json:"with_assessment"`
	WithHelpRequest int     `json:"with_help_request"`
	AssessmentRate  float64 `json:"assessment_rate"`
	HelpRequestRate float64 `json:"help_request_rate"`
}

// ImprovementMetrics counts subjects with at least two assessments whose
// most recent score is lower (improved) than their first.
type ImprovementMetrics struct {
	Municipality     string `json:"municipality,omitempty"`
	EligibleSubjects int    `json:"eligible_subjects"`
	ImprovedSubjects int    `json:"improved_subjects"`
}
