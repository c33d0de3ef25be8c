// Package trends computes the municipal time-bucketed aggregates and
// effectiveness metrics over read-only assessment history. Results are
// raw: the k-anonymity gate is applied by the stats service at the query
// boundary.
package trends

import (
	"context"
	"fmt"
	"math"
	"time"

	"mantelzorg-engine/internal/models"

	"go.uber.org/zap"
)

// Calculator computes trend and effectiveness aggregates.
type Calculator struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewCalculator creates a calculator over a history store.
func NewCalculator(store Store, logger *zap.Logger) *Calculator {
	return &Calculator{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// MonthlyTrend returns the trailing 12 calendar months (including the
// current month), zero-filling months without assessments.
func (c *Calculator) MonthlyTrend(ctx context.Context, municipality string) (*MonthlyTrend, error) {
	now := c.now()
	y, m, _ := now.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, now.Location()).AddDate(0, -11, 0)

	records, err := c.store.ListAssessments(ctx, municipality, start, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	c.logger.Debug("Computing monthly trend",
		zap.String("municipality", municipality),
		zap.Int("records", len(records)),
	)

	byPeriod := map[string][]Record{}
	for _, r := range records {
		byPeriod[r.CompletedAt.Format("2006-01")] = append(byPeriod[r.CompletedAt.Format("2006-01")], r)
	}

	months := make([]Bucket, 0, 12)
	for i := 0; i < 12; i++ {
		period := start.AddDate(0, i, 0).Format("2006-01")
		months = append(months, newBucket(period, byPeriod[period]))
	}

	return &MonthlyTrend{
		Municipality:    municipality,
		Months:          months,
		RespondentCount: distinctSubjects(records),
	}, nil
}

// Seasonal buckets all-time records into the 4 calendar quarters.
func (c *Calculator) Seasonal(ctx context.Context, municipality string) (*SeasonalAggregate, error) {
	records, err := c.store.ListAssessments(ctx, municipality, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}

	byQuarter := map[string][]Record{}
	for _, r := range records {
		q := fmt.Sprintf("Q%d", (int(r.CompletedAt.Month())-1)/3+1)
		byQuarter[q] = append(byQuarter[q], r)
	}

	quarters := make([]Bucket, 0, 4)
	for i := 1; i <= 4; i++ {
		period := fmt.Sprintf("Q%d", i)
		quarters = append(quarters, newBucket(period, byQuarter[period]))
	}

	return &SeasonalAggregate{
		Municipality:    municipality,
		Quarters:        quarters,
		RespondentCount: distinctSubjects(records),
	}, nil
}

// YearOverYear compares the current calendar year with the previous one.
func (c *Calculator) YearOverYear(ctx context.Context, municipality string) (*YearComparison, error) {
	now := c.now()
	currentYear := now.Year()
	start := time.Date(currentYear-1, time.January, 1, 0, 0, 0, 0, now.Location())

	records, err := c.store.ListAssessments(ctx, municipality, start, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}

	var current, previous []Record
	for _, r := range records {
		switch r.CompletedAt.Year() {
		case currentYear:
			current = append(current, r)
		case currentYear - 1:
			previous = append(previous, r)
		}
	}

	cur := YearBucket{Year: currentYear, Count: len(current), MeanScore: meanScore(current)}
	prev := YearBucket{Year: currentYear - 1, Count: len(previous), MeanScore: meanScore(previous)}

	return &YearComparison{
		Municipality:    municipality,
		Current:         cur,
		Previous:        prev,
		Delta:           round1(cur.MeanScore - prev.MeanScore),
		RespondentCount: distinctSubjects(records),
	}, nil
}

// Funnel computes the registration -> assessment -> help-request funnel.
// Division by zero truncates to 0 rather than raising.
func (c *Calculator) Funnel(ctx context.Context, municipality string) (*FunnelMetrics, error) {
	subjects, err := c.store.CountSubjects(ctx, municipality)
	if err != nil {
		return nil, fmt.Errorf("failed to count subjects: %w", err)
	}
	withAssessment, err := c.store.CountSubjectsWithAssessment(ctx, municipality)
	if err != nil {
		return nil, fmt.Errorf("failed to count subjects with assessment: %w", err)
	}
	withHelpRequest, err := c.store.CountSubjectsWithHelpRequest(ctx, municipality)
	if err != nil {
		return nil, fmt.Errorf("failed to count subjects with help request: %w", err)
	}

	return &FunnelMetrics{
		Municipality:    municipality,
		Subjects:        subjects,
		WithAssessment:  withAssessment,
		WithHelpRequest: withHelpRequest,
		AssessmentRate:  percentage(withAssessment, subjects),
		HelpRequestRate: percentage(withHelpRequest, subjects),
	}, nil
}

// Improvements counts subjects with at least two assessments whose most
// recent score is lower than their first recorded score.
func (c *Calculator) Improvements(ctx context.Context, municipality string) (*ImprovementMetrics, error) {
	records, err := c.store.ListAssessments(ctx, municipality, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}

	type firstLast struct {
		first, last Record
		count       int
	}
	bySubject := map[string]*firstLast{}
	for _, r := range records {
		fl, ok := bySubject[r.SubjectID]
		if !ok {
			bySubject[r.SubjectID] = &firstLast{first: r, last: r, count: 1}
			continue
		}
		fl.count++
		if r.CompletedAt.Before(fl.first.CompletedAt) {
			fl.first = r
		}
		if r.CompletedAt.After(fl.last.CompletedAt) {
			fl.last = r
		}
	}

	metrics := &ImprovementMetrics{Municipality: municipality}
	for _, fl := range bySubject {
		if fl.count < 2 {
			continue
		}
		metrics.EligibleSubjects++
		if fl.last.Score < fl.first.Score {
			metrics.ImprovedSubjects++
		}
	}

	return metrics, nil
}

// DistinctSubjects exposes the respondent count of an arbitrary record
// window, used by callers gating composite reports.
func (c *Calculator) DistinctSubjects(ctx context.Context, municipality string, from, to time.Time) (int, error) {
	records, err := c.store.ListAssessments(ctx, municipality, from, to)
	if err != nil {
		return 0, fmt.Errorf("failed to list assessments: %w", err)
	}
	return distinctSubjects(records), nil
}

func newBucket(period string, records []Record) Bucket {
	levels := map[models.BurdenLevel]int{}
	for _, r := range records {
		levels[r.Level]++
	}
	return Bucket{
		Period:    period,
		Count:     len(records),
		MeanScore: meanScore(records),
		Levels:    levels,
	}
}

func meanScore(records []Record) float64 {
	if len(records) == 0 {
		return 0
	}
	sum := 0.0
	for _, r := range records {
		sum += r.Score
	}
	return round1(sum / float64(len(records)))
}

func percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round1(100 * float64(part) / float64(whole))
}

func distinctSubjects(records []Record) int {
	seen := map[string]struct{}{}
	for _, r := range records {
		seen[r.SubjectID] = struct{}{}
	}
	return len(seen)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
