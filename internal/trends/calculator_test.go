package trends

import (
	"context"
	"testing"
	"time"

	"mantelzorg-engine/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeStore serves canned records and counts; the calculator never
// writes.
type fakeStore struct {
	records             []Record
	subjects            int
	subjectsAssessed    int
	subjectsWithRequest int
	err                 error
}

func (f *fakeStore) ListAssessments(_ context.Context, municipality string, from, to time.Time) ([]Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []Record
	for _, r := range f.records {
		if municipality != "" && r.Municipality != municipality {
			continue
		}
		if !from.IsZero() && r.CompletedAt.Before(from) {
			continue
		}
		if !to.IsZero() && r.CompletedAt.After(to) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeStore) CountSubjects(context.Context, string) (int, error) {
	return f.subjects, f.err
}

func (f *fakeStore) CountSubjectsWithAssessment(context.Context, string) (int, error) {
	return f.subjectsAssessed, f.err
}

func (f *fakeStore) CountSubjectsWithHelpRequest(context.Context, string) (int, error) {
	return f.subjectsWithRequest, f.err
}

func newTestCalculator(store *fakeStore, now time.Time) *Calculator {
	c := NewCalculator(store, zap.NewNop())
	c.now = func() time.Time { return now }
	return c
}

func record(subject string, score float64, level models.BurdenLevel, completed time.Time) Record {
	return Record{
		SubjectID:    subject,
		Municipality: "Utrecht",
		Score:        score,
		Level:        level,
		CompletedAt:  completed,
	}
}

func TestMonthlyTrend_TwelveZeroFilledMonths(t *testing.T) {
	now := time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{records: []Record{
		record("s1", 4, models.LevelLow, time.Date(2026, time.August, 3, 0, 0, 0, 0, time.UTC)),
		record("s2", 14, models.LevelHigh, time.Date(2026, time.August, 9, 0, 0, 0, 0, time.UTC)),
		record("s3", 8, models.LevelMedium, time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC)),
	}}
	c := newTestCalculator(store, now)

	trend, err := c.MonthlyTrend(context.Background(), "Utrecht")

	require.NoError(t, err)
	require.Len(t, trend.Months, 12)
	assert.Equal(t, "2025-09", trend.Months[0].Period)
	assert.Equal(t, "2026-08", trend.Months[11].Period)
	assert.Equal(t, 3, trend.RespondentCount)

	august := trend.Months[11]
	assert.Equal(t, 2, august.Count)
	assert.Equal(t, 9.0, august.MeanScore)
	assert.Equal(t, 1, august.Levels[models.LevelLow])
	assert.Equal(t, 1, august.Levels[models.LevelHigh])

	// Months without assessments are present with zero counts.
	assert.Equal(t, "2025-10", trend.Months[1].Period)
	assert.Equal(t, 0, trend.Months[1].Count)
	assert.Equal(t, 0.0, trend.Months[1].MeanScore)
}

func TestMonthlyTrend_FiltersMunicipality(t *testing.T) {
	now := time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC)
	store := &fakeStore{records: []Record{
		record("s1", 4, models.LevelLow, now.AddDate(0, 0, -1)),
		{SubjectID: "s9", Municipality: "Zwolle", Score: 15, Level: models.LevelHigh, CompletedAt: now.AddDate(0, 0, -1)},
	}}
	c := newTestCalculator(store, now)

	trend, err := c.MonthlyTrend(context.Background(), "Utrecht")

	require.NoError(t, err)
	assert.Equal(t, 1, trend.RespondentCount)
}

func TestSeasonal_AllFourQuarters(t *testing.T) {
	now := time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC)
	store := &fakeStore{records: []Record{
		record("s1", 6, models.LevelLow, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)),
		record("s2", 10, models.LevelMedium, time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC)),
		record("s3", 14, models.LevelHigh, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)),
	}}
	c := newTestCalculator(store, now)

	seasonal, err := c.Seasonal(context.Background(), "Utrecht")

	require.NoError(t, err)
	require.Len(t, seasonal.Quarters, 4)
	assert.Equal(t, "Q1", seasonal.Quarters[0].Period)
	assert.Equal(t, 2, seasonal.Quarters[0].Count)
	assert.Equal(t, 10.0, seasonal.Quarters[0].MeanScore)
	assert.Equal(t, 0, seasonal.Quarters[1].Count)
	assert.Equal(t, 0, seasonal.Quarters[2].Count)
	assert.Equal(t, 1, seasonal.Quarters[3].Count)
}

func TestYearOverYear_SignedDelta(t *testing.T) {
	now := time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC)
	store := &fakeStore{records: []Record{
		record("s1", 12, models.LevelMedium, time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)),
		record("s2", 14, models.LevelHigh, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)),
		record("s1", 9, models.LevelMedium, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)),
	}}
	c := newTestCalculator(store, now)

	yoy, err := c.YearOverYear(context.Background(), "Utrecht")

	require.NoError(t, err)
	assert.Equal(t, 2026, yoy.Current.Year)
	assert.Equal(t, 1, yoy.Current.Count)
	assert.Equal(t, 9.0, yoy.Current.MeanScore)
	assert.Equal(t, 2025, yoy.Previous.Year)
	assert.Equal(t, 2, yoy.Previous.Count)
	assert.Equal(t, 13.0, yoy.Previous.MeanScore)
	assert.Equal(t, -4.0, yoy.Delta)
	assert.Equal(t, 2, yoy.RespondentCount)
}

func TestFunnel_RatesOnSubjectBase(t *testing.T) {
	store := &fakeStore{subjects: 40, subjectsAssessed: 30, subjectsWithRequest: 6}
	c := newTestCalculator(store, time.Now())

	funnel, err := c.Funnel(context.Background(), "Utrecht")

	require.NoError(t, err)
	assert.Equal(t, 75.0, funnel.AssessmentRate)
	assert.Equal(t, 15.0, funnel.HelpRequestRate)
	assert.LessOrEqual(t, funnel.HelpRequestRate, funnel.AssessmentRate)
}

func TestFunnel_ZeroSubjects(t *testing.T) {
	store := &fakeStore{}
	c := newTestCalculator(store, time.Now())

	funnel, err := c.Funnel(context.Background(), "Utrecht")

	require.NoError(t, err)
	assert.Equal(t, 0.0, funnel.AssessmentRate)
	assert.Equal(t, 0.0, funnel.HelpRequestRate)
}

func TestImprovements(t *testing.T) {
	base := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	store := &fakeStore{records: []Record{
		// s1 improved: 14 -> 8.
		record("s1", 14, models.LevelHigh, base),
		record("s1", 8, models.LevelMedium, base.AddDate(0, 3, 0)),
		// s2 worsened.
		record("s2", 6, models.LevelLow, base),
		record("s2", 11, models.LevelMedium, base.AddDate(0, 2, 0)),
		// s3 has one assessment, not eligible.
		record("s3", 9, models.LevelMedium, base),
	}}
	c := newTestCalculator(store, time.Now())

	metrics, err := c.Improvements(context.Background(), "Utrecht")

	require.NoError(t, err)
	assert.Equal(t, 2, metrics.EligibleSubjects)
	assert.Equal(t, 1, metrics.ImprovedSubjects)
}

func TestImprovements_OrderIndependent(t *testing.T) {
	base := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	store := &fakeStore{records: []Record{
		// Latest record listed first.
		record("s1", 8, models.LevelMedium, base.AddDate(0, 3, 0)),
		record("s1", 14, models.LevelHigh, base),
	}}
	c := newTestCalculator(store, time.Now())

	metrics, err := c.Improvements(context.Background(), "Utrecht")

	require.NoError(t, err)
	assert.Equal(t, 1, metrics.ImprovedSubjects)
}

func TestMeanScore_Rounding(t *testing.T) {
	records := []Record{
		{Score: 10}, {Score: 11}, {Score: 11},
	}
	// 32/3 = 10.666..., rounded to one decimal.
	assert.Equal(t, 10.7, meanScore(records))
	assert.Equal(t, 0.0, meanScore(nil))
}

func TestDistinctSubjects(t *testing.T) {
	c := newTestCalculator(&fakeStore{records: []Record{
		record("s1", 4, models.LevelLow, time.Now()),
		record("s1", 6, models.LevelLow, time.Now()),
		record("s2", 9, models.LevelMedium, time.Now()),
	}}, time.Now())

	n, err := c.DistinctSubjects(context.Background(), "Utrecht", time.Time{}, time.Time{})

	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMonthlyTrend_StoreError(t *testing.T) {
	c := newTestCalculator(&fakeStore{err: assert.AnError}, time.Now())

	_, err := c.MonthlyTrend(context.Background(), "Utrecht")

	assert.Error(t, err)
}
