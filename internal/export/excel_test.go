package export

import (
	"testing"

	"mantelzorg-engine/internal/models"
	"mantelzorg-engine/internal/trends"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testTrend() *trends.MonthlyTrend {
	return &trends.MonthlyTrend{
		Municipality: "Utrecht",
		Months: []trends.Bucket{
			{Period: "2026-07", Count: 14, MeanScore: 8.3, Levels: map[models.BurdenLevel]int{
				models.LevelLow: 4, models.LevelMedium: 7, models.LevelHigh: 3,
			}},
			{Period: "2026-08", Count: 0, MeanScore: 0, Levels: map[models.BurdenLevel]int{}},
		},
		RespondentCount: 14,
	}
}

func TestMunicipalTrendReport(t *testing.T) {
	e := NewExcelExporter(zap.NewNop())

	seasonal := &trends.SeasonalAggregate{
		Municipality: "Utrecht",
		Quarters: []trends.Bucket{
			{Period: "Q1", Count: 20, MeanScore: 9.1, Levels: map[models.BurdenLevel]int{models.LevelHigh: 6}},
			{Period: "Q2", Count: 0, Levels: map[models.BurdenLevel]int{}},
			{Period: "Q3", Count: 0, Levels: map[models.BurdenLevel]int{}},
			{Period: "Q4", Count: 5, MeanScore: 7.0, Levels: map[models.BurdenLevel]int{models.LevelLow: 5}},
		},
	}

	f, err := e.MunicipalTrendReport(testTrend(), seasonal)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Maandtrend", "Seizoenen"}, f.GetSheetList())

	header, err := f.GetCellValue("Maandtrend", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Periode", header)

	period, err := f.GetCellValue("Maandtrend", "A2")
	require.NoError(t, err)
	assert.Equal(t, "2026-07", period)

	count, err := f.GetCellValue("Maandtrend", "B2")
	require.NoError(t, err)
	assert.Equal(t, "14", count)

	mean, err := f.GetCellValue("Maandtrend", "C2")
	require.NoError(t, err)
	assert.Equal(t, "8.3", mean)

	high, err := f.GetCellValue("Maandtrend", "F2")
	require.NoError(t, err)
	assert.Equal(t, "3", high)

	quarter, err := f.GetCellValue("Seizoenen", "A5")
	require.NoError(t, err)
	assert.Equal(t, "Q4", quarter)
}

func TestMunicipalTrendReport_WithoutSeasonal(t *testing.T) {
	e := NewExcelExporter(zap.NewNop())

	f, err := e.MunicipalTrendReport(testTrend(), nil)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Maandtrend"}, f.GetSheetList())
}

func TestMunicipalTrendReport_NilTrend(t *testing.T) {
	e := NewExcelExporter(zap.NewNop())

	_, err := e.MunicipalTrendReport(nil, nil)

	assert.Error(t, err)
}
