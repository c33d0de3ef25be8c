// Package export renders municipal reports as spreadsheets for
// coordinators. It only ever receives aggregates that already passed the
// k-anonymity gate: the export path has no way to reach ungated data.
package export

import (
	"fmt"

	"mantelzorg-engine/internal/models"
	"mantelzorg-engine/internal/trends"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// ExcelExporter writes trend reports as xlsx workbooks.
type ExcelExporter struct {
	logger *zap.Logger
}

// NewExcelExporter creates the exporter.
func NewExcelExporter(logger *zap.Logger) *ExcelExporter {
	return &ExcelExporter{logger: logger}
}

var levelColumns = []models.BurdenLevel{
	models.LevelLow,
	models.LevelMedium,
	models.LevelHigh,
}

// MunicipalTrendReport builds a workbook with the monthly trend and the
// seasonal aggregate. The caller owns closing the returned file.
func (e *ExcelExporter) MunicipalTrendReport(trend *trends.MonthlyTrend, seasonal *trends.SeasonalAggregate) (*excelize.File, error) {
	if trend == nil {
		return nil, fmt.Errorf("monthly trend is required")
	}

	f := excelize.NewFile()

	const monthSheet = "Maandtrend"
	f.SetSheetName(f.GetSheetName(0), monthSheet)
	if err := writeBucketSheet(f, monthSheet, trend.Months); err != nil {
		f.Close()
		return nil, err
	}

	if seasonal != nil {
		const seasonSheet = "Seizoenen"
		if _, err := f.NewSheet(seasonSheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet: %w", err)
		}
		if err := writeBucketSheet(f, seasonSheet, seasonal.Quarters); err != nil {
			f.Close()
			return nil, err
		}
	}

	e.logger.Debug("Municipal trend report built",
		zap.String("municipality", trend.Municipality),
		zap.Int("months", len(trend.Months)),
	)

	return f, nil
}

func writeBucketSheet(f *excelize.File, sheet string, buckets []trends.Bucket) error {
	headers := []interface{}{"Periode", "Respondenten", "Gemiddelde score"}
	for _, level := range levelColumns {
		headers = append(headers, string(level))
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, b := range buckets {
		row := []interface{}{b.Period, b.Count, b.MeanScore}
		for _, level := range levelColumns {
			row = append(row, b.Levels[level])
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write bucket row: %w", err)
		}
	}

	return nil
}
