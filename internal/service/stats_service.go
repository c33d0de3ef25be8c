package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"mantelzorg-engine/internal/export"
	"mantelzorg-engine/internal/models"
	"mantelzorg-engine/internal/privacy"
	"mantelzorg-engine/internal/trends"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// AlarmCounter provides the aggregate alarm counts for municipal views.
type AlarmCounter interface {
	CountByUrgency(ctx context.Context, municipality string, openOnly bool) (map[models.Urgency]int, error)
	CountDistinctSubjects(ctx context.Context, municipality string) (int, error)
}

// HelpRequestCounter provides help-request aggregates.
type HelpRequestCounter interface {
	CountHelpRequests(ctx context.Context, municipality string) (int, error)
	CountSubjectsWithHelpRequest(ctx context.Context, municipality string) (int, error)
}

// DashboardSummary is the municipal headline view.
type DashboardSummary struct {
	Municipality string                     `json:"municipality"`
	Respondents  int                        `json:"respondents"`
	Assessments  int                        `json:"assessments"`
	MeanScore    float64                    `json:"mean_score"`
	Levels       map[models.BurdenLevel]int `json:"levels"`
	OpenAlarms   map[models.Urgency]int     `json:"open_alarms"`
}

// AlarmSummary is the municipal alarm workload view.
type AlarmSummary struct {
	Municipality string                 `json:"municipality"`
	Open         map[models.Urgency]int `json:"open"`
	Total        map[models.Urgency]int `json:"total"`
}

// HelpRequestSummary is the municipal help-request view.
type HelpRequestSummary struct {
	Municipality            string `json:"municipality"`
	HelpRequests            int    `json:"help_requests"`
	SubjectsWithHelpRequest int    `json:"subjects_with_help_request"`
}

// EffectivenessReport bundles the funnel and the improvement count.
type EffectivenessReport struct {
	Funnel      trends.FunnelMetrics      `json:"funnel"`
	Improvement trends.ImprovementMetrics `json:"improvement"`
}

// StatsService answers every municipality-scoped aggregate query. The
// k-anonymity gate is applied here, at the outermost boundary, for every
// view: a missed application point would be a privacy defect, so no
// aggregate leaves this service without passing privacy.Gate.
type StatsService struct {
	calc         *trends.Calculator
	history      trends.Store
	alarms       AlarmCounter
	helpRequests HelpRequestCounter
	exporter     *export.ExcelExporter
	minimumK     int
	logger       *zap.Logger
}

// NewStatsService creates the service.
func NewStatsService(
	calc *trends.Calculator,
	history trends.Store,
	alarms AlarmCounter,
	helpRequests HelpRequestCounter,
	exporter *export.ExcelExporter,
	minimumK int,
	logger *zap.Logger,
) *StatsService {
	return &StatsService{
		calc:         calc,
		history:      history,
		alarms:       alarms,
		helpRequests: helpRequests,
		exporter:     exporter,
		minimumK:     minimumK,
		logger:       logger,
	}
}

// gate wraps privacy.Gate with refusal logging so withheld releases are
// auditable.
func (s *StatsService) gate(municipality string, view string, count int) *privacy.InsufficientCohort {
	refusal := privacy.Gate(count, s.minimumK)
	if refusal != nil {
		s.logger.Info("Aggregate withheld below cohort minimum",
			zap.String("municipality", municipality),
			zap.String("view", view),
			zap.Int("count", count),
			zap.Int("minimum", s.minimumK),
		)
	}
	return refusal
}

// MonthlyTrend returns the trailing-12-months series, or the
// insufficient-cohort refusal. The gate covers the whole series: no
// partial months are released even when single buckets would qualify.
func (s *StatsService) MonthlyTrend(ctx context.Context, municipality string) (*trends.MonthlyTrend, *privacy.InsufficientCohort, error) {
	trend, err := s.calc.MonthlyTrend(ctx, municipality)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute monthly trend: %w", err)
	}
	if refusal := s.gate(municipality, "monthly_trend", trend.RespondentCount); refusal != nil {
		return nil, refusal, nil
	}
	return trend, nil, nil
}

// Seasonal returns the all-time quarterly aggregate behind the gate.
func (s *StatsService) Seasonal(ctx context.Context, municipality string) (*trends.SeasonalAggregate, *privacy.InsufficientCohort, error) {
	seasonal, err := s.calc.Seasonal(ctx, municipality)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute seasonal aggregate: %w", err)
	}
	if refusal := s.gate(municipality, "seasonal", seasonal.RespondentCount); refusal != nil {
		return nil, refusal, nil
	}
	return seasonal, nil, nil
}

// YearOverYear returns the year comparison behind the gate.
func (s *StatsService) YearOverYear(ctx context.Context, municipality string) (*trends.YearComparison, *privacy.InsufficientCohort, error) {
	comparison, err := s.calc.YearOverYear(ctx, municipality)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute year comparison: %w", err)
	}
	if refusal := s.gate(municipality, "year_over_year", comparison.RespondentCount); refusal != nil {
		return nil, refusal, nil
	}
	return comparison, nil, nil
}

// Effectiveness returns the funnel plus improvement count behind the
// gate. The cohort is the number of subjects with at least one
// completed assessment.
func (s *StatsService) Effectiveness(ctx context.Context, municipality string) (*EffectivenessReport, *privacy.InsufficientCohort, error) {
	funnel, err := s.calc.Funnel(ctx, municipality)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute funnel: %w", err)
	}
	if refusal := s.gate(municipality, "effectiveness", funnel.WithAssessment); refusal != nil {
		return nil, refusal, nil
	}

	improvement, err := s.calc.Improvements(ctx, municipality)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute improvements: %w", err)
	}

	return &EffectivenessReport{
		Funnel:      *funnel,
		Improvement: *improvement,
	}, nil, nil
}

// DashboardSummary returns the municipal headline numbers behind the
// gate.
func (s *StatsService) DashboardSummary(ctx context.Context, municipality string) (*DashboardSummary, *privacy.InsufficientCohort, error) {
	if municipality == "" {
		return nil, nil, fmt.Errorf("municipality is required")
	}

	records, err := s.history.ListAssessments(ctx, municipality, time.Time{}, time.Time{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list assessment history: %w", err)
	}

	respondents := map[string]struct{}{}
	levels := map[models.BurdenLevel]int{}
	sum := 0.0
	for _, r := range records {
		respondents[r.SubjectID] = struct{}{}
		levels[r.Level]++
		sum += r.Score
	}

	if refusal := s.gate(municipality, "dashboard", len(respondents)); refusal != nil {
		return nil, refusal, nil
	}

	mean := 0.0
	if len(records) > 0 {
		mean = math.Round(sum/float64(len(records))*10) / 10
	}

	openAlarms, err := s.alarms.CountByUrgency(ctx, municipality, true)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count open alarms: %w", err)
	}

	return &DashboardSummary{
		Municipality: municipality,
		Respondents:  len(respondents),
		Assessments:  len(records),
		MeanScore:    mean,
		Levels:       levels,
		OpenAlarms:   openAlarms,
	}, nil, nil
}

// AlarmSummary returns the municipal alarm counts behind the gate. The
// cohort is the number of distinct subjects the alarm set derives from.
func (s *StatsService) AlarmSummary(ctx context.Context, municipality string) (*AlarmSummary, *privacy.InsufficientCohort, error) {
	if municipality == "" {
		return nil, nil, fmt.Errorf("municipality is required")
	}

	subjects, err := s.alarms.CountDistinctSubjects(ctx, municipality)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count alarm subjects: %w", err)
	}
	if refusal := s.gate(municipality, "alarm_summary", subjects); refusal != nil {
		return nil, refusal, nil
	}

	open, err := s.alarms.CountByUrgency(ctx, municipality, true)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count open alarms: %w", err)
	}
	total, err := s.alarms.CountByUrgency(ctx, municipality, false)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count alarms: %w", err)
	}

	return &AlarmSummary{
		Municipality: municipality,
		Open:         open,
		Total:        total,
	}, nil, nil
}

// HelpRequestSummary returns the municipal help-request counts behind
// the gate. The cohort is the number of subjects with a help request.
func (s *StatsService) HelpRequestSummary(ctx context.Context, municipality string) (*HelpRequestSummary, *privacy.InsufficientCohort, error) {
	if municipality == "" {
		return nil, nil, fmt.Errorf("municipality is required")
	}

	subjects, err := s.helpRequests.CountSubjectsWithHelpRequest(ctx, municipality)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count help-request subjects: %w", err)
	}
	if refusal := s.gate(municipality, "help_request_summary", subjects); refusal != nil {
		return nil, refusal, nil
	}

	requests, err := s.helpRequests.CountHelpRequests(ctx, municipality)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count help requests: %w", err)
	}

	return &HelpRequestSummary{
		Municipality:            municipality,
		HelpRequests:            requests,
		SubjectsWithHelpRequest: subjects,
	}, nil, nil
}

// ExportMonthlyTrend builds the coordinator spreadsheet from the gated
// trend and seasonal aggregates. The refusal short-circuits before any
// workbook is built, so below-K data never reaches the export path.
func (s *StatsService) ExportMonthlyTrend(ctx context.Context, municipality string) (*excelize.File, *privacy.InsufficientCohort, error) {
	if s.exporter == nil {
		return nil, nil, fmt.Errorf("exporter is not configured")
	}

	trend, refusal, err := s.MonthlyTrend(ctx, municipality)
	if err != nil {
		return nil, nil, err
	}
	if refusal != nil {
		return nil, refusal, nil
	}

	seasonal, refusal, err := s.Seasonal(ctx, municipality)
	if err != nil {
		return nil, nil, err
	}
	if refusal != nil {
		return nil, refusal, nil
	}

	file, err := s.exporter.MunicipalTrendReport(trend, seasonal)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build trend report: %w", err)
	}
	return file, nil, nil
}
