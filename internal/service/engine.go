package service

// Engine bundles the three service surfaces the surrounding application
// embeds: the submission pipeline, the gated municipal statistics, and
// the staff alarm triage.
type Engine struct {
	Intake *IntakeService
	Stats  *StatsService
	Triage *AlarmTriageService
}

// NewEngine groups the services.
func NewEngine(intake *IntakeService, stats *StatsService, triage *AlarmTriageService) *Engine {
	return &Engine{
		Intake: intake,
		Stats:  stats,
		Triage: triage,
	}
}
