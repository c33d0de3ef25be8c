// Package evaluator is the alarm rule engine: it inspects scorer and
// domain-aggregator output plus task-selection data and emits typed,
// urgency-ranked alarm events.
package evaluator

import (
	"sort"
	"time"

	"mantelzorg-engine/internal/models"
	"mantelzorg-engine/internal/scoring"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config holds the rule parameters. Domain names must match the
// questionnaire definition; empty values fall back to the product
// defaults.
type Config struct {
	CareHoursWeeklyMax float64
	EmotionalDomain    string
	SocialDomain       string
	PhysicalDomain     string
}

func (c Config) withDefaults() Config {
	if c.CareHoursWeeklyMax <= 0 {
		c.CareHoursWeeklyMax = 40
	}
	if c.EmotionalDomain == "" {
		c.EmotionalDomain = "emotie"
	}
	if c.SocialDomain == "" {
		c.SocialDomain = "sociaal"
	}
	if c.PhysicalDomain == "" {
		c.PhysicalDomain = "energie"
	}
	return c
}

// Input is everything a rule may inspect for one completed assessment.
type Input struct {
	AssessmentID string
	SubjectID    string
	Municipality string
	Score        scoring.Result
	Domains      []models.DomainScore
	Tasks        []models.SelectedTask

	// PreviousScore is the total score of the subject's previous
	// assessment, if any, used for trend wording in descriptions.
	PreviousScore *float64
}

// domainLevel returns the level of a named domain and whether that
// domain was present in the aggregator output.
func (in Input) domainLevel(name string) (models.BurdenLevel, bool) {
	for _, d := range in.Domains {
		if d.Domain == name {
			return d.Level, true
		}
	}
	return "", false
}

// highDomainCount counts domains at level HOOG.
func (in Input) highDomainCount() int {
	n := 0
	for _, d := range in.Domains {
		if d.Level == models.LevelHigh {
			n++
		}
	}
	return n
}

// rule is one independently evaluable alarm rule. A rule returns nil
// when it does not fire; an error never aborts the other rules.
type rule interface {
	Type() models.AlarmType
	Evaluate(in Input) (*models.AlarmEvent, error)
}

// Evaluator runs the full rule set over one assessment.
type Evaluator struct {
	config Config
	rules  []rule
	logger *zap.Logger
	now    func() time.Time
}

// New creates an evaluator with the complete rule set.
func New(cfg Config, logger *zap.Logger) *Evaluator {
	cfg = cfg.withDefaults()
	e := &Evaluator{
		config: cfg,
		logger: logger,
		now:    time.Now,
	}
	e.rules = []rule{
		&highBurdenRule{},
		&criticalCombinationRule{},
		&careHoursRule{weeklyMax: cfg.CareHoursWeeklyMax},
		&emotionalDistressRule{domain: cfg.EmotionalDomain},
		&socialIsolationRule{domain: cfg.SocialDomain},
		&physicalComplaintsRule{domain: cfg.PhysicalDomain},
	}
	return e
}

// Evaluate runs every rule and returns the fired alarms, sorted by
// descending urgency then ascending type for presentation stability.
// Rules are isolated: a rule that cannot evaluate (missing domain data,
// internal error) is skipped and logged, the remaining rules still run.
// Re-running on identical input yields the same alarm set (same types,
// same urgencies); the caller dedupes on assessmentID+alarmType before
// inserting.
func (e *Evaluator) Evaluate(in Input) []models.AlarmEvent {
	var alarms []models.AlarmEvent

	for _, r := range e.rules {
		event, err := r.Evaluate(in)
		if err != nil {
			e.logger.Warn("Alarm rule skipped",
				zap.String("assessment_id", in.AssessmentID),
				zap.String("alarm_type", string(r.Type())),
				zap.Error(err),
			)
			continue
		}
		if event == nil {
			continue
		}

		now := e.now()
		event.EventID = uuid.New().String()
		event.AssessmentID = in.AssessmentID
		event.SubjectID = in.SubjectID
		event.Municipality = in.Municipality
		event.CreatedAt = now
		event.UpdatedAt = now
		alarms = append(alarms, *event)
	}

	// Escalate domain-specific alarms when they co-occur with a high
	// total burden. CRITICAL stays reserved for CRITICAL_COMBINATION.
	if in.Score.Level == models.LevelHigh {
		for i := range alarms {
			if alarms[i].Urgency == models.UrgencyMedium {
				alarms[i].Urgency = models.UrgencyHigh
			}
		}
	}

	sort.SliceStable(alarms, func(i, j int) bool {
		if alarms[i].Urgency.Rank() != alarms[j].Urgency.Rank() {
			return alarms[i].Urgency.Rank() > alarms[j].Urgency.Rank()
		}
		return alarms[i].AlarmType < alarms[j].AlarmType
	})

	return alarms
}
