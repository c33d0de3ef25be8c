package evaluator

import (
	"fmt"

	"mantelzorg-engine/internal/models"
)

// criticalCombinationRule fires when the total level is HOOG and at
// least two domains are HOOG as well. This is the only rule that emits
// CRITICAL urgency.
type criticalCombinationRule struct{}

func (r *criticalCombinationRule) Type() models.AlarmType {
	return models.AlarmCriticalCombination
}

func (r *criticalCombinationRule) Evaluate(in Input) (*models.AlarmEvent, error) {
	if in.Score.Level != models.LevelHigh {
		return nil, nil
	}
	if len(in.Domains) == 0 {
		// Domain data missing: this rule cannot evaluate, others still run.
		return nil, fmt.Errorf("no domain scores available")
	}

	high := in.highDomainCount()
	if high < 2 {
		return nil, nil
	}

	return &models.AlarmEvent{
		AlarmType: models.AlarmCriticalCombination,
		Urgency:   models.UrgencyCritical,
		Description: fmt.Sprintf("Total burden is %s with %d domains at %s",
			models.LevelHigh, high, models.LevelHigh),
	}, nil
}
