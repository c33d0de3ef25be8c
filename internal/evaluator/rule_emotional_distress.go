package evaluator

import (
	"fmt"

	"mantelzorg-engine/internal/models"
)

// emotionalDistressRule fires when the emotional-load domain is HOOG.
type emotionalDistressRule struct {
	domain string
}

func (r *emotionalDistressRule) Type() models.AlarmType {
	return models.AlarmEmotionalDistress
}

func (r *emotionalDistressRule) Evaluate(in Input) (*models.AlarmEvent, error) {
	level, ok := in.domainLevel(r.domain)
	if !ok {
		return nil, fmt.Errorf("domain %q not present in aggregator output", r.domain)
	}
	if level != models.LevelHigh {
		return nil, nil
	}

	return &models.AlarmEvent{
		AlarmType:   models.AlarmEmotionalDistress,
		Urgency:     models.UrgencyMedium,
		Description: fmt.Sprintf("Domain %q is at level %s", r.domain, level),
	}, nil
}
