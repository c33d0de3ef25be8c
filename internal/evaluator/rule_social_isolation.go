package evaluator

import (
	"fmt"

	"mantelzorg-engine/internal/models"
)

// socialIsolationRule fires when the social-contact domain is HOOG while
// every other domain is below HOOG: an isolated deficit, which the
// broader rules would not surface.
type socialIsolationRule struct {
	domain string
}

func (r *socialIsolationRule) Type() models.AlarmType {
	return models.AlarmSocialIsolation
}

func (r *socialIsolationRule) Evaluate(in Input) (*models.AlarmEvent, error) {
	level, ok := in.domainLevel(r.domain)
	if !ok {
		return nil, fmt.Errorf("domain %q not present in aggregator output", r.domain)
	}
	if level != models.LevelHigh {
		return nil, nil
	}

	for _, d := range in.Domains {
		if d.Domain != r.domain && d.Level == models.LevelHigh {
			return nil, nil
		}
	}

	return &models.AlarmEvent{
		AlarmType:   models.AlarmSocialIsolation,
		Urgency:     models.UrgencyMedium,
		Description: fmt.Sprintf("Domain %q is at level %s while all other domains are below it", r.domain, level),
	}, nil
}
