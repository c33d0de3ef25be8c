package evaluator

import (
	"fmt"

	"mantelzorg-engine/internal/models"
)

// physicalComplaintsRule fires when the energy/physical domain is HOOG.
type physicalComplaintsRule struct {
	domain string
}

func (r *physicalComplaintsRule) Type() models.AlarmType {
	return models.AlarmPhysicalComplaints
}

func (r *physicalComplaintsRule) Evaluate(in Input) (*models.AlarmEvent, error) {
	level, ok := in.domainLevel(r.domain)
	if !ok {
		return nil, fmt.Errorf("domain %q not present in aggregator output", r.domain)
	}
	if level != models.LevelHigh {
		return nil, nil
	}

	return &models.AlarmEvent{
		AlarmType:   models.AlarmPhysicalComplaints,
		Urgency:     models.UrgencyMedium,
		Description: fmt.Sprintf("Domain %q is at level %s", r.domain, level),
	}, nil
}
