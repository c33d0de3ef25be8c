package evaluator

import (
	"fmt"

	"mantelzorg-engine/internal/models"
)

// careHoursRule fires when the weekly hours over all selected tasks
// exceed the configured limit.
type careHoursRule struct {
	weeklyMax float64
}

func (r *careHoursRule) Type() models.AlarmType {
	return models.AlarmHighCareHours
}

func (r *careHoursRule) Evaluate(in Input) (*models.AlarmEvent, error) {
	if len(in.Tasks) == 0 {
		return nil, nil
	}

	total := 0.0
	for _, t := range in.Tasks {
		if t.WeeklyHours < 0 {
			return nil, fmt.Errorf("task %s: negative weekly hours", t.TaskID)
		}
		total += t.WeeklyHours
	}

	if total <= r.weeklyMax {
		return nil, nil
	}

	return &models.AlarmEvent{
		AlarmType: models.AlarmHighCareHours,
		Urgency:   models.UrgencyHigh,
		Description: fmt.Sprintf("Selected tasks sum to %.1f care hours per week (limit %.0f)",
			total, r.weeklyMax),
	}, nil
}
