package evaluator

import (
	"fmt"

	"mantelzorg-engine/internal/models"
)

// highBurdenRule fires when the total burden level is HOOG.
type highBurdenRule struct{}

func (r *highBurdenRule) Type() models.AlarmType {
	return models.AlarmHighBurden
}

func (r *highBurdenRule) Evaluate(in Input) (*models.AlarmEvent, error) {
	if in.Score.Level != models.LevelHigh {
		return nil, nil
	}

	desc := fmt.Sprintf("Total burden score %.1f classifies as %s", in.Score.Total, in.Score.Level)
	if in.PreviousScore != nil {
		if in.Score.Total > *in.PreviousScore {
			desc += fmt.Sprintf(" (worsened from %.1f)", *in.PreviousScore)
		} else {
			desc += fmt.Sprintf(" (previous score %.1f)", *in.PreviousScore)
		}
	}

	return &models.AlarmEvent{
		AlarmType:   models.AlarmHighBurden,
		Urgency:     models.UrgencyHigh,
		Description: desc,
	}, nil
}
