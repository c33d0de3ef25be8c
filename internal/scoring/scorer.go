package scoring

import (
	"fmt"
	"math"

	"mantelzorg-engine/internal/models"
)

// Thresholds are the ascending, non-overlapping score bands used for
// burden classification: score <= LowMax -> LAAG,
// LowMax < score <= MediumMax -> GEMIDDELD, else HOOG.
type Thresholds struct {
	LowMax    float64
	MediumMax float64
}

// Validate enforces that the bands are monotonic so every score maps to
// exactly one level.
func (t Thresholds) Validate() error {
	if t.LowMax < 0 {
		return fmt.Errorf("low_max must be non-negative, got %v", t.LowMax)
	}
	if t.LowMax >= t.MediumMax {
		return fmt.Errorf("thresholds must be strictly increasing: low_max=%v medium_max=%v",
			t.LowMax, t.MediumMax)
	}
	return nil
}

// scale returns the thresholds rescaled by factor, used to classify a
// domain sub-score against the same proportional bands as the total.
func (t Thresholds) scale(factor float64) Thresholds {
	return Thresholds{
		LowMax:    t.LowMax * factor,
		MediumMax: t.MediumMax * factor,
	}
}

// Result is the scorer output: total weighted score and burden level.
type Result struct {
	Total float64            `json:"total"`
	Level models.BurdenLevel `json:"level"`
}

// Classify maps a score to a burden level. Pure function of the score
// and the thresholds.
func Classify(score float64, t Thresholds) models.BurdenLevel {
	switch {
	case score <= t.LowMax:
		return models.LevelLow
	case score <= t.MediumMax:
		return models.LevelMedium
	default:
		return models.LevelHigh
	}
}

// Score computes the total weighted score over the answers and classifies
// it. The sum is order-independent. An empty answer list yields score 0
// and level LAAG. A missing weight counts as 1.0. Negative scores or
// weights are a validation error: the caller never receives a partial
// score.
func Score(answers []models.Answer, t Thresholds) (Result, error) {
	if err := t.Validate(); err != nil {
		return Result{}, err
	}

	total := 0.0
	for i, a := range answers {
		if a.Score < 0 {
			return Result{}, fmt.Errorf("answer %d (%s): score must be non-negative, got %v",
				i, a.QuestionID, a.Score)
		}
		w := a.EffectiveWeight()
		if w < 0 {
			return Result{}, fmt.Errorf("answer %d (%s): weight must be non-negative, got %v",
				i, a.QuestionID, w)
		}
		total += a.Score * w
	}

	return Result{
		Total: total,
		Level: Classify(total, t),
	}, nil
}

// round1 rounds to one decimal, the presentation precision used for
// percentages and mean scores throughout the engine.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
