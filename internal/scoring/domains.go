package scoring

import (
	"fmt"

	"mantelzorg-engine/internal/config"
	"mantelzorg-engine/internal/models"
)

// AggregateDomains groups answers into the configured semantic domains
// and computes a 0-100 percentage (one decimal) and a burden level per
// domain. The level uses the same threshold bands as the total score,
// rescaled to the domain's share of the questionnaire maximum.
//
// Domains are emitted in declaration order so reports render identically
// across runs. Domains with no matched answers are omitted, not emitted
// as zero.
func AggregateDomains(answers []models.Answer, def *config.QuestionnaireDefinition, t Thresholds) ([]models.DomainScore, error) {
	if def == nil {
		return nil, fmt.Errorf("questionnaire definition is required")
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	totalMax := def.EffectiveTotalMax()
	if totalMax <= 0 {
		return nil, fmt.Errorf("questionnaire definition has no attainable score")
	}

	// Index answers by question for membership lookup. Weighted sums stay
	// order-independent because addition commutes.
	byQuestion := make(map[string][]models.Answer, len(answers))
	for i, a := range answers {
		if a.Score < 0 {
			return nil, fmt.Errorf("answer %d (%s): score must be non-negative, got %v",
				i, a.QuestionID, a.Score)
		}
		if a.EffectiveWeight() < 0 {
			return nil, fmt.Errorf("answer %d (%s): weight must be non-negative, got %v",
				i, a.QuestionID, a.EffectiveWeight())
		}
		byQuestion[a.QuestionID] = append(byQuestion[a.QuestionID], a)
	}

	var result []models.DomainScore
	for _, dom := range def.Domains {
		sum := 0.0
		matched := false
		for _, q := range dom.Questions {
			for _, a := range byQuestion[q] {
				sum += a.Score * a.EffectiveWeight()
				matched = true
			}
		}
		if !matched {
			continue
		}

		scaled := t.scale(dom.MaxScore / totalMax)
		result = append(result, models.DomainScore{
			Domain:     dom.Name,
			Percentage: round1(100 * sum / dom.MaxScore),
			Level:      Classify(sum, scaled),
		})
	}

	return result, nil
}
