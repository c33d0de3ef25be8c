// Package privacy implements the k-anonymity gate applied to every
// municipality-scoped aggregate before it leaves the engine.
package privacy

import (
	"fmt"
)

// InsufficientCohort is the refusal returned when an aggregate would be
// derived from fewer than the minimum number of distinct subjects. It is
// a first-class response variant, not an error: callers and tests must be
// able to distinguish it from a genuinely empty result. It carries only
// the current count and a human-readable message, never partial
// statistics.
type InsufficientCohort struct {
	Count   int    `json:"count"`
	Minimum int    `json:"minimum"`
	Message string `json:"message"`
}

// Gate checks a respondent count against the configured minimum K.
// It returns nil when the aggregate may be released unchanged, and the
// refusal sentinel otherwise. Every municipal query path goes through
// this single helper so the policy cannot be missed on one endpoint.
func Gate(respondentCount, minimumK int) *InsufficientCohort {
	if respondentCount >= minimumK {
		return nil
	}
	return &InsufficientCohort{
		Count:   respondentCount,
		Minimum: minimumK,
		Message: fmt.Sprintf("insufficient cohort for release: %d respondents, minimum is %d",
			respondentCount, minimumK),
	}
}
