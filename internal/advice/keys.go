package advice

import (
	"mantelzorg-engine/internal/models"
)

// Advice keys must exactly match the domain names from the questionnaire
// definition and the task catalogue IDs: a mismatched key silently yields
// "no advice", never an error.

// TotalKey builds the key for total-score advice, e.g. "totaal.HOOG".
func TotalKey(level models.BurdenLevel) string {
	return "totaal." + string(level)
}

// DomainKey builds the key for domain advice, e.g. "energie.HOOG".
func DomainKey(domain string, level models.BurdenLevel) string {
	return domain + "." + string(level)
}

// TaskKey builds the key for task advice, e.g. "taak.huishouden.HOOG".
func TaskKey(taskID string, level models.BurdenLevel) string {
	return "taak." + taskID + "." + string(level)
}
