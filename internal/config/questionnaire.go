package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// QuestionDefinition is one questionnaire item as curated by staff.
type QuestionDefinition struct {
	ID     string  `yaml:"id"`
	Text   string  `yaml:"text"`
	Weight float64 `yaml:"weight"` // 0 means 1.0
}

// DomainDefinition groups question IDs into a named semantic domain with
// the maximum attainable weighted score for that domain.
type DomainDefinition struct {
	Name      string   `yaml:"name"`
	MaxScore  float64  `yaml:"max_score"`
	Questions []string `yaml:"questions"`
}

// QuestionnaireDefinition is the external questionnaire description:
// which questions exist, how they weigh, and how they group into domains.
// Declaration order of domains is significant: reports and tests rely on
// stable iteration order.
type QuestionnaireDefinition struct {
	Name      string               `yaml:"name"`
	TotalMax  float64              `yaml:"total_max"` // 0 means sum of domain maxima
	Questions []QuestionDefinition `yaml:"questions"`
	Domains   []DomainDefinition   `yaml:"domains"`
}

// LoadQuestionnaire reads and validates a questionnaire definition file.
func LoadQuestionnaire(path string) (*QuestionnaireDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read questionnaire definition: %w", err)
	}

	var def QuestionnaireDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to parse questionnaire definition: %w", err)
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}

	return &def, nil
}

// Validate enforces the structural invariants of a definition.
func (d *QuestionnaireDefinition) Validate() error {
	if len(d.Domains) == 0 {
		return fmt.Errorf("questionnaire definition has no domains")
	}

	seenDomain := map[string]bool{}
	seenQuestion := map[string]string{} // question id -> domain name
	for _, dom := range d.Domains {
		if dom.Name == "" {
			return fmt.Errorf("domain with empty name")
		}
		if seenDomain[dom.Name] {
			return fmt.Errorf("duplicate domain %q", dom.Name)
		}
		seenDomain[dom.Name] = true

		if dom.MaxScore <= 0 {
			return fmt.Errorf("domain %q: max_score must be positive, got %v", dom.Name, dom.MaxScore)
		}
		for _, q := range dom.Questions {
			if prev, ok := seenQuestion[q]; ok {
				return fmt.Errorf("question %q belongs to both %q and %q", q, prev, dom.Name)
			}
			seenQuestion[q] = dom.Name
		}
	}

	for _, q := range d.Questions {
		if q.ID == "" {
			return fmt.Errorf("question with empty id")
		}
		if q.Weight < 0 {
			return fmt.Errorf("question %q: weight must be non-negative, got %v", q.ID, q.Weight)
		}
	}

	return nil
}

// EffectiveTotalMax returns the maximum attainable total score:
// the explicit total_max when set, otherwise the sum of domain maxima.
func (d *QuestionnaireDefinition) EffectiveTotalMax() float64 {
	if d.TotalMax > 0 {
		return d.TotalMax
	}
	sum := 0.0
	for _, dom := range d.Domains {
		sum += dom.MaxScore
	}
	return sum
}
