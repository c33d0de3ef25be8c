package scoring

import (
	"testing"

	"mantelzorg-engine/internal/config"
	"mantelzorg-engine/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDefinition() *config.QuestionnaireDefinition {
	return &config.QuestionnaireDefinition{
		Name: "test",
		Domains: []config.DomainDefinition{
			{Name: "energie", MaxScore: 10, Questions: []string{"q1", "q2"}},
			{Name: "emotie", MaxScore: 10, Questions: []string{"q3"}},
			{Name: "tijd", MaxScore: 20, Questions: []string{"q4"}},
		},
	}
}

func TestAggregateDomains_PercentagesAndLevels(t *testing.T) {
	// Total max is 40, so the energie bands scale by 10/40:
	// low_max 1.5, medium_max 3.
	answers := []models.Answer{
		{QuestionID: "q1", Score: 2},
		{QuestionID: "q2", Score: 2},
		{QuestionID: "q3", Score: 1},
	}

	scores, err := AggregateDomains(answers, testDefinition(), testThresholds())

	require.NoError(t, err)
	require.Len(t, scores, 2)

	assert.Equal(t, "energie", scores[0].Domain)
	assert.Equal(t, 40.0, scores[0].Percentage)
	assert.Equal(t, models.LevelHigh, scores[0].Level)

	assert.Equal(t, "emotie", scores[1].Domain)
	assert.Equal(t, 10.0, scores[1].Percentage)
	assert.Equal(t, models.LevelLow, scores[1].Level)
}

func TestAggregateDomains_OmitsUnmatchedDomains(t *testing.T) {
	answers := []models.Answer{
		{QuestionID: "q3", Score: 1},
	}

	scores, err := AggregateDomains(answers, testDefinition(), testThresholds())

	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, "emotie", scores[0].Domain)
}

func TestAggregateDomains_DeclarationOrder(t *testing.T) {
	answers := []models.Answer{
		{QuestionID: "q4", Score: 3},
		{QuestionID: "q3", Score: 2},
		{QuestionID: "q1", Score: 1},
	}

	first, err := AggregateDomains(answers, testDefinition(), testThresholds())
	require.NoError(t, err)
	second, err := AggregateDomains(answers, testDefinition(), testThresholds())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, first, 3)
	assert.Equal(t, "energie", first[0].Domain)
	assert.Equal(t, "emotie", first[1].Domain)
	assert.Equal(t, "tijd", first[2].Domain)
}

func TestAggregateDomains_WeightsApply(t *testing.T) {
	answers := []models.Answer{
		{QuestionID: "q1", Score: 2, Weight: weightPtr(2.5)},
	}

	scores, err := AggregateDomains(answers, testDefinition(), testThresholds())

	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, 50.0, scores[0].Percentage)
}

func TestAggregateDomains_EmptyAnswers(t *testing.T) {
	scores, err := AggregateDomains(nil, testDefinition(), testThresholds())

	require.NoError(t, err)
	assert.Empty(t, scores)
}

func TestAggregateDomains_NegativeScoreRejected(t *testing.T) {
	answers := []models.Answer{
		{QuestionID: "q1", Score: -2},
	}

	_, err := AggregateDomains(answers, testDefinition(), testThresholds())

	assert.Error(t, err)
}

func TestAggregateDomains_NilDefinition(t *testing.T) {
	_, err := AggregateDomains(nil, nil, testThresholds())

	assert.Error(t, err)
}
