package service

import (
	"testing"
	"time"

	"mindwell_backend/internal/model"
	"mindwell_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answersOf(options ...string) []model.Answer {
	answers := make([]model.Answer, len(options))
	for i, opt := range options {
		answers[i] = model.Answer{
			QuestionID: "q" + string(rune('a'+i)),
			Answer:     opt,
			AnsweredAt: time.Now(),
		}
	}
	return answers
}

func TestPointsFor(t *testing.T) {
	s := NewScoringService()

	cases := []struct {
		option string
		points int
	}{
		{"Great", 10},
		{"Always", 10},
		{"Excellent", 10},
		{"Good", 8},
		{"Usually", 8},
		{"7-8 hours", 8},
		{"Okay", 5},
		{"Sometimes", 5},
		{"Fair", 5},
		{"Rarely", 3},
		{"5-6 hours", 3},
		{"Never", 1},
		{"Less than 5 hours", 1},
		{"Not good", 1},
	}
	for _, tc := range cases {
		t.Run(tc.option, func(t *testing.T) {
			assert.Equal(t, tc.points, s.PointsFor(tc.option))
		})
	}
}

func TestPointsForPrecedence(t *testing.T) {
	s := NewScoringService()

	// First matching class wins, checked in fixed order, not specificity.
	assert.Equal(t, 10, s.PointsFor("Great, okay I guess"))
	assert.Equal(t, 8, s.PointsFor("Usually, rarely not"))
	// Substring containment crosses categories on purpose: sleep options
	// ride the generic positivity scale.
	assert.Equal(t, 8, s.PointsFor("I sleep 7-8 hours"))
}

func TestScoreScenario(t *testing.T) {
	s := NewScoringService()

	// 10 + 5 + 1 = 16 of 30 -> round(53.33) = 53 -> Fair
	result, err := s.Score(answersOf("Great", "Okay", "Never"))
	require.NoError(t, err)
	assert.Equal(t, 53, result.Score)
	assert.Equal(t, model.TierFair, result.RiskTier)
}

func TestScoreIsPure(t *testing.T) {
	s := NewScoringService()
	answers := answersOf("Good", "Sometimes", "Always", "Rarely")

	first, err := s.Score(answers)
	require.NoError(t, err)
	second, err := s.Score(answers)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestScoreBounds(t *testing.T) {
	s := NewScoringService()

	t.Run("all top answers hit 100", func(t *testing.T) {
		result, err := s.Score(answersOf("Great", "Always", "Excellent"))
		require.NoError(t, err)
		assert.Equal(t, 100, result.Score)
		assert.Equal(t, model.TierExcellent, result.RiskTier)
	})

	t.Run("all unmatched answers floor at 10", func(t *testing.T) {
		result, err := s.Score(answersOf("Never", "Never"))
		require.NoError(t, err)
		assert.Equal(t, 10, result.Score)
		assert.Equal(t, model.TierNeedsSupport, result.RiskTier)
	})
}

func TestScoreEmptyAnswersIsValidationError(t *testing.T) {
	s := NewScoringService()

	_, err := s.Score(nil)
	require.Error(t, err)
	assert.True(t, util.IsValidation(err))
}

func TestTierBoundaries(t *testing.T) {
	cases := []struct {
		score int
		tier  model.RiskTier
	}{
		{100, model.TierExcellent},
		{80, model.TierExcellent},
		{79, model.TierGood},
		{60, model.TierGood},
		{59, model.TierFair},
		{40, model.TierFair},
		{39, model.TierNeedsSupport},
		{0, model.TierNeedsSupport},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.tier, model.TierForScore(tc.score), "score %d", tc.score)
	}
}
