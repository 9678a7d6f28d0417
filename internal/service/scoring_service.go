package service

import (
	"math"
	"strings"

	"mindwell_backend/internal/model"
	"mindwell_backend/internal/util"
)

// answerClass pairs an option-text predicate with a point value. Classes are
// evaluated strictly in declaration order, first match wins; reordering them
// changes historical scores, so the order is load-bearing.
type answerClass struct {
	keywords []string
	points   int
}

// Classification table ported unchanged from the mobile client. Note the
// substring matching: "7-8 hours" keeps Good-tier company because sleep
// options were folded into the generic positivity scale. Known quirk, kept
// for score compatibility.
var answerClasses = []answerClass{
	{keywords: []string{"Great", "Always", "Excellent"}, points: 10},
	{keywords: []string{"Good", "Usually", "7-8 hours"}, points: 8},
	{keywords: []string{"Okay", "Sometimes", "Fair"}, points: 5},
	{keywords: []string{"Rarely", "5-6 hours"}, points: 3},
}

const (
	defaultPoints = 1
	maxPoints     = 10
)

type ScoreResult struct {
	Score    int            `json:"score"`
	RiskTier model.RiskTier `json:"riskLevel"`
}

// ScoringService is a pure function over ordered answers: no I/O, no state,
// identical input always yields identical output.
type ScoringService struct{}

func NewScoringService() *ScoringService {
	return &ScoringService{}
}

// PointsFor classifies a single option text.
func (s *ScoringService) PointsFor(option string) int {
	for _, class := range answerClasses {
		for _, kw := range class.keywords {
			if strings.Contains(option, kw) {
				return class.points
			}
		}
	}
	return defaultPoints
}

// Score sums per-answer points and normalizes to 0-100. An empty answer set
// is caller misuse, not a zero score.
func (s *ScoringService) Score(answers []model.Answer) (*ScoreResult, error) {
	if len(answers) == 0 {
		return nil, util.Validationf("cannot score an empty answer set")
	}

	total := 0
	for _, ans := range answers {
		total += s.PointsFor(ans.Answer)
	}

	normalized := int(math.Round(float64(total) / float64(len(answers)*maxPoints) * 100))
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 100 {
		normalized = 100
	}

	return &ScoreResult{
		Score:    normalized,
		RiskTier: model.TierForScore(normalized),
	}, nil
}
