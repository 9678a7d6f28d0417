package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RiskTier string

const (
	TierExcellent    RiskTier = "Excellent"
	TierGood         RiskTier = "Good"
	TierFair         RiskTier = "Fair"
	TierNeedsSupport RiskTier = "Needs Support"
)

// TierForScore maps a normalized score to its risk tier. Lower bounds are
// inclusive: 80 is Excellent, 79 is Good, 40 is Fair, 39 is Needs Support.
func TierForScore(score int) RiskTier {
	switch {
	case score >= 80:
		return TierExcellent
	case score >= 60:
		return TierGood
	case score >= 40:
		return TierFair
	default:
		return TierNeedsSupport
	}
}

// Answer is one captured response. At most one per question id per session;
// re-answering replaces the prior answer.
type Answer struct {
	QuestionID string    `json:"questionId"`
	Answer     string    `json:"answer"`
	AnsweredAt time.Time `json:"answeredAt"`
}

// AssessmentRecord is the durable artifact of a completed session. Answers
// and score are immutable after creation; only Synced and Notes may change.
type AssessmentRecord struct {
	ID              string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID          uint      `gorm:"index;not null" json:"userId"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	AnswersJSON     string    `gorm:"column:answers;type:text" json:"-"`
	Score           int       `gorm:"not null" json:"score"`
	RiskTier        RiskTier  `gorm:"size:20;index" json:"riskLevel"`
	DurationSeconds int       `json:"durationSeconds"`
	Synced          bool      `gorm:"index;default:false" json:"synced"`
	Notes           string    `gorm:"type:text" json:"notes"`
}

func (AssessmentRecord) TableName() string {
	return "assessment_records"
}

func (r *AssessmentRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// SetAnswers serializes the ordered answers into the stored column.
func (r *AssessmentRecord) SetAnswers(answers []Answer) error {
	data, err := json.Marshal(answers)
	if err != nil {
		return err
	}
	r.AnswersJSON = string(data)
	return nil
}

// Answers decodes the stored payload. Decode failures are reported by the
// history service as storage corruption and treated as an empty answer set.
func (r *AssessmentRecord) Answers() ([]Answer, error) {
	if r.AnswersJSON == "" {
		return nil, nil
	}
	var answers []Answer
	if err := json.Unmarshal([]byte(r.AnswersJSON), &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

// AggregateStats summarizes a user's history for dashboards. Recomputed from
// current store contents on every call, never cached.
type AggregateStats struct {
	Count   int64   `json:"count"`
	Average float64 `json:"average"`
	Min     int     `json:"min"`
	Max     int     `json:"max"`
}
