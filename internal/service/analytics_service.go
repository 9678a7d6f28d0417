package service

import (
	"mindwell_backend/internal/model"
	"mindwell_backend/internal/repository"
)

// AnalyticsService backs the admin dashboards with read-only aggregates
// across all users.
type AnalyticsService struct {
	history *repository.HistoryRepository
	users   *repository.UserRepository
}

func NewAnalyticsService(history *repository.HistoryRepository, users *repository.UserRepository) *AnalyticsService {
	return &AnalyticsService{history: history, users: users}
}

type AnalyticsSummary struct {
	TotalStudents    int64                  `json:"totalStudents"`
	TotalAssessments int64                  `json:"totalAssessments"`
	AverageScore     float64                `json:"averageScore"`
	MinScore         int                    `json:"minScore"`
	MaxScore         int                    `json:"maxScore"`
	PendingSync      int64                  `json:"pendingSync"`
	RiskDistribution []repository.TierCount `json:"riskDistribution"`
}

func (s *AnalyticsService) Summary() (*AnalyticsSummary, error) {
	stats, err := s.history.Aggregate(0)
	if err != nil {
		return nil, err
	}

	students, err := s.users.CountByRole(model.Student)
	if err != nil {
		return nil, err
	}

	pending, err := s.history.CountUnsynced()
	if err != nil {
		return nil, err
	}

	distribution, err := s.history.RiskDistribution()
	if err != nil {
		return nil, err
	}

	return &AnalyticsSummary{
		TotalStudents:    students,
		TotalAssessments: stats.Count,
		AverageScore:     stats.Average,
		MinScore:         stats.Min,
		MaxScore:         stats.Max,
		PendingSync:      pending,
		RiskDistribution: distribution,
	}, nil
}

func (s *AnalyticsService) RiskDistribution() ([]repository.TierCount, error) {
	return s.history.RiskDistribution()
}
