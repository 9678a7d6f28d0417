package service

import (
	"sync"

	"mindwell_backend/internal/model"
	"mindwell_backend/internal/util"
	"mindwell_backend/pkg/logger"
	"mindwell_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// SessionService owns every live assessment session. Sessions exist only in
// this map; a process restart discards anything in progress, which matches
// the abandonment semantics of the mobile client.
type SessionService struct {
	mu       sync.Mutex
	sessions map[string]*model.AssessmentSession

	scoring *ScoringService
	history *HistoryService
}

func NewSessionService(scoring *ScoringService, history *HistoryService) *SessionService {
	return &SessionService{
		sessions: make(map[string]*model.AssessmentSession),
		scoring:  scoring,
		history:  history,
	}
}

// Start creates a session over the given ordered questions.
func (s *SessionService) Start(userID uint, questions []model.Question) (*model.AssessmentSession, error) {
	session := model.NewAssessmentSession(userID)
	if err := session.Start(questions); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	logger.Log.Info("assessment session started",
		zap.String("sessionId", session.ID),
		zap.Uint("userId", userID),
		zap.Int("questions", len(questions)))
	return session, nil
}

func (s *SessionService) Get(sessionID string, userID uint) (*model.AssessmentSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok || session.UserID != userID {
		return nil, util.ErrSessionNotFound
	}
	return session, nil
}

func (s *SessionService) Answer(sessionID string, userID uint, questionID, option string) (*model.AssessmentSession, error) {
	session, err := s.Get(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if err := session.Answer(questionID, option); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) Advance(sessionID string, userID uint) (*model.AssessmentSession, error) {
	session, err := s.Get(sessionID, userID)
	if err != nil {
		return nil, err
	}
	session.Advance()
	return session, nil
}

func (s *SessionService) Retreat(sessionID string, userID uint) (*model.AssessmentSession, error) {
	session, err := s.Get(sessionID, userID)
	if err != nil {
		return nil, err
	}
	session.Retreat()
	return session, nil
}

// Complete runs the all-answered check, scores the ordered answers, and
// persists the record local-first. If storage fails the session reopens and
// the error surfaces; nothing is half-done.
func (s *SessionService) Complete(sessionID string, userID uint) (*model.AssessmentRecord, error) {
	session, err := s.Get(sessionID, userID)
	if err != nil {
		return nil, err
	}

	answers, err := session.Complete()
	if err != nil {
		return nil, err
	}

	result, err := s.scoring.Score(answers)
	if err != nil {
		session.Reopen()
		return nil, err
	}

	record := &model.AssessmentRecord{
		UserID:          userID,
		Score:           result.Score,
		RiskTier:        result.RiskTier,
		DurationSeconds: int(session.Duration().Seconds()),
		Synced:          false,
	}
	if err := record.SetAnswers(answers); err != nil {
		session.Reopen()
		return nil, err
	}

	if err := s.history.Append(record); err != nil {
		session.Reopen()
		return nil, err
	}

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	monitoring.AssessmentsCompleted.WithLabelValues(string(result.RiskTier)).Inc()
	logger.Log.Info("assessment completed",
		zap.String("sessionId", sessionID),
		zap.String("recordId", record.ID),
		zap.Int("score", record.Score),
		zap.String("riskTier", string(record.RiskTier)))
	return record, nil
}

// Abandon discards the session without touching history.
func (s *SessionService) Abandon(sessionID string, userID uint) error {
	session, err := s.Get(sessionID, userID)
	if err != nil {
		return err
	}
	if err := session.Abandon(); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	logger.Log.Info("assessment session abandoned",
		zap.String("sessionId", sessionID),
		zap.Int("answered", session.AnsweredCount()))
	return nil
}
