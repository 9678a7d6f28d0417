package model

import (
	"sync"
	"time"

	"mindwell_backend/internal/util"

	"github.com/google/uuid"
)

type SessionState string

const (
	SessionNotStarted SessionState = "not_started"
	SessionInProgress SessionState = "in_progress"
	SessionCompleted  SessionState = "completed"
	SessionAbandoned  SessionState = "abandoned"
)

// AssessmentSession walks a user through an ordered question list. It lives
// only in memory: completion produces an AssessmentRecord, abandonment
// discards everything. Never persisted.
type AssessmentSession struct {
	mu sync.Mutex

	ID        string
	UserID    uint
	State     SessionState
	Questions []Question
	StartedAt time.Time
	EndedAt   time.Time

	answers map[string]Answer
	cursor  int
}

func NewAssessmentSession(userID uint) *AssessmentSession {
	return &AssessmentSession{
		ID:     uuid.New().String(),
		UserID: userID,
		State:  SessionNotStarted,
	}
}

// Start issues the question list and transitions to in_progress. The list is
// immutable for the lifetime of the session.
func (s *AssessmentSession) Start(questions []Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State != SessionNotStarted {
		return util.Validationf("session %s already started", s.ID)
	}
	if len(questions) == 0 {
		return util.Validationf("cannot start an assessment with no questions")
	}

	s.Questions = make([]Question, len(questions))
	copy(s.Questions, questions)
	s.answers = make(map[string]Answer, len(questions))
	s.cursor = 0
	s.StartedAt = time.Now()
	s.State = SessionInProgress
	return nil
}

// Answer upserts the response for a question. Re-answering replaces the
// previous answer (last write wins within the session).
func (s *AssessmentSession) Answer(questionID, option string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State != SessionInProgress {
		return util.Validationf("session %s is not in progress", s.ID)
	}
	if !s.hasQuestion(questionID) {
		return util.Validationf("question %q is not part of this session", questionID)
	}

	s.answers[questionID] = Answer{
		QuestionID: questionID,
		Answer:     option,
		AnsweredAt: time.Now(),
	}
	return nil
}

// Advance and Retreat move the cursor over the question list. Both are
// no-ops at the boundaries rather than errors.
func (s *AssessmentSession) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor < len(s.Questions)-1 {
		s.cursor++
	}
}

func (s *AssessmentSession) Retreat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor > 0 {
		s.cursor--
	}
}

func (s *AssessmentSession) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

func (s *AssessmentSession) CurrentQuestion() *Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.State != SessionInProgress || s.cursor >= len(s.Questions) {
		return nil
	}
	q := s.Questions[s.cursor]
	return &q
}

func (s *AssessmentSession) AnsweredCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.answers)
}

// Progress reports answered/total as a rounded percentage.
func (s *AssessmentSession) Progress() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Questions) == 0 {
		return 0
	}
	return int(float64(len(s.answers))/float64(len(s.Questions))*100 + 0.5)
}

// Complete enforces the all-answered invariant and transitions to completed.
// On violation the session stays in_progress. Returns the answers in
// question order for scoring and persistence.
func (s *AssessmentSession) Complete() ([]Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State != SessionInProgress {
		return nil, util.Validationf("session %s is not in progress", s.ID)
	}
	if len(s.answers) != len(s.Questions) {
		return nil, util.Validationf("assessment incomplete: %d of %d questions answered",
			len(s.answers), len(s.Questions))
	}

	ordered := make([]Answer, 0, len(s.Questions))
	for _, q := range s.Questions {
		ans, ok := s.answers[q.ID]
		if !ok {
			return nil, util.Validationf("question %q has no answer", q.ID)
		}
		ordered = append(ordered, ans)
	}

	s.EndedAt = time.Now()
	s.State = SessionCompleted
	return ordered, nil
}

// Reopen reverts a just-completed session whose record could not be
// persisted; local-first means completion only holds once storage succeeds.
func (s *AssessmentSession) Reopen() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.State == SessionCompleted {
		s.State = SessionInProgress
		s.EndedAt = time.Time{}
	}
}

// Abandon discards the session. No record is produced.
func (s *AssessmentSession) Abandon() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.State != SessionInProgress {
		return util.Validationf("session %s is not in progress", s.ID)
	}
	s.State = SessionAbandoned
	return nil
}

// Duration is only meaningful after completion.
func (s *AssessmentSession) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.EndedAt.IsZero() {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}

func (s *AssessmentSession) hasQuestion(questionID string) bool {
	for _, q := range s.Questions {
		if q.ID == questionID {
			return true
		}
	}
	return false
}
