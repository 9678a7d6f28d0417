package service

import (
	"sync"

	"mindwell_backend/internal/model"
	"mindwell_backend/internal/repository"
	"mindwell_backend/internal/util"
	"mindwell_backend/pkg/logger"

	"go.uber.org/zap"
)

// HistoryRepo is the slice of the repository the history service needs.
// Satisfied by *repository.HistoryRepository; tests substitute fakes.
type HistoryRepo interface {
	Create(record *model.AssessmentRecord) error
	FindByID(id string) (*model.AssessmentRecord, error)
	List(filter repository.HistoryFilter) ([]model.AssessmentRecord, error)
	ListUnsynced(userID uint) ([]model.AssessmentRecord, error)
	MarkSynced(id string) error
	UpdateNotes(id string, notes string) error
	Delete(id string) error
	Aggregate(userID uint) (*model.AggregateStats, error)
}

// HistoryService owns the durable record collection. All mutations pass
// through its mutex so read-modify-write windows never interleave; the
// original app got this for free from a single-threaded runtime, here the
// lock is explicit.
type HistoryService struct {
	mu   sync.Mutex
	repo HistoryRepo
}

func NewHistoryService(repo HistoryRepo) *HistoryService {
	return &HistoryService{repo: repo}
}

// Append persists a record local-first: until this returns nil, the
// producing session is not complete. Remote reachability plays no part.
func (s *HistoryService) Append(record *model.AssessmentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Create(record)
}

type RecordView struct {
	model.AssessmentRecord
	Answers []model.Answer `json:"answers"`
}

// List returns copies of matching records with answers decoded. A record
// whose stored answers fail to parse is reported and served with an empty
// answer set; a stuck application would be worse than the data loss.
func (s *HistoryService) List(filter repository.HistoryFilter) ([]RecordView, error) {
	records, err := s.repo.List(filter)
	if err != nil {
		return nil, err
	}

	views := make([]RecordView, len(records))
	for i, rec := range records {
		answers, decodeErr := rec.Answers()
		if decodeErr != nil {
			corruption := &util.StorageCorruptionError{Err: decodeErr}
			logger.Log.Error("corrupted assessment record payload",
				zap.String("recordId", rec.ID),
				zap.Error(corruption))
			answers = nil
		}
		views[i] = RecordView{AssessmentRecord: rec, Answers: answers}
	}
	return views, nil
}

func (s *HistoryService) Get(id string) (*RecordView, error) {
	record, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	answers, decodeErr := record.Answers()
	if decodeErr != nil {
		logger.Log.Error("corrupted assessment record payload",
			zap.String("recordId", record.ID),
			zap.Error(&util.StorageCorruptionError{Err: decodeErr}))
		answers = nil
	}
	return &RecordView{AssessmentRecord: *record, Answers: answers}, nil
}

// Unsynced is the derived sync queue view.
func (s *HistoryService) Unsynced(userID uint) ([]model.AssessmentRecord, error) {
	return s.repo.ListUnsynced(userID)
}

func (s *HistoryService) MarkSynced(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.MarkSynced(id)
}

func (s *HistoryService) UpdateNotes(id string, userID uint, notes string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ownershipCheck(id, userID); err != nil {
		return err
	}
	return s.repo.UpdateNotes(id, notes)
}

func (s *HistoryService) Delete(id string, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ownershipCheck(id, userID); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

func (s *HistoryService) Aggregate(userID uint) (*model.AggregateStats, error) {
	return s.repo.Aggregate(userID)
}

func (s *HistoryService) ownershipCheck(id string, userID uint) error {
	record, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	if userID > 0 && record.UserID != userID {
		return util.ErrRecordNotFound
	}
	return nil
}
