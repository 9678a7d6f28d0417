package service

import (
	"context"
	"fmt"
	"sync"

	"mindwell_backend/internal/model"
	"mindwell_backend/internal/repository"
	"mindwell_backend/internal/util"

	"github.com/google/uuid"
)

// fakeHistoryRepo is an in-memory HistoryRepo preserving insertion order.
type fakeHistoryRepo struct {
	mu      sync.Mutex
	records []*model.AssessmentRecord

	createErr     error
	markSyncedErr error
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{}
}

func (f *fakeHistoryRepo) Create(record *model.AssessmentRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	for _, existing := range f.records {
		if existing.ID == record.ID {
			return util.ErrDuplicateRecord
		}
	}
	stored := *record
	f.records = append(f.records, &stored)
	return nil
}

func (f *fakeHistoryRepo) FindByID(id string) (*model.AssessmentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, record := range f.records {
		if record.ID == id {
			copied := *record
			return &copied, nil
		}
	}
	return nil, util.ErrRecordNotFound
}

func (f *fakeHistoryRepo) List(filter repository.HistoryFilter) ([]model.AssessmentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.AssessmentRecord
	for _, record := range f.records {
		if filter.UserID != 0 && record.UserID != filter.UserID {
			continue
		}
		if filter.RiskTier != "" && record.RiskTier != filter.RiskTier {
			continue
		}
		if filter.MinScore != nil && record.Score < *filter.MinScore {
			continue
		}
		if filter.MaxScore != nil && record.Score > *filter.MaxScore {
			continue
		}
		out = append(out, *record)
	}
	return out, nil
}

func (f *fakeHistoryRepo) ListUnsynced(userID uint) ([]model.AssessmentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.AssessmentRecord
	for _, record := range f.records {
		if record.Synced {
			continue
		}
		if userID != 0 && record.UserID != userID {
			continue
		}
		out = append(out, *record)
	}
	return out, nil
}

func (f *fakeHistoryRepo) MarkSynced(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markSyncedErr != nil {
		return f.markSyncedErr
	}
	for _, record := range f.records {
		if record.ID == id {
			record.Synced = true
			return nil
		}
	}
	return util.ErrRecordNotFound
}

func (f *fakeHistoryRepo) UpdateNotes(id string, notes string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, record := range f.records {
		if record.ID == id {
			record.Notes = notes
			return nil
		}
	}
	return util.ErrRecordNotFound
}

func (f *fakeHistoryRepo) Delete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, record := range f.records {
		if record.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return util.ErrRecordNotFound
}

func (f *fakeHistoryRepo) Aggregate(userID uint) (*model.AggregateStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &model.AggregateStats{}
	sum := 0
	for _, record := range f.records {
		if userID != 0 && record.UserID != userID {
			continue
		}
		if stats.Count == 0 || record.Score < stats.Min {
			stats.Min = record.Score
		}
		if record.Score > stats.Max {
			stats.Max = record.Score
		}
		stats.Count++
		sum += record.Score
	}
	if stats.Count > 0 {
		stats.Average = float64(sum) / float64(stats.Count)
	}
	return stats, nil
}

func (f *fakeHistoryRepo) syncedFlag(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, record := range f.records {
		if record.ID == id {
			return record.Synced
		}
	}
	return false
}

// fakeGateway records submissions and returns scripted errors per record id.
type fakeGateway struct {
	mu        sync.Mutex
	submitted []string
	// errs holds the error queue per record id; each Submit pops one entry,
	// an exhausted queue means success.
	errs map[string][]error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{errs: map[string][]error{}}
}

func (f *fakeGateway) failWith(id string, errs ...error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[id] = append(f.errs[id], errs...)
}

func (f *fakeGateway) Submit(_ context.Context, record *model.AssessmentRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, record.ID)
	queue := f.errs[record.ID]
	if len(queue) == 0 {
		return nil
	}
	f.errs[record.ID] = queue[1:]
	return queue[0]
}

func (f *fakeGateway) submissions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.submitted...)
}

func mustRecord(repo *fakeHistoryRepo, userID uint, score int, answers []model.Answer) *model.AssessmentRecord {
	record := &model.AssessmentRecord{
		UserID:   userID,
		Score:    score,
		RiskTier: model.TierForScore(score),
	}
	if err := record.SetAnswers(answers); err != nil {
		panic(fmt.Sprintf("encode answers: %v", err))
	}
	if err := repo.Create(record); err != nil {
		panic(fmt.Sprintf("seed record: %v", err))
	}
	return record
}
