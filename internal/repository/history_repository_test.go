package repository

import (
	"fmt"
	"testing"
	"time"

	"mindwell_backend/internal/model"
	"mindwell_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) *HistoryRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.AssessmentRecord{}))
	return NewHistoryRepository(db)
}

func seedRecord(t *testing.T, repo *HistoryRepository, userID uint, score int, createdAt time.Time) *model.AssessmentRecord {
	t.Helper()
	record := &model.AssessmentRecord{
		UserID:    userID,
		Score:     score,
		RiskTier:  model.TierForScore(score),
		CreatedAt: createdAt,
	}
	require.NoError(t, record.SetAnswers([]model.Answer{
		{QuestionID: "q1", Answer: "Great", AnsweredAt: createdAt},
	}))
	require.NoError(t, repo.Create(record))
	return record
}

func TestCreateAssignsIDAndRoundTrips(t *testing.T) {
	repo := newTestRepo(t)

	record := seedRecord(t, repo, 1, 53, time.Now())
	require.NotEmpty(t, record.ID)

	found, err := repo.FindByID(record.ID)
	require.NoError(t, err)
	assert.Equal(t, 53, found.Score)
	assert.Equal(t, model.TierFair, found.RiskTier)
	assert.False(t, found.Synced)

	answers, err := found.Answers()
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Equal(t, "Great", answers[0].Answer)
}

func TestCreateRejectsDuplicateID(t *testing.T) {
	repo := newTestRepo(t)
	record := seedRecord(t, repo, 1, 53, time.Now())

	err := repo.Create(&model.AssessmentRecord{ID: record.ID, UserID: 1})
	assert.ErrorIs(t, err, util.ErrDuplicateRecord)
}

func TestFindByIDUnknown(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.FindByID("does-not-exist")
	assert.ErrorIs(t, err, util.ErrRecordNotFound)
}

func TestListOrdersAndFilters(t *testing.T) {
	repo := newTestRepo(t)
	base := time.Now().Add(-3 * time.Hour)

	oldest := seedRecord(t, repo, 1, 90, base)
	middle := seedRecord(t, repo, 1, 45, base.Add(time.Hour))
	newest := seedRecord(t, repo, 2, 30, base.Add(2*time.Hour))

	t.Run("oldest first", func(t *testing.T) {
		records, err := repo.List(HistoryFilter{})
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, oldest.ID, records[0].ID)
		assert.Equal(t, newest.ID, records[2].ID)
	})

	t.Run("by user", func(t *testing.T) {
		records, err := repo.List(HistoryFilter{UserID: 2})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, newest.ID, records[0].ID)
	})

	t.Run("by time window", func(t *testing.T) {
		from := base.Add(30 * time.Minute)
		to := base.Add(90 * time.Minute)
		records, err := repo.List(HistoryFilter{From: &from, To: &to})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, middle.ID, records[0].ID)
	})

	t.Run("by tier and score", func(t *testing.T) {
		records, err := repo.List(HistoryFilter{RiskTier: model.TierExcellent})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, oldest.ID, records[0].ID)

		min := 40
		records, err = repo.List(HistoryFilter{MinScore: &min})
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})
}

func TestSyncQueueLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	base := time.Now().Add(-time.Hour)

	first := seedRecord(t, repo, 1, 53, base)
	second := seedRecord(t, repo, 1, 70, base.Add(time.Minute))

	queue, err := repo.ListUnsynced(1)
	require.NoError(t, err)
	require.Len(t, queue, 2)
	assert.Equal(t, first.ID, queue[0].ID)

	pending, err := repo.CountUnsynced()
	require.NoError(t, err)
	assert.Equal(t, int64(2), pending)

	require.NoError(t, repo.MarkSynced(first.ID))

	queue, err = repo.ListUnsynced(1)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, second.ID, queue[0].ID)

	assert.ErrorIs(t, repo.MarkSynced("ghost"), util.ErrRecordNotFound)
}

func TestUpdateNotesAndDelete(t *testing.T) {
	repo := newTestRepo(t)
	record := seedRecord(t, repo, 1, 53, time.Now())

	require.NoError(t, repo.UpdateNotes(record.ID, "slept poorly this week"))
	found, err := repo.FindByID(record.ID)
	require.NoError(t, err)
	assert.Equal(t, "slept poorly this week", found.Notes)

	assert.ErrorIs(t, repo.UpdateNotes("ghost", "x"), util.ErrRecordNotFound)

	require.NoError(t, repo.Delete(record.ID))
	_, err = repo.FindByID(record.ID)
	assert.ErrorIs(t, err, util.ErrRecordNotFound)
	assert.ErrorIs(t, repo.Delete(record.ID), util.ErrRecordNotFound)
}

func TestAggregateAndDistribution(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Now()

	seedRecord(t, repo, 1, 40, now)
	seedRecord(t, repo, 1, 60, now)
	seedRecord(t, repo, 2, 90, now)

	stats, err := repo.Aggregate(1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Count)
	assert.InDelta(t, 50.0, stats.Average, 0.001)
	assert.Equal(t, 40, stats.Min)
	assert.Equal(t, 60, stats.Max)

	all, err := repo.Aggregate(0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Count)

	dist, err := repo.RiskDistribution()
	require.NoError(t, err)
	counts := map[model.RiskTier]int64{}
	for _, row := range dist {
		counts[row.RiskTier] = row.Count
	}
	assert.Equal(t, int64(1), counts[model.TierFair])
	assert.Equal(t, int64(1), counts[model.TierGood])
	assert.Equal(t, int64(1), counts[model.TierExcellent])
}

func TestAggregateEmptyStore(t *testing.T) {
	repo := newTestRepo(t)

	stats, err := repo.Aggregate(1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Count)
	assert.Equal(t, 0.0, stats.Average)
}
