package repository

import (
	"errors"
	"time"

	"mindwell_backend/internal/model"
	"mindwell_backend/internal/util"

	"gorm.io/gorm"
)

// HistoryFilter narrows a history listing. Zero values mean "no constraint".
type HistoryFilter struct {
	UserID   uint
	From     *time.Time
	To       *time.Time
	RiskTier model.RiskTier
	MinScore *int
	MaxScore *int
}

type HistoryRepository struct {
	DB *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{DB: db}
}

// Create appends a record. Ids are generated internally, so a duplicate is a
// programming-invariant violation; it is checked defensively before insert.
func (r *HistoryRepository) Create(record *model.AssessmentRecord) error {
	if record.ID != "" {
		var count int64
		if err := r.DB.Model(&model.AssessmentRecord{}).Where("id = ?", record.ID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return util.ErrDuplicateRecord
		}
	}
	return r.DB.Create(record).Error
}

func (r *HistoryRepository) FindByID(id string) (*model.AssessmentRecord, error) {
	var record model.AssessmentRecord
	err := r.DB.First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns matching records oldest-first. The returned slice is a copy;
// mutating it never touches stored state.
func (r *HistoryRepository) List(filter HistoryFilter) ([]model.AssessmentRecord, error) {
	var records []model.AssessmentRecord
	query := r.DB.Model(&model.AssessmentRecord{})
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}
	if filter.RiskTier != "" {
		query = query.Where("risk_tier = ?", filter.RiskTier)
	}
	if filter.MinScore != nil {
		query = query.Where("score >= ?", *filter.MinScore)
	}
	if filter.MaxScore != nil {
		query = query.Where("score <= ?", *filter.MaxScore)
	}
	err := query.Order("created_at asc").Find(&records).Error
	return records, err
}

// ListUnsynced is the derived sync queue: every record still waiting for
// remote reconciliation, oldest first. userID 0 spans all users.
func (r *HistoryRepository) ListUnsynced(userID uint) ([]model.AssessmentRecord, error) {
	var records []model.AssessmentRecord
	query := r.DB.Where("synced = ?", false)
	if userID > 0 {
		query = query.Where("user_id = ?", userID)
	}
	err := query.Order("created_at asc").Find(&records).Error
	return records, err
}

// MarkSynced flips the synced flag, the only post-creation mutation besides
// notes.
func (r *HistoryRepository) MarkSynced(id string) error {
	result := r.DB.Model(&model.AssessmentRecord{}).Where("id = ?", id).Update("synced", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return util.ErrRecordNotFound
	}
	return nil
}

func (r *HistoryRepository) UpdateNotes(id string, notes string) error {
	result := r.DB.Model(&model.AssessmentRecord{}).Where("id = ?", id).Update("notes", notes)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return util.ErrRecordNotFound
	}
	return nil
}

func (r *HistoryRepository) Delete(id string) error {
	result := r.DB.Delete(&model.AssessmentRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return util.ErrRecordNotFound
	}
	return nil
}

// Aggregate recomputes dashboard stats from current contents on every call.
// No caching, so sync updates can never leave it stale.
func (r *HistoryRepository) Aggregate(userID uint) (*model.AggregateStats, error) {
	var stats model.AggregateStats
	query := r.DB.Model(&model.AssessmentRecord{}).
		Select("COUNT(*) as count, COALESCE(AVG(score), 0) as average, COALESCE(MIN(score), 0) as min, COALESCE(MAX(score), 0) as max")
	if userID > 0 {
		query = query.Where("user_id = ?", userID)
	}
	err := query.Scan(&stats).Error
	return &stats, err
}

type TierCount struct {
	RiskTier model.RiskTier `json:"riskTier"`
	Count    int64          `json:"count"`
}

// RiskDistribution groups all records by tier for the admin dashboard.
func (r *HistoryRepository) RiskDistribution() ([]TierCount, error) {
	var rows []TierCount
	err := r.DB.Model(&model.AssessmentRecord{}).
		Select("risk_tier, COUNT(*) as count").
		Group("risk_tier").
		Scan(&rows).Error
	return rows, err
}

func (r *HistoryRepository) CountUnsynced() (int64, error) {
	var count int64
	err := r.DB.Model(&model.AssessmentRecord{}).Where("synced = ?", false).Count(&count).Error
	return count, err
}
