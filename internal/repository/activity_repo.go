package repository

import (
	"gorm.io/gorm"

	"github.com/marktrack/marktrack-backend/internal/domain"
)

// ActivityRepository handles document activity records
type ActivityRepository interface {
	// Create persists an activity record
	Create(activity *domain.DocumentActivity) error
	// ListByDocument returns a paginated activity trail, newest first
	ListByDocument(documentID uint64, page, perPage int) ([]*domain.DocumentActivity, int64, error)
	// DeleteByDocument removes the trail for a document
	DeleteByDocument(documentID uint64) error
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(activity *domain.DocumentActivity) error {
	return r.db.Create(activity).Error
}

func (r *activityRepository) ListByDocument(documentID uint64, page, perPage int) ([]*domain.DocumentActivity, int64, error) {
	query := r.db.Model(&domain.DocumentActivity{}).Where("document_id = ?", documentID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var activities []*domain.DocumentActivity
	err := query.Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&activities).Error
	return activities, total, err
}

func (r *activityRepository) DeleteByDocument(documentID uint64) error {
	return r.db.Where("document_id = ?", documentID).
		Delete(&domain.DocumentActivity{}).Error
}
