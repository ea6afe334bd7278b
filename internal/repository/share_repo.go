package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/marktrack/marktrack-backend/internal/common"
	"github.com/marktrack/marktrack-backend/internal/domain"
)

// ShareRepository handles document share grants
type ShareRepository interface {
	// Create persists a new share grant
	Create(share *domain.DocumentShare) error
	// FindByID returns a specific grant
	FindByID(id uint64) (*domain.DocumentShare, error)
	// FindByToken returns a grant by its access token
	FindByToken(token string) (*domain.DocumentShare, error)
	// ListByDocument returns all grants on a document
	ListByDocument(documentID uint64) ([]*domain.DocumentShare, error)
	// ListByUser returns active grants held by a user
	ListByUser(userID uint64) ([]*domain.DocumentShare, error)
	// Update persists grant changes
	Update(share *domain.DocumentShare) error
	// RecordAccess atomically bumps access counters on a grant
	RecordAccess(id uint64, at time.Time) error
	// DeleteByDocument removes all grants on a document
	DeleteByDocument(documentID uint64) error
}

type shareRepository struct {
	db *gorm.DB
}

// NewShareRepository creates a new ShareRepository
func NewShareRepository(db *gorm.DB) ShareRepository {
	return &shareRepository{db: db}
}

func (r *shareRepository) Create(share *domain.DocumentShare) error {
	return r.db.Create(share).Error
}

func (r *shareRepository) FindByID(id uint64) (*domain.DocumentShare, error) {
	var share domain.DocumentShare
	err := r.db.Preload("User").First(&share, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrShareNotFound
		}
		return nil, err
	}
	return &share, nil
}

func (r *shareRepository) FindByToken(token string) (*domain.DocumentShare, error) {
	var share domain.DocumentShare
	err := r.db.Preload("User").Where("share_token = ?", token).First(&share).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrShareNotFound
		}
		return nil, err
	}
	return &share, nil
}

func (r *shareRepository) ListByDocument(documentID uint64) ([]*domain.DocumentShare, error) {
	var shares []*domain.DocumentShare
	err := r.db.Preload("User").
		Where("document_id = ?", documentID).
		Order("created_at DESC").
		Find(&shares).Error
	return shares, err
}

func (r *shareRepository) ListByUser(userID uint64) ([]*domain.DocumentShare, error) {
	var shares []*domain.DocumentShare
	err := r.db.Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		Find(&shares).Error
	return shares, err
}

func (r *shareRepository) Update(share *domain.DocumentShare) error {
	return r.db.Save(share).Error
}

func (r *shareRepository) RecordAccess(id uint64, at time.Time) error {
	return r.db.Model(&domain.DocumentShare{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"access_count":     gorm.Expr("access_count + 1"),
			"last_accessed_at": at,
		}).Error
}

func (r *shareRepository) DeleteByDocument(documentID uint64) error {
	return r.db.Where("document_id = ?", documentID).
		Delete(&domain.DocumentShare{}).Error
}
