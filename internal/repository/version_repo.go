package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/marktrack/marktrack-backend/internal/common"
	"github.com/marktrack/marktrack-backend/internal/domain"
)

// VersionRepository handles document version snapshots
type VersionRepository interface {
	// Create persists a new snapshot record
	Create(version *domain.DocumentVersion) error
	// FindByID returns a specific snapshot
	FindByID(id uint64) (*domain.DocumentVersion, error)
	// CountByDocument returns the number of snapshots for a document
	CountByDocument(documentID uint64) (int64, error)
	// OldestByDocument returns up to limit snapshots, oldest first
	OldestByDocument(documentID uint64, limit int) ([]*domain.DocumentVersion, error)
	// ListByDocument returns all snapshots, newest first
	ListByDocument(documentID uint64) ([]*domain.DocumentVersion, error)
	// Delete removes a snapshot record
	Delete(id uint64) error
	// DeleteByDocument removes all snapshot records for a document
	DeleteByDocument(documentID uint64) error
}

type versionRepository struct {
	db *gorm.DB
}

// NewVersionRepository creates a new VersionRepository
func NewVersionRepository(db *gorm.DB) VersionRepository {
	return &versionRepository{db: db}
}

func (r *versionRepository) Create(version *domain.DocumentVersion) error {
	return r.db.Create(version).Error
}

func (r *versionRepository) FindByID(id uint64) (*domain.DocumentVersion, error) {
	var version domain.DocumentVersion
	err := r.db.First(&version, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &version, nil
}

func (r *versionRepository) CountByDocument(documentID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&domain.DocumentVersion{}).
		Where("document_id = ?", documentID).
		Count(&count).Error
	return count, err
}

func (r *versionRepository) OldestByDocument(documentID uint64, limit int) ([]*domain.DocumentVersion, error) {
	var versions []*domain.DocumentVersion
	err := r.db.Where("document_id = ?", documentID).
		Order("created_at ASC").
		Limit(limit).
		Find(&versions).Error
	return versions, err
}

func (r *versionRepository) ListByDocument(documentID uint64) ([]*domain.DocumentVersion, error) {
	var versions []*domain.DocumentVersion
	err := r.db.Where("document_id = ?", documentID).
		Order("created_at DESC").
		Find(&versions).Error
	return versions, err
}

func (r *versionRepository) Delete(id uint64) error {
	return r.db.Delete(&domain.DocumentVersion{}, id).Error
}

func (r *versionRepository) DeleteByDocument(documentID uint64) error {
	return r.db.Where("document_id = ?", documentID).
		Delete(&domain.DocumentVersion{}).Error
}
