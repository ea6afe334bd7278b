package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/marktrack/marktrack-backend/internal/common"
	"github.com/marktrack/marktrack-backend/internal/domain"
)

// DocumentRepository handles document data operations
type DocumentRepository interface {
	// Create persists a new document record
	Create(doc *domain.Document) error
	// FindByID returns a document with its owner preloaded
	FindByID(id uint64) (*domain.Document, error)
	// Update persists every field of the record, including cleared
	// (NULL) content columns after a tier migration
	Update(doc *domain.Document) error
	// List returns a filtered, paginated page of documents
	List(q *domain.ListDocumentsQuery, ownerID *uint64) ([]*domain.Document, int64, error)
	// SoftDelete flags a document deleted without removing content
	SoftDelete(id uint64, at time.Time) error
	// RestoreDeleted clears the soft-delete flag
	RestoreDeleted(id uint64) error
	// HardDelete removes the document record permanently
	HardDelete(id uint64) error
	// Stats aggregates storage numbers, optionally per owner
	Stats(ownerID *uint64) (*domain.StorageStats, error)
}

type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new DocumentRepository
func NewDocumentRepository(db *gorm.DB) DocumentRepository {
	return &documentRepository{db: db}
}

func (r *documentRepository) Create(doc *domain.Document) error {
	return r.db.Create(doc).Error
}

func (r *documentRepository) FindByID(id uint64) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.Preload("Owner").First(&doc, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepository) Update(doc *domain.Document) error {
	// Save writes all columns so nil content pointers persist as NULL
	return r.db.Save(doc).Error
}

func (r *documentRepository) List(q *domain.ListDocumentsQuery, ownerID *uint64) ([]*domain.Document, int64, error) {
	query := r.db.Model(&domain.Document{}).Preload("Owner")

	if ownerID != nil {
		query = query.Where("owner_id = ?", *ownerID)
	}
	if !q.IncludeDeleted {
		query = query.Where("is_deleted = ?", false)
	}
	if q.Search != "" {
		query = query.Where("title LIKE ?", "%"+q.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var docs []*domain.Document
	err := query.Order("updated_at DESC").
		Offset((q.Page - 1) * q.PerPage).
		Limit(q.PerPage).
		Find(&docs).Error
	return docs, total, err
}

func (r *documentRepository) SoftDelete(id uint64, at time.Time) error {
	return r.db.Model(&domain.Document{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_at": at,
		}).Error
}

func (r *documentRepository) RestoreDeleted(id uint64) error {
	return r.db.Model(&domain.Document{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_deleted": false,
			"deleted_at": nil,
		}).Error
}

func (r *documentRepository) HardDelete(id uint64) error {
	return r.db.Delete(&domain.Document{}, id).Error
}

func (r *documentRepository) Stats(ownerID *uint64) (*domain.StorageStats, error) {
	stats := &domain.StorageStats{}

	base := func() *gorm.DB {
		q := r.db.Model(&domain.Document{})
		if ownerID != nil {
			q = q.Where("owner_id = ?", *ownerID)
		}
		return q
	}

	if err := base().Where("is_deleted = ?", false).Count(&stats.TotalDocuments).Error; err != nil {
		return nil, err
	}
	if err := base().Where("is_deleted = ?", true).Count(&stats.DeletedDocuments).Error; err != nil {
		return nil, err
	}
	if err := base().Where("is_deleted = ? AND storage_type = ?", false, domain.StorageDatabase).
		Count(&stats.DatabaseDocuments).Error; err != nil {
		return nil, err
	}
	if err := base().Where("is_deleted = ? AND storage_type = ?", false, domain.StorageObject).
		Count(&stats.ObjectDocuments).Error; err != nil {
		return nil, err
	}

	var totalSize *int64
	if err := base().Where("is_deleted = ?", false).
		Select("SUM(size_bytes)").Scan(&totalSize).Error; err != nil {
		return nil, err
	}
	if totalSize != nil {
		stats.TotalSizeBytes = *totalSize
	}
	stats.TotalSizeMB = float64(stats.TotalSizeBytes) / (1024 * 1024)

	return stats, nil
}
