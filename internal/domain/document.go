package domain

import (
	"encoding/json"
	"time"
)

// Storage tiers for document content
const (
	// StorageDatabase keeps content inline on the document record
	StorageDatabase = "database"
	// StorageObject keeps a compressed envelope in object storage
	StorageObject = "object"
)

// Document types
const (
	DocumentTypeCreated  = "created"
	DocumentTypeUploaded = "uploaded"
)

// Document is the authoritative record for a rich-text document.
// Exactly one of {ContentDelta+ContentHTML, ObjectKey} is set at any
// time, matching StorageType.
type Document struct {
	ID           uint64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title        string  `gorm:"column:title;size:255;not null" json:"title"`
	ContentDelta *string `gorm:"column:content_delta;type:longtext" json:"-"`
	ContentHTML  *string `gorm:"column:content_html;type:longtext" json:"-"`
	ObjectKey    *string `gorm:"column:object_key;size:255" json:"-"`
	StorageType  string  `gorm:"column:storage_type;type:varchar(20);default:database" json:"storage_type"`
	SizeBytes    int     `gorm:"column:size_bytes;default:0" json:"size_bytes"`

	DocumentType     string  `gorm:"column:document_type;type:varchar(50);default:created" json:"document_type"`
	OriginalFilename *string `gorm:"column:original_filename;size:255" json:"original_filename,omitempty"`
	MimeType         *string `gorm:"column:mime_type;size:100" json:"mime_type,omitempty"`

	OwnerID *uint64 `gorm:"column:owner_id;index" json:"owner_id,omitempty"`
	Owner   *User   `gorm:"foreignKey:OwnerID" json:"-"`

	VersionNumber int        `gorm:"column:version_number;default:1" json:"version_number"`
	IsDeleted     bool       `gorm:"column:is_deleted;default:false" json:"is_deleted"`
	DeletedAt     *time.Time `gorm:"column:deleted_at" json:"deleted_at,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName returns the table name for Document
func (Document) TableName() string {
	return "marktrack_documents"
}

// OwnerEmail returns the owner's email, empty when unowned
func (d *Document) OwnerEmail() string {
	if d.Owner == nil {
		return ""
	}
	return d.Owner.Email
}

// CreateDocumentRequest creates a new, empty document
type CreateDocumentRequest struct {
	Title      string `json:"title"`
	OwnerEmail string `json:"owner_email"`
}

// SaveDocumentRequest carries one save submission from the editor
type SaveDocumentRequest struct {
	Title      string          `json:"title"`
	Delta      json.RawMessage `json:"delta" binding:"required"`
	HTML       string          `json:"html"`
	UserEmail  string          `json:"user_email"`
	IsAutosave bool            `json:"is_autosave"`
}

// SaveResult reports the outcome of a save
type SaveResult struct {
	Status      string    `json:"status"`
	StorageType string    `json:"storage_type"`
	SizeBytes   int       `json:"size_bytes"`
	UpdatedAt   time.Time `json:"updated_at"`
	IsAutosave  bool      `json:"is_autosave"`
}

// DocumentContent is a fully resolved document payload, the shape both
// the load endpoint and the cache work with
type DocumentContent struct {
	ID               uint64          `json:"id"`
	Title            string          `json:"title"`
	Delta            json.RawMessage `json:"delta"`
	HTML             string          `json:"html"`
	StorageType      string          `json:"storage_type"`
	SizeBytes        int             `json:"size_bytes"`
	DocumentType     string          `json:"document_type"`
	OriginalFilename *string         `json:"original_filename,omitempty"`
	VersionNumber    int             `json:"version_number"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	OwnerEmail       string          `json:"owner_email,omitempty"`
}

// DocumentSummary is the list-view projection of a document
type DocumentSummary struct {
	ID            uint64     `json:"id"`
	Title         string     `json:"title"`
	StorageType   string     `json:"storage_type"`
	SizeBytes     int        `json:"size_bytes"`
	DocumentType  string     `json:"document_type"`
	VersionNumber int        `json:"version_number"`
	IsDeleted     bool       `json:"is_deleted"`
	CanRestore    bool       `json:"can_restore"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
	OwnerEmail    string     `json:"owner_email,omitempty"`
}

// ToSummary converts a document to its list-view projection
func (d *Document) ToSummary() *DocumentSummary {
	return &DocumentSummary{
		ID:            d.ID,
		Title:         d.Title,
		StorageType:   d.StorageType,
		SizeBytes:     d.SizeBytes,
		DocumentType:  d.DocumentType,
		VersionNumber: d.VersionNumber,
		IsDeleted:     d.IsDeleted,
		CanRestore:    d.IsDeleted,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
		DeletedAt:     d.DeletedAt,
		OwnerEmail:    d.OwnerEmail(),
	}
}

// ListDocumentsQuery filters and paginates the document list
type ListDocumentsQuery struct {
	Page           int
	PerPage        int
	OwnerEmail     string
	IncludeDeleted bool
	Search         string
}

// StorageStats aggregates system-wide storage numbers
type StorageStats struct {
	TotalDocuments    int64   `json:"total_documents"`
	DeletedDocuments  int64   `json:"deleted_documents"`
	DatabaseDocuments int64   `json:"database_documents"`
	ObjectDocuments   int64   `json:"object_documents"`
	TotalSizeBytes    int64   `json:"total_size_bytes"`
	TotalSizeMB       float64 `json:"total_size_mb"`
	OwnerEmail        string  `json:"owner_email,omitempty"`
}
