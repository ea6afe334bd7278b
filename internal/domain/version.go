package domain

import "time"

// DocumentVersion is a retained snapshot of a document's content as it
// existed immediately before a write. A snapshot carries its own copy of
// the content at whatever tier the document used at the time; its object
// key (if any) is owned by the snapshot, not shared with the live record.
type DocumentVersion struct {
	ID            uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	DocumentID    uint64 `gorm:"column:document_id;index;not null" json:"document_id"`
	VersionNumber int    `gorm:"column:version_number;not null" json:"version_number"`

	ContentDelta *string `gorm:"column:content_delta;type:longtext" json:"-"`
	ContentHTML  *string `gorm:"column:content_html;type:longtext" json:"-"`
	ObjectKey    *string `gorm:"column:object_key;size:255" json:"-"`
	SizeBytes    int     `gorm:"column:size_bytes;default:0" json:"size_bytes"`

	ChangeSummary *string `gorm:"column:change_summary;size:255" json:"change_summary,omitempty"`
	CreatedBy     string  `gorm:"column:created_by;size:100" json:"created_by,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName returns the table name for DocumentVersion
func (DocumentVersion) TableName() string {
	return "marktrack_document_versions"
}

// VersionListResponse lists a document's retained versions
type VersionListResponse struct {
	DocumentID     uint64             `json:"document_id"`
	DocumentTitle  string             `json:"document_title"`
	CurrentVersion int                `json:"current_version"`
	Versions       []*DocumentVersion `json:"versions"`
}

// RestoreVersionResult reports the outcome of a version restore
type RestoreVersionResult struct {
	Status          string `json:"status"`
	RestoredVersion int    `json:"restored_version"`
	NewVersion      int    `json:"new_version"`
}
