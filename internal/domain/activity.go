package domain

import "time"

// Activity types
const (
	ActivityCreated         = "created"
	ActivityUpdated         = "updated"
	ActivityViewed          = "viewed"
	ActivityDeleted         = "deleted"
	ActivityRestored        = "restored"
	ActivityVersionRestored = "version_restored"
	ActivityShared          = "shared"
)

// DocumentActivity is a best-effort audit record of document access
type DocumentActivity struct {
	ID         uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	DocumentID uint64 `gorm:"column:document_id;index;not null" json:"document_id"`
	UserEmail  string `gorm:"column:user_email;size:255;not null" json:"user_email"`

	ActivityType string  `gorm:"column:activity_type;type:varchar(50);not null" json:"activity_type"`
	Description  *string `gorm:"column:description;type:text" json:"description,omitempty"`

	IPAddress *string `gorm:"column:ip_address;size:45" json:"-"`
	UserAgent *string `gorm:"column:user_agent;type:text" json:"-"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName returns the table name for DocumentActivity
func (DocumentActivity) TableName() string {
	return "marktrack_document_activities"
}
