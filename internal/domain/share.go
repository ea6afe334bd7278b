package domain

import "time"

// Share permission levels
const (
	PermissionRead  = "read"
	PermissionWrite = "write"
	PermissionAdmin = "admin"
)

// ValidPermission reports whether level is a known permission level
func ValidPermission(level string) bool {
	switch level {
	case PermissionRead, PermissionWrite, PermissionAdmin:
		return true
	}
	return false
}

// DocumentShare is a token-addressable, expiring grant of access to a
// document. Access count and last-access are updated on every read.
type DocumentShare struct {
	ID         uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	DocumentID uint64 `gorm:"column:document_id;index;not null" json:"document_id"`
	UserID     uint64 `gorm:"column:user_id;index;not null" json:"user_id"`
	User       *User  `gorm:"foreignKey:UserID" json:"-"`

	PermissionLevel string `gorm:"column:permission_level;type:varchar(20);default:read" json:"permission_level"`
	ShareToken      string `gorm:"column:share_token;size:100;uniqueIndex;not null" json:"share_token"`

	IsActive       bool       `gorm:"column:is_active;default:true" json:"is_active"`
	ExpiresAt      *time.Time `gorm:"column:expires_at" json:"expires_at,omitempty"`
	AccessCount    int        `gorm:"column:access_count;default:0" json:"access_count"`
	LastAccessedAt *time.Time `gorm:"column:last_accessed_at" json:"last_accessed_at,omitempty"`

	SharedByEmail string  `gorm:"column:shared_by_email;size:255;not null" json:"shared_by_email"`
	ShareMessage  *string `gorm:"column:share_message;type:text" json:"share_message,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName returns the table name for DocumentShare
func (DocumentShare) TableName() string {
	return "marktrack_document_shares"
}

// IsExpired reports whether the share link has passed its expiry
func (s *DocumentShare) IsExpired(now time.Time) bool {
	return s.ExpiresAt != nil && now.After(*s.ExpiresAt)
}

// CreateShareRequest grants document access to a user by email
type CreateShareRequest struct {
	UserEmail       string `json:"user_email" binding:"required"`
	PermissionLevel string `json:"permission_level"`
	SharedByEmail   string `json:"shared_by_email" binding:"required"`
	ShareMessage    string `json:"share_message"`
	ExpiresInHours  int    `json:"expires_in_hours"`
}

// UpdateShareRequest changes an existing grant
type UpdateShareRequest struct {
	PermissionLevel string `json:"permission_level"`
	ExpiresInHours  int    `json:"expires_in_hours"`
}

// SharedDocumentResponse bundles a grant with the resolved document
type SharedDocumentResponse struct {
	Share    *DocumentShare   `json:"share"`
	Document *DocumentContent `json:"document"`
}
