package migration

import (
	"gorm.io/gorm"

	"github.com/marktrack/marktrack-backend/internal/domain"
)

// Run executes AutoMigrate for the document editor tables. Tables are
// created when missing and altered in place otherwise.
func Run(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Document{},
		&domain.DocumentVersion{},
		&domain.DocumentShare{},
		&domain.DocumentActivity{},
	)
}
