package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/marktrack/marktrack-backend/internal/common"
	"github.com/marktrack/marktrack-backend/internal/domain"
)

// UserRepository handles user records keyed by email
type UserRepository interface {
	// FindByEmail returns a user by email
	FindByEmail(email string) (*domain.User, error)
	// GetOrCreate returns the user for an email, creating it on first use
	GetOrCreate(email, name string) (*domain.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByEmail(email string) (*domain.User, error) {
	var user domain.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetOrCreate(email, name string) (*domain.User, error) {
	user, err := r.FindByEmail(email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	user = &domain.User{Email: email, Name: name, IsActive: true}
	if err := r.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}
