package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/noah-isme/school-portal-api/internal/models"
)

// AccountRepository persists a user together with its role profile.
type AccountRepository interface {
	Create(ctx context.Context, user *models.User, profile models.Profile) error
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository constructs the account repository.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// Create writes the user and its profile in one transaction. Either both rows exist
// afterwards or neither does.
func (r *accountRepository) Create(ctx context.Context, user *models.User, profile models.Profile) error {
	if user == nil || profile == nil {
		return fmt.Errorf("user and profile are required")
	}
	if user.Role != profile.ProfileRole() {
		return fmt.Errorf("profile for role %q cannot be attached to a %q user", profile.ProfileRole(), user.Role)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		profile.AttachUser(user.ID)

		switch record := profile.(type) {
		case *models.Parent:
			// children are existing students; only the join rows are written
			return tx.Omit("Children.*").Create(record).Error
		case *models.Student:
			return tx.Create(record).Error
		case *models.Teacher:
			return tx.Create(record).Error
		case *models.Admin:
			return tx.Create(record).Error
		default:
			return fmt.Errorf("unsupported profile type %T", profile)
		}
	})
}
