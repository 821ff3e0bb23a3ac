package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/school-portal-api/internal/models"
)

const parentChildrenTable = "parent_children"

// ParentRepository provides access to parent profiles and their child references.
type ParentRepository interface {
	GetByUserID(ctx context.Context, userID uint) (models.Parent, error)
	ChildIDs(ctx context.Context, parentID uint) ([]uint, error)
	ChildIDsFor(ctx context.Context, parentIDs []uint) (map[uint][]uint, error)
	ListWithUser(ctx context.Context) ([]models.Parent, error)
}

type parentRepository struct {
	db *gorm.DB
}

// NewParentRepository constructs a parent repository.
func NewParentRepository(db *gorm.DB) ParentRepository {
	return &parentRepository{db: db}
}

func (r *parentRepository) GetByUserID(ctx context.Context, userID uint) (models.Parent, error) {
	var parent models.Parent
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&parent).Error
	if err != nil {
		return models.Parent{}, err
	}
	return parent, nil
}

func (r *parentRepository) ChildIDs(ctx context.Context, parentID uint) ([]uint, error) {
	ids := make([]uint, 0)
	err := r.db.WithContext(ctx).
		Table(parentChildrenTable).
		Where("parent_id = ?", parentID).
		Order("student_id ASC").
		Pluck("student_id", &ids).Error
	return ids, err
}

func (r *parentRepository) ChildIDsFor(ctx context.Context, parentIDs []uint) (map[uint][]uint, error) {
	result := make(map[uint][]uint, len(parentIDs))
	if len(parentIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		ParentID  uint
		StudentID uint
	}
	err := r.db.WithContext(ctx).
		Table(parentChildrenTable).
		Select("parent_id, student_id").
		Where("parent_id IN ?", parentIDs).
		Order("parent_id ASC").
		Order("student_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.ParentID] = append(result[row.ParentID], row.StudentID)
	}
	return result, nil
}

func (r *parentRepository) ListWithUser(ctx context.Context) ([]models.Parent, error) {
	var parents []models.Parent
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("id ASC").
		Find(&parents).Error
	return parents, err
}
