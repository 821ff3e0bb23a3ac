package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/school-portal-api/internal/models"
)

// AdminDashboardRepository supplies the counters shown on the admin dashboard.
type AdminDashboardRepository interface {
	CountStudents(ctx context.Context) (int64, error)
	CountTeachers(ctx context.Context) (int64, error)
	CountParents(ctx context.Context) (int64, error)
	CountActiveUsers(ctx context.Context) (int64, error)
}

type adminDashboardRepository struct {
	db *gorm.DB
}

// NewAdminDashboardRepository constructs the dashboard repository.
func NewAdminDashboardRepository(db *gorm.DB) AdminDashboardRepository {
	return &adminDashboardRepository{db: db}
}

func (r *adminDashboardRepository) CountStudents(ctx context.Context) (int64, error) {
	return r.count(ctx, &models.Student{})
}

func (r *adminDashboardRepository) CountTeachers(ctx context.Context) (int64, error) {
	return r.count(ctx, &models.Teacher{})
}

func (r *adminDashboardRepository) CountParents(ctx context.Context) (int64, error) {
	return r.count(ctx, &models.Parent{})
}

func (r *adminDashboardRepository) CountActiveUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

func (r *adminDashboardRepository) count(ctx context.Context, model interface{}) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(model).Count(&count).Error
	return count, err
}
