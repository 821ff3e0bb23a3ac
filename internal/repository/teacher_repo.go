package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/school-portal-api/internal/models"
)

// TeacherRepository provides access to teacher profiles.
type TeacherRepository interface {
	GetByUserID(ctx context.Context, userID uint) (models.Teacher, error)
	GetByID(ctx context.Context, id uint) (models.Teacher, error)
	ListWithUser(ctx context.Context) ([]models.Teacher, error)
	AddClass(ctx context.Context, class *models.TeacherClass) error
}

type teacherRepository struct {
	db *gorm.DB
}

// NewTeacherRepository constructs a teacher repository.
func NewTeacherRepository(db *gorm.DB) TeacherRepository {
	return &teacherRepository{db: db}
}

func (r *teacherRepository) GetByUserID(ctx context.Context, userID uint) (models.Teacher, error) {
	var teacher models.Teacher
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Classes", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("user_id = ?", userID).
		First(&teacher).Error
	if err != nil {
		return models.Teacher{}, err
	}
	return teacher, nil
}

func (r *teacherRepository) GetByID(ctx context.Context, id uint) (models.Teacher, error) {
	var teacher models.Teacher
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Classes", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&teacher, id).Error
	if err != nil {
		return models.Teacher{}, err
	}
	return teacher, nil
}

// AddClass assigns one more class to a teacher. Assigning the same pair twice fails with
// gorm.ErrDuplicatedKey.
func (r *teacherRepository) AddClass(ctx context.Context, class *models.TeacherClass) error {
	return r.db.WithContext(ctx).Create(class).Error
}

func (r *teacherRepository) ListWithUser(ctx context.Context) ([]models.Teacher, error) {
	var teachers []models.Teacher
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Classes", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("id ASC").
		Find(&teachers).Error
	return teachers, err
}
