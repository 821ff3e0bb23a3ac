package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/school-portal-api/internal/models"
)

// ClassSection identifies a (class, section) pair.
type ClassSection struct {
	Class   string
	Section string
}

// StudentRepository provides access to student profiles.
type StudentRepository interface {
	GetByUserID(ctx context.Context, userID uint) (models.Student, error)
	GetByID(ctx context.Context, id uint) (models.Student, error)
	ListWithUser(ctx context.Context) ([]models.Student, error)
	ListByClassSections(ctx context.Context, pairs []ClassSection) ([]models.Student, error)
	ListByIDs(ctx context.Context, ids []uint) ([]models.Student, error)
	CountByIDs(ctx context.Context, ids []uint) (int64, error)
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) GetByUserID(ctx context.Context, userID uint) (models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Grades", func(db *gorm.DB) *gorm.DB {
			return db.Order("exam_date ASC").Order("id ASC")
		}).
		Preload("Attendance", func(db *gorm.DB) *gorm.DB {
			return db.Order("date ASC").Order("id ASC")
		}).
		Where("user_id = ?", userID).
		First(&student).Error
	if err != nil {
		return models.Student{}, err
	}
	return student, nil
}

func (r *studentRepository) GetByID(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).Preload("User").First(&student, id).Error; err != nil {
		return models.Student{}, err
	}
	return student, nil
}

func (r *studentRepository) ListWithUser(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("class ASC").Order("section ASC").Order("roll_number ASC").Order("id ASC").
		Find(&students).Error
	return students, err
}

// ListByClassSections returns students matching any of the given pairs.
func (r *studentRepository) ListByClassSections(ctx context.Context, pairs []ClassSection) ([]models.Student, error) {
	if len(pairs) == 0 {
		return []models.Student{}, nil
	}

	clauses := make([]string, 0, len(pairs))
	args := make([]interface{}, 0, len(pairs)*2)
	for _, pair := range pairs {
		clauses = append(clauses, "(class = ? AND section = ?)")
		args = append(args, pair.Class, pair.Section)
	}

	var students []models.Student
	err := r.db.WithContext(ctx).
		Preload("User").
		Where(strings.Join(clauses, " OR "), args...).
		Order("class ASC").Order("section ASC").Order("roll_number ASC").Order("id ASC").
		Find(&students).Error
	return students, err
}

func (r *studentRepository) ListByIDs(ctx context.Context, ids []uint) ([]models.Student, error) {
	if len(ids) == 0 {
		return []models.Student{}, nil
	}

	var students []models.Student
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&students).Error
	return students, err
}

func (r *studentRepository) CountByIDs(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Where("id IN ?", ids).
		Count(&count).Error
	return count, err
}
