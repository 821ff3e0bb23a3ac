package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/school-portal-api/internal/auth"
	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/repository"
)

// TeacherService serves the teacher views.
type TeacherService interface {
	Profile(ctx context.Context, caller auth.UserContext) (dto.TeacherResponse, error)
	MyStudents(ctx context.Context, caller auth.UserContext) ([]dto.StudentResponse, error)
}

type teacherService struct {
	teachers repository.TeacherRepository
	students repository.StudentRepository
	logger   zerolog.Logger
}

// NewTeacherService constructs the teacher service.
func NewTeacherService(teachers repository.TeacherRepository, students repository.StudentRepository, logger zerolog.Logger) TeacherService {
	return &teacherService{
		teachers: teachers,
		students: students,
		logger:   logger.With().Str("component", "teacher_service").Logger(),
	}
}

func (s *teacherService) Profile(ctx context.Context, caller auth.UserContext) (dto.TeacherResponse, error) {
	teacher, err := s.load(ctx, caller)
	if err != nil {
		return dto.TeacherResponse{}, err
	}
	return dto.NewTeacherResponse(teacher), nil
}

// MyStudents lists every student whose class and section match any of the teacher's
// class assignments.
func (s *teacherService) MyStudents(ctx context.Context, caller auth.UserContext) ([]dto.StudentResponse, error) {
	teacher, err := s.load(ctx, caller)
	if err != nil {
		return nil, err
	}
	if len(teacher.Classes) == 0 {
		return []dto.StudentResponse{}, nil
	}

	pairs := make([]repository.ClassSection, 0, len(teacher.Classes))
	for _, class := range teacher.Classes {
		pairs = append(pairs, repository.ClassSection{Class: class.ClassName, Section: class.Section})
	}

	students, err := s.students.ListByClassSections(ctx, pairs)
	if err != nil {
		return nil, err
	}

	result := make([]dto.StudentResponse, 0, len(students))
	for _, student := range students {
		result = append(result, dto.NewStudentListItem(student))
	}
	s.logger.Debug().Uint("teacher_id", teacher.ID).Int("students", len(result)).Msg("resolved teacher roster")
	return result, nil
}

func (s *teacherService) load(ctx context.Context, caller auth.UserContext) (models.Teacher, error) {
	if err := requireRole(caller, models.RoleTeacher); err != nil {
		return models.Teacher{}, err
	}
	teacher, err := s.teachers.GetByUserID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Teacher{}, ErrTeacherNotFound
		}
		return models.Teacher{}, err
	}
	return teacher, nil
}
