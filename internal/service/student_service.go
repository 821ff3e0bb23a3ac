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

// StudentService serves a student's own records.
type StudentService interface {
	Profile(ctx context.Context, caller auth.UserContext) (dto.StudentResponse, error)
	Grades(ctx context.Context, caller auth.UserContext) ([]dto.GradeResponse, error)
	Attendance(ctx context.Context, caller auth.UserContext) ([]dto.AttendanceResponse, error)
}

type studentService struct {
	students repository.StudentRepository
	logger   zerolog.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(students repository.StudentRepository, logger zerolog.Logger) StudentService {
	return &studentService{
		students: students,
		logger:   logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) Profile(ctx context.Context, caller auth.UserContext) (dto.StudentResponse, error) {
	student, err := s.own(ctx, caller)
	if err != nil {
		return dto.StudentResponse{}, err
	}
	return dto.NewStudentProfileResponse(student), nil
}

func (s *studentService) Grades(ctx context.Context, caller auth.UserContext) ([]dto.GradeResponse, error) {
	student, err := s.own(ctx, caller)
	if err != nil {
		return nil, err
	}
	return dto.NewGradeResponses(student.Grades), nil
}

func (s *studentService) Attendance(ctx context.Context, caller auth.UserContext) ([]dto.AttendanceResponse, error) {
	student, err := s.own(ctx, caller)
	if err != nil {
		return nil, err
	}
	return dto.NewAttendanceResponses(student.Attendance), nil
}

// own loads the caller's student record and confirms the caller owns it.
func (s *studentService) own(ctx context.Context, caller auth.UserContext) (models.Student, error) {
	if err := requireRole(caller, models.RoleStudent); err != nil {
		return models.Student{}, err
	}
	student, err := s.students.GetByUserID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Student{}, ErrStudentNotFound
		}
		return models.Student{}, err
	}
	if student.UserID != caller.UserID {
		s.logger.Warn().Uint("caller", caller.UserID).Uint("owner", student.UserID).Msg("student record ownership mismatch")
		return models.Student{}, auth.ErrForbidden
	}
	return student, nil
}
