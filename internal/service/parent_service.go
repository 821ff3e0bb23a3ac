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

// ParentService serves the parent views.
type ParentService interface {
	Profile(ctx context.Context, caller auth.UserContext) (dto.ParentResponse, error)
	Children(ctx context.Context, caller auth.UserContext) ([]dto.StudentResponse, error)
}

type parentService struct {
	parents  repository.ParentRepository
	students repository.StudentRepository
	logger   zerolog.Logger
}

// NewParentService constructs the parent service.
func NewParentService(parents repository.ParentRepository, students repository.StudentRepository, logger zerolog.Logger) ParentService {
	return &parentService{
		parents:  parents,
		students: students,
		logger:   logger.With().Str("component", "parent_service").Logger(),
	}
}

func (s *parentService) Profile(ctx context.Context, caller auth.UserContext) (dto.ParentResponse, error) {
	parent, childIDs, err := s.load(ctx, caller)
	if err != nil {
		return dto.ParentResponse{}, err
	}

	children, err := s.children(ctx, childIDs)
	if err != nil {
		return dto.ParentResponse{}, err
	}

	response := dto.NewParentResponse(parent, childIDs)
	response.Children = children
	return response, nil
}

func (s *parentService) Children(ctx context.Context, caller auth.UserContext) ([]dto.StudentResponse, error) {
	_, childIDs, err := s.load(ctx, caller)
	if err != nil {
		return nil, err
	}
	return s.children(ctx, childIDs)
}

func (s *parentService) load(ctx context.Context, caller auth.UserContext) (models.Parent, []uint, error) {
	if err := requireRole(caller, models.RoleParent); err != nil {
		return models.Parent{}, nil, err
	}
	parent, err := s.parents.GetByUserID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Parent{}, nil, ErrParentNotFound
		}
		return models.Parent{}, nil, err
	}
	childIDs, err := s.parents.ChildIDs(ctx, parent.ID)
	if err != nil {
		return models.Parent{}, nil, err
	}
	return parent, childIDs, nil
}

// children resolves child references; references to students that no longer exist are
// skipped.
func (s *parentService) children(ctx context.Context, ids []uint) ([]dto.StudentResponse, error) {
	if len(ids) == 0 {
		return []dto.StudentResponse{}, nil
	}
	students, err := s.students.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(students) != len(ids) {
		s.logger.Warn().Int("expected", len(ids)).Int("found", len(students)).Msg("parent references missing students")
	}

	result := make([]dto.StudentResponse, 0, len(students))
	for _, student := range students {
		result = append(result, dto.NewChildResponse(student))
	}
	return result, nil
}
