package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/school-portal-api/internal/auth"
	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/repository"
)

// Audit actions written by the gradebook.
const (
	ActionGradeRecorded      = "grade.recorded"
	ActionAttendanceRecorded = "attendance.recorded"
)

// GradebookService lets a teacher record results and attendance for the students of the
// classes they are assigned to.
type GradebookService interface {
	RecordGrade(ctx context.Context, caller auth.UserContext, req dto.RecordGradeRequest) (dto.RecordedGradeResponse, error)
	RecordAttendance(ctx context.Context, caller auth.UserContext, req dto.RecordAttendanceRequest) ([]dto.StudentAttendanceResponse, error)
}

// GradebookDependencies groups the collaborators of the gradebook service.
type GradebookDependencies struct {
	Teachers repository.TeacherRepository
	Students repository.StudentRepository
	Records  repository.RecordsRepository
	Activity ActivityRecorder
}

type gradebookService struct {
	deps      GradebookDependencies
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewGradebookService constructs the gradebook service. Activity may be nil.
func NewGradebookService(deps GradebookDependencies, validate *validator.Validate, logger zerolog.Logger) GradebookService {
	return &gradebookService{
		deps:      deps,
		validator: validate,
		logger:    logger.With().Str("component", "gradebook_service").Logger(),
		now:       time.Now,
	}
}

func (s *gradebookService) RecordGrade(ctx context.Context, caller auth.UserContext, req dto.RecordGradeRequest) (dto.RecordedGradeResponse, error) {
	teacher, err := s.teacher(ctx, caller)
	if err != nil {
		return dto.RecordedGradeResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.RecordedGradeResponse{}, err
	}

	marks := *req.Marks
	if marks > req.TotalMarks {
		return dto.RecordedGradeResponse{}, newValidationError("marks", "must not exceed totalMarks")
	}
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		return dto.RecordedGradeResponse{}, newValidationError("subject", "must contain text")
	}
	if !teachesSubject(teacher, subject) {
		return dto.RecordedGradeResponse{}, newValidationError("subject", "is not one of the teacher's subjects")
	}
	examDate, err := s.day(req.ExamDate)
	if err != nil {
		return dto.RecordedGradeResponse{}, newValidationError("examDate", "must be a date in YYYY-MM-DD form")
	}

	student, err := s.deps.Students.GetByID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RecordedGradeResponse{}, ErrStudentNotFound
		}
		return dto.RecordedGradeResponse{}, err
	}
	if !teachesStudent(teacher, student) {
		return dto.RecordedGradeResponse{}, auth.ErrForbidden
	}

	letter := strings.ToUpper(strings.TrimSpace(req.Grade))
	if letter == "" {
		letter = LetterGrade(marks, req.TotalMarks)
	}
	grade := models.Grade{
		StudentID:  student.ID,
		Subject:    subject,
		Marks:      marks,
		TotalMarks: req.TotalMarks,
		Grade:      letter,
		ExamDate:   examDate,
	}
	if err := s.deps.Records.AddGrade(ctx, &grade); err != nil {
		return dto.RecordedGradeResponse{}, fmt.Errorf("add grade: %w", err)
	}

	s.record(ctx, caller, ActionGradeRecorded, student.ID, map[string]interface{}{"subject": subject, "grade": letter})
	s.logger.Debug().Uint("teacher_id", teacher.ID).Uint("student_id", student.ID).Str("subject", subject).Msg("grade recorded")
	return dto.NewRecordedGradeResponse(grade), nil
}

// RecordAttendance writes every entry for the given date or none of them. A second
// submission for the same day overwrites the earlier status.
func (s *gradebookService) RecordAttendance(ctx context.Context, caller auth.UserContext, req dto.RecordAttendanceRequest) ([]dto.StudentAttendanceResponse, error) {
	teacher, err := s.teacher(ctx, caller)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	date, err := s.day(req.Date)
	if err != nil {
		return nil, newValidationError("date", "must be a date in YYYY-MM-DD form")
	}

	ids := make([]uint, 0, len(req.Entries))
	seen := make(map[uint]struct{}, len(req.Entries))
	for _, entry := range req.Entries {
		if _, ok := seen[entry.StudentID]; ok {
			return nil, newValidationError("entries", fmt.Sprintf("student %d appears more than once", entry.StudentID))
		}
		seen[entry.StudentID] = struct{}{}
		ids = append(ids, entry.StudentID)
	}

	students, err := s.deps.Students.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load students: %w", err)
	}
	if len(students) != len(ids) {
		return nil, ErrStudentNotFound
	}
	for _, student := range students {
		if !teachesStudent(teacher, student) {
			return nil, auth.ErrForbidden
		}
	}

	records := make([]models.AttendanceRecord, 0, len(req.Entries))
	for _, entry := range req.Entries {
		records = append(records, models.AttendanceRecord{StudentID: entry.StudentID, Date: date, Status: entry.Status})
	}
	if err := s.deps.Records.UpsertAttendance(ctx, records); err != nil {
		return nil, fmt.Errorf("upsert attendance: %w", err)
	}

	result := make([]dto.StudentAttendanceResponse, 0, len(records))
	for _, record := range records {
		result = append(result, dto.StudentAttendanceResponse{StudentID: record.StudentID, Date: record.Date, Status: record.Status})
		s.record(ctx, caller, ActionAttendanceRecorded, record.StudentID, map[string]interface{}{"date": req.Date, "status": record.Status})
	}
	return result, nil
}

func (s *gradebookService) teacher(ctx context.Context, caller auth.UserContext) (models.Teacher, error) {
	if err := requireRole(caller, models.RoleTeacher); err != nil {
		return models.Teacher{}, err
	}
	teacher, err := s.deps.Teachers.GetByUserID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Teacher{}, ErrTeacherNotFound
		}
		return models.Teacher{}, err
	}
	return teacher, nil
}

// day parses a YYYY-MM-DD value as midnight UTC. Empty means today.
func (s *gradebookService) day(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		now := s.now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse(time.DateOnly, value)
}

func (s *gradebookService) record(ctx context.Context, caller auth.UserContext, action string, studentID uint, metadata map[string]interface{}) {
	if s.deps.Activity == nil {
		return
	}
	entityID := studentID
	entry := ActivityEntry{
		ActorID:    caller.UserID,
		ActorRole:  caller.Role,
		Action:     action,
		EntityType: "student",
		EntityID:   &entityID,
		Metadata:   metadata,
	}
	if _, err := s.deps.Activity.Record(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Uint("student_id", studentID).Msg("failed to record activity")
	}
}

// teachesStudent reports whether the student sits in one of the teacher's classes.
func teachesStudent(teacher models.Teacher, student models.Student) bool {
	for _, class := range teacher.Classes {
		if class.ClassName == student.Class && class.Section == student.Section {
			return true
		}
	}
	return false
}

// teachesSubject accepts any subject when the teacher has none listed.
func teachesSubject(teacher models.Teacher, subject string) bool {
	if len(teacher.Subjects) == 0 {
		return true
	}
	for _, taught := range teacher.Subjects {
		if strings.EqualFold(taught, subject) {
			return true
		}
	}
	return false
}

// LetterGrade maps a percentage onto the A to F scale.
func LetterGrade(marks, total float64) string {
	if total <= 0 {
		return ""
	}
	switch percent := marks / total * 100; {
	case percent >= 90:
		return "A"
	case percent >= 80:
		return "B"
	case percent >= 70:
		return "C"
	case percent >= 60:
		return "D"
	default:
		return "F"
	}
}
