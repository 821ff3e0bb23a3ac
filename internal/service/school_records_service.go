package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/noah-isme/school-portal-api/internal/auth"
	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/repository"
)

// Audit actions written by the school records flows.
const (
	ActionClassAssigned   = "teacher.class_assigned"
	ActionFeesUpdated     = "fees.updated"
	ActionPaymentRecorded = "fees.payment_recorded"
)

// feeStatusOrder fixes the order of the fee report buckets.
var feeStatusOrder = []string{
	repository.FeeStatusPaid,
	repository.FeeStatusPartial,
	repository.FeeStatusPending,
	repository.FeeStatusNotBilled,
}

// SchoolRecordsService holds the administrator's write and reporting operations over
// class assignments and student fees.
type SchoolRecordsService interface {
	Statistics(ctx context.Context, caller auth.UserContext) (dto.SchoolStatisticsResponse, error)
	AssignClass(ctx context.Context, caller auth.UserContext, teacherID uint, req dto.ClassAssignment) (dto.TeacherResponse, error)
	SetFees(ctx context.Context, caller auth.UserContext, studentID uint, req dto.SetFeesRequest) (dto.StudentResponse, error)
	RecordPayment(ctx context.Context, caller auth.UserContext, studentID uint, req dto.RecordPaymentRequest) (dto.StudentResponse, error)
	FeeReport(ctx context.Context, caller auth.UserContext) (dto.FeeStatusReportResponse, error)
}

// SchoolRecordsDependencies groups the collaborators of the school records service.
type SchoolRecordsDependencies struct {
	Dashboard repository.AdminDashboardRepository
	Teachers  repository.TeacherRepository
	Records   repository.RecordsRepository
	Activity  ActivityRecorder
}

type schoolRecordsService struct {
	deps      SchoolRecordsDependencies
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewSchoolRecordsService constructs the school records service. Activity may be nil.
func NewSchoolRecordsService(deps SchoolRecordsDependencies, validate *validator.Validate, logger zerolog.Logger) SchoolRecordsService {
	return &schoolRecordsService{
		deps:      deps,
		validator: validate,
		logger:    logger.With().Str("component", "school_records_service").Logger(),
		now:       time.Now,
	}
}

func (s *schoolRecordsService) Statistics(ctx context.Context, caller auth.UserContext) (dto.SchoolStatisticsResponse, error) {
	if err := requireRole(caller, models.RoleAdmin); err != nil {
		return dto.SchoolStatisticsResponse{}, err
	}

	tracer := otel.Tracer("github.com/noah-isme/school-portal-api/internal/service/records")
	ctx, span := tracer.Start(ctx, "records.statistics")
	defer span.End()

	var response dto.SchoolStatisticsResponse
	var err error
	if response.TotalStudents, err = s.deps.Dashboard.CountStudents(ctx); err != nil {
		span.SetStatus(codes.Error, "count_students_failed")
		return dto.SchoolStatisticsResponse{}, err
	}
	if response.TotalTeachers, err = s.deps.Dashboard.CountTeachers(ctx); err != nil {
		span.SetStatus(codes.Error, "count_teachers_failed")
		return dto.SchoolStatisticsResponse{}, err
	}
	if response.TotalParents, err = s.deps.Dashboard.CountParents(ctx); err != nil {
		span.SetStatus(codes.Error, "count_parents_failed")
		return dto.SchoolStatisticsResponse{}, err
	}

	classes, err := s.deps.Records.CountStudentsByClass(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "count_by_class_failed")
		return dto.SchoolStatisticsResponse{}, err
	}
	response.StudentsByClass = make([]dto.ClassStatistic, 0, len(classes))
	for _, class := range classes {
		response.StudentsByClass = append(response.StudentsByClass, dto.ClassStatistic{Class: class.Class, Section: class.Section, Count: class.Count})
	}

	subjectLists, err := s.deps.Records.ListTeacherSubjects(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "list_subjects_failed")
		return dto.SchoolStatisticsResponse{}, err
	}
	response.TeachersBySubject = countSubjects(subjectLists)

	span.SetAttributes(
		attribute.Int("records.class_groups", len(response.StudentsByClass)),
		attribute.Int("records.subjects", len(response.TeachersBySubject)),
	)
	return response, nil
}

func (s *schoolRecordsService) AssignClass(ctx context.Context, caller auth.UserContext, teacherID uint, req dto.ClassAssignment) (dto.TeacherResponse, error) {
	if err := requireRole(caller, models.RoleAdmin); err != nil {
		return dto.TeacherResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.TeacherResponse{}, err
	}
	class := models.TeacherClass{
		TeacherID: teacherID,
		ClassName: strings.TrimSpace(req.Name()),
		Section:   strings.TrimSpace(req.Section),
	}
	if class.ClassName == "" || class.Section == "" {
		return dto.TeacherResponse{}, newValidationError("classes", "each class needs a class name and a section")
	}

	if _, err := s.loadTeacher(ctx, teacherID); err != nil {
		return dto.TeacherResponse{}, err
	}
	if err := s.deps.Teachers.AddClass(ctx, &class); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.TeacherResponse{}, ErrClassAlreadyAssigned
		}
		return dto.TeacherResponse{}, fmt.Errorf("add class: %w", err)
	}

	teacher, err := s.loadTeacher(ctx, teacherID)
	if err != nil {
		return dto.TeacherResponse{}, err
	}
	s.record(ctx, caller, ActionClassAssigned, "teacher", teacherID, map[string]interface{}{"class": class.ClassName, "section": class.Section})
	return dto.NewTeacherResponse(teacher), nil
}

// SetFees replaces the billed total. The amount already paid is kept and the pending
// balance follows from it, so a total below the paid amount is rejected.
func (s *schoolRecordsService) SetFees(ctx context.Context, caller auth.UserContext, studentID uint, req dto.SetFeesRequest) (dto.StudentResponse, error) {
	if err := requireRole(caller, models.RoleAdmin); err != nil {
		return dto.StudentResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.StudentResponse{}, err
	}

	total := *req.TotalAmount
	student, err := s.deps.Records.UpdateFees(ctx, studentID, func(fees *models.StudentFees) error {
		if total < fees.PaidAmount {
			return newValidationError("totalAmount", fmt.Sprintf("must not be below the %.2f already paid", fees.PaidAmount))
		}
		fees.TotalAmount = total
		fees.PendingAmount = total - fees.PaidAmount
		return nil
	})
	if err != nil {
		return dto.StudentResponse{}, s.feeError(err)
	}

	s.record(ctx, caller, ActionFeesUpdated, "student", studentID, map[string]interface{}{"total_amount": total})
	return dto.NewStudentFeesResponse(student), nil
}

// RecordPayment adds a payment against the pending balance. Payments larger than the
// pending balance are rejected.
func (s *schoolRecordsService) RecordPayment(ctx context.Context, caller auth.UserContext, studentID uint, req dto.RecordPaymentRequest) (dto.StudentResponse, error) {
	if err := requireRole(caller, models.RoleAdmin); err != nil {
		return dto.StudentResponse{}, err
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.StudentResponse{}, err
	}

	paidAt := s.now().UTC()
	if req.PaymentDate != "" {
		parsed, err := time.Parse(time.DateOnly, req.PaymentDate)
		if err != nil {
			return dto.StudentResponse{}, newValidationError("paymentDate", "must be a date in YYYY-MM-DD form")
		}
		paidAt = parsed
	}

	student, err := s.deps.Records.UpdateFees(ctx, studentID, func(fees *models.StudentFees) error {
		if req.Amount > fees.PendingAmount {
			return newValidationError("amount", fmt.Sprintf("must not exceed the pending balance of %.2f", fees.PendingAmount))
		}
		fees.PaidAmount += req.Amount
		fees.PendingAmount = fees.TotalAmount - fees.PaidAmount
		fees.LastPaymentDate = &paidAt
		return nil
	})
	if err != nil {
		return dto.StudentResponse{}, s.feeError(err)
	}

	s.record(ctx, caller, ActionPaymentRecorded, "student", studentID, map[string]interface{}{"amount": req.Amount})
	s.logger.Info().Uint("student_id", studentID).Float64("amount", req.Amount).Msg("fee payment recorded")
	return dto.NewStudentFeesResponse(student), nil
}

// FeeReport groups students by fee status. Every status is listed, empty ones with zero
// counts.
func (s *schoolRecordsService) FeeReport(ctx context.Context, caller auth.UserContext) (dto.FeeStatusReportResponse, error) {
	if err := requireRole(caller, models.RoleAdmin); err != nil {
		return dto.FeeStatusReportResponse{}, err
	}

	rows, err := s.deps.Records.FeeStatusReport(ctx)
	if err != nil {
		return dto.FeeStatusReportResponse{}, err
	}
	byStatus := make(map[string]repository.FeeStatusTotals, len(rows))
	for _, row := range rows {
		byStatus[row.Status] = row
	}

	response := dto.FeeStatusReportResponse{Statuses: make([]dto.FeeStatusBucket, 0, len(feeStatusOrder))}
	for _, status := range feeStatusOrder {
		row := byStatus[status]
		response.Statuses = append(response.Statuses, dto.FeeStatusBucket{
			Status:        status,
			Count:         row.Count,
			TotalAmount:   row.TotalAmount,
			PaidAmount:    row.PaidAmount,
			PendingAmount: row.PendingAmount,
		})
		response.TotalBilled += row.TotalAmount
		response.TotalCollected += row.PaidAmount
		response.TotalOutstanding += row.PendingAmount
	}
	return response, nil
}

func (s *schoolRecordsService) loadTeacher(ctx context.Context, teacherID uint) (models.Teacher, error) {
	teacher, err := s.deps.Teachers.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Teacher{}, ErrTeacherNotFound
		}
		return models.Teacher{}, err
	}
	return teacher, nil
}

func (s *schoolRecordsService) feeError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrStudentNotFound
	}
	var fieldErr *ValidationError
	if errors.As(err, &fieldErr) {
		return err
	}
	return fmt.Errorf("update fees: %w", err)
}

func (s *schoolRecordsService) record(ctx context.Context, caller auth.UserContext, action, entityType string, entityID uint, metadata map[string]interface{}) {
	if s.deps.Activity == nil {
		return
	}
	id := entityID
	entry := ActivityEntry{
		ActorID:    caller.UserID,
		ActorRole:  caller.Role,
		Action:     action,
		EntityType: entityType,
		EntityID:   &id,
		Metadata:   metadata,
	}
	if _, err := s.deps.Activity.Record(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to record activity")
	}
}

// countSubjects counts teachers per subject, treating case variants as one subject and
// keeping the first spelling seen. The result is sorted by subject.
func countSubjects(lists [][]string) []dto.SubjectStatistic {
	counts := map[string]*dto.SubjectStatistic{}
	for _, subjects := range lists {
		seen := map[string]struct{}{}
		for _, subject := range subjects {
			name := strings.TrimSpace(subject)
			key := strings.ToLower(name)
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			if entry, ok := counts[key]; ok {
				entry.Count++
				continue
			}
			counts[key] = &dto.SubjectStatistic{Subject: name, Count: 1}
		}
	}

	result := make([]dto.SubjectStatistic, 0, len(counts))
	for _, entry := range counts {
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool {
		return strings.ToLower(result[i].Subject) < strings.ToLower(result[j].Subject)
	})
	return result
}
