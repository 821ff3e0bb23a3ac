package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/school-portal-api/internal/models"
)

// Fee statuses derived from a student's balance.
const (
	FeeStatusPaid      = "paid"
	FeeStatusPartial   = "partial"
	FeeStatusPending   = "pending"
	FeeStatusNotBilled = "not_billed"
)

// feeStatusExpr classifies a student row by its fee columns.
const feeStatusExpr = `CASE
	WHEN fees_total_amount <= 0 THEN 'not_billed'
	WHEN fees_pending_amount <= 0 THEN 'paid'
	WHEN fees_paid_amount > 0 THEN 'partial'
	ELSE 'pending'
END`

// ClassCount is the number of students enrolled in one class and section.
type ClassCount struct {
	Class   string
	Section string
	Count   int64
}

// FeeStatusTotals aggregates student balances sharing one fee status.
type FeeStatusTotals struct {
	Status        string
	Count         int64
	TotalAmount   float64
	PaidAmount    float64
	PendingAmount float64
}

// RecordsRepository writes the academic and fee records kept on student profiles.
type RecordsRepository interface {
	AddGrade(ctx context.Context, grade *models.Grade) error
	UpsertAttendance(ctx context.Context, records []models.AttendanceRecord) error
	UpdateFees(ctx context.Context, studentID uint, apply func(fees *models.StudentFees) error) (models.Student, error)
	CountStudentsByClass(ctx context.Context) ([]ClassCount, error)
	ListTeacherSubjects(ctx context.Context) ([][]string, error)
	FeeStatusReport(ctx context.Context) ([]FeeStatusTotals, error)
}

type recordsRepository struct {
	db *gorm.DB
}

// NewRecordsRepository constructs the records repository.
func NewRecordsRepository(db *gorm.DB) RecordsRepository {
	return &recordsRepository{db: db}
}

func (r *recordsRepository) AddGrade(ctx context.Context, grade *models.Grade) error {
	return r.db.WithContext(ctx).Create(grade).Error
}

// UpsertAttendance writes the records in one statement. A record for a student and date
// that already exists has its status replaced. Each student may appear once per call.
func (r *recordsRepository) UpsertAttendance(ctx context.Context, records []models.AttendanceRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"status"}),
	}).Create(&records).Error
}

// UpdateFees loads the student inside a transaction, lets apply mutate the balance and
// writes every fee column back, zero values included.
func (r *recordsRepository) UpdateFees(ctx context.Context, studentID uint, apply func(fees *models.StudentFees) error) (models.Student, error) {
	var student models.Student
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("User").First(&student, studentID).Error; err != nil {
			return err
		}
		if err := apply(&student.Fees); err != nil {
			return err
		}
		return tx.Model(&models.Student{}).Where("id = ?", studentID).Updates(map[string]interface{}{
			"fees_total_amount":      student.Fees.TotalAmount,
			"fees_paid_amount":       student.Fees.PaidAmount,
			"fees_pending_amount":    student.Fees.PendingAmount,
			"fees_last_payment_date": student.Fees.LastPaymentDate,
			"updated_at":             time.Now().UTC(),
		}).Error
	})
	if err != nil {
		return models.Student{}, err
	}
	return student, nil
}

func (r *recordsRepository) CountStudentsByClass(ctx context.Context) ([]ClassCount, error) {
	var counts []ClassCount
	err := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Select("class, section, COUNT(*) AS count").
		Group("class").Group("section").
		Order("class ASC").Order("section ASC").
		Scan(&counts).Error
	return counts, err
}

// ListTeacherSubjects returns the subject list of every teacher. Subjects are stored as
// JSON so grouping happens in the caller.
func (r *recordsRepository) ListTeacherSubjects(ctx context.Context) ([][]string, error) {
	var teachers []models.Teacher
	if err := r.db.WithContext(ctx).Select("id", "subjects").Order("id ASC").Find(&teachers).Error; err != nil {
		return nil, err
	}
	result := make([][]string, 0, len(teachers))
	for _, teacher := range teachers {
		result = append(result, []string(teacher.Subjects))
	}
	return result, nil
}

func (r *recordsRepository) FeeStatusReport(ctx context.Context) ([]FeeStatusTotals, error) {
	var totals []FeeStatusTotals
	err := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Select(feeStatusExpr + ` AS status,
			COUNT(*) AS count,
			COALESCE(SUM(fees_total_amount), 0) AS total_amount,
			COALESCE(SUM(fees_paid_amount), 0) AS paid_amount,
			COALESCE(SUM(fees_pending_amount), 0) AS pending_amount`).
		Group("status").
		Order("status ASC").
		Scan(&totals).Error
	return totals, err
}
