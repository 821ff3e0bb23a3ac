package dto

import (
	"time"

	"github.com/noah-isme/school-portal-api/internal/models"
)

// RecordGradeRequest is the payload of POST /teacher/grades.
type RecordGradeRequest struct {
	StudentID  uint     `json:"studentId" validate:"required,gt=0"`
	Subject    string   `json:"subject" validate:"required,max=128"`
	Marks      *float64 `json:"marks" validate:"required,gte=0"`
	TotalMarks float64  `json:"totalMarks" validate:"required,gt=0"`
	Grade      string   `json:"grade" validate:"omitempty,max=8"`
	ExamDate   string   `json:"examDate" validate:"omitempty,datetime=2006-01-02"`
}

// AttendanceEntry is one student's status in an attendance submission.
type AttendanceEntry struct {
	StudentID uint   `json:"studentId" validate:"required,gt=0"`
	Status    string `json:"status" validate:"required,oneof=present absent late"`
}

// RecordAttendanceRequest is the payload of POST /teacher/attendance.
type RecordAttendanceRequest struct {
	Date    string            `json:"date" validate:"required,datetime=2006-01-02"`
	Entries []AttendanceEntry `json:"entries" validate:"required,min=1,max=200,dive"`
}

// RecordedGradeResponse is a grade together with the student it belongs to.
type RecordedGradeResponse struct {
	ID        uint `json:"id"`
	StudentID uint `json:"student_id"`
	GradeResponse
}

// NewRecordedGradeResponse converts a stored grade.
func NewRecordedGradeResponse(grade models.Grade) RecordedGradeResponse {
	return RecordedGradeResponse{
		ID:        grade.ID,
		StudentID: grade.StudentID,
		GradeResponse: GradeResponse{
			Subject:    grade.Subject,
			Marks:      grade.Marks,
			TotalMarks: grade.TotalMarks,
			Grade:      grade.Grade,
			ExamDate:   grade.ExamDate,
		},
	}
}

// StudentAttendanceResponse is an attendance entry tagged with its student.
type StudentAttendanceResponse struct {
	StudentID uint      `json:"student_id"`
	Date      time.Time `json:"date"`
	Status    string    `json:"status"`
}

// SetFeesRequest is the payload of PUT /admin/students/:id/fees.
type SetFeesRequest struct {
	TotalAmount *float64 `json:"totalAmount" validate:"required,gte=0"`
}

// RecordPaymentRequest is the payload of POST /admin/students/:id/payments.
type RecordPaymentRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	PaymentDate string  `json:"paymentDate" validate:"omitempty,datetime=2006-01-02"`
}

// NewStudentFeesResponse projects a student listing row with its fee balance.
func NewStudentFeesResponse(student models.Student) StudentResponse {
	response := NewStudentListItem(student)
	response.Fees = &FeesResponse{
		TotalAmount:     student.Fees.TotalAmount,
		PaidAmount:      student.Fees.PaidAmount,
		PendingAmount:   student.Fees.PendingAmount,
		LastPaymentDate: student.Fees.LastPaymentDate,
	}
	return response
}

// ClassStatistic counts the students of one class and section.
type ClassStatistic struct {
	Class   string `json:"class"`
	Section string `json:"section"`
	Count   int64  `json:"count"`
}

// SubjectStatistic counts the teachers of one subject.
type SubjectStatistic struct {
	Subject string `json:"subject"`
	Count   int64  `json:"count"`
}

// SchoolStatisticsResponse breaks enrolment down by class and staffing by subject.
type SchoolStatisticsResponse struct {
	TotalStudents     int64              `json:"total_students"`
	TotalTeachers     int64              `json:"total_teachers"`
	TotalParents      int64              `json:"total_parents"`
	StudentsByClass   []ClassStatistic   `json:"students_by_class"`
	TeachersBySubject []SubjectStatistic `json:"teachers_by_subject"`
}

// FeeStatusBucket aggregates the balances of students sharing a fee status.
type FeeStatusBucket struct {
	Status        string  `json:"status"`
	Count         int64   `json:"count"`
	TotalAmount   float64 `json:"total_amount"`
	PaidAmount    float64 `json:"paid_amount"`
	PendingAmount float64 `json:"pending_amount"`
}

// FeeStatusReportResponse is the school-wide fee summary.
type FeeStatusReportResponse struct {
	Statuses         []FeeStatusBucket `json:"statuses"`
	TotalBilled      float64           `json:"total_billed"`
	TotalCollected   float64           `json:"total_collected"`
	TotalOutstanding float64           `json:"total_outstanding"`
}
