package dto

import (
	"time"

	"github.com/noah-isme/school-portal-api/internal/models"
)

// GradeResponse is a single exam result.
type GradeResponse struct {
	Subject    string    `json:"subject"`
	Marks      float64   `json:"marks"`
	TotalMarks float64   `json:"total_marks"`
	Grade      string    `json:"grade"`
	ExamDate   time.Time `json:"exam_date"`
}

// AttendanceResponse is one attendance entry.
type AttendanceResponse struct {
	Date   time.Time `json:"date"`
	Status string    `json:"status"`
}

// FeesResponse summarises a student's fee balance.
type FeesResponse struct {
	TotalAmount     float64    `json:"total_amount"`
	PaidAmount      float64    `json:"paid_amount"`
	PendingAmount   float64    `json:"pending_amount"`
	LastPaymentDate *time.Time `json:"last_payment_date,omitempty"`
}

// StudentResponse is a student profile joined with its user.
type StudentResponse struct {
	ID          uint                 `json:"id"`
	User        UserSummary          `json:"user"`
	StudentID   string               `json:"student_id"`
	Class       string               `json:"class"`
	Section     string               `json:"section"`
	RollNumber  string               `json:"roll_number"`
	DateOfBirth *time.Time           `json:"date_of_birth,omitempty"`
	ParentID    *uint                `json:"parent_id,omitempty"`
	Subjects    []string             `json:"subjects"`
	Grades      []GradeResponse      `json:"grades,omitempty"`
	Attendance  []AttendanceResponse `json:"attendance,omitempty"`
	Fees        *FeesResponse        `json:"fees,omitempty"`
}

// NewStudentResponse builds the listing projection: profile fields plus the linked user.
func NewStudentResponse(student models.Student, user UserSummary) StudentResponse {
	subjects := []string(student.Subjects)
	if subjects == nil {
		subjects = []string{}
	}

	return StudentResponse{
		ID:          student.ID,
		User:        user,
		StudentID:   student.StudentNumber,
		Class:       student.Class,
		Section:     student.Section,
		RollNumber:  student.RollNumber,
		DateOfBirth: student.DateOfBirth,
		ParentID:    student.ParentID,
		Subjects:    subjects,
	}
}

// NewStudentListItem projects a student with name, email and phone of its user.
func NewStudentListItem(student models.Student) StudentResponse {
	return NewStudentResponse(student, newUserSummary(student.User))
}

// NewStudentProfileResponse projects a student's own full record.
func NewStudentProfileResponse(student models.Student) StudentResponse {
	response := NewStudentResponse(student, newUserSummary(student.User))
	response.Grades = NewGradeResponses(student.Grades)
	response.Attendance = NewAttendanceResponses(student.Attendance)
	response.Fees = &FeesResponse{
		TotalAmount:     student.Fees.TotalAmount,
		PaidAmount:      student.Fees.PaidAmount,
		PendingAmount:   student.Fees.PendingAmount,
		LastPaymentDate: student.Fees.LastPaymentDate,
	}
	return response
}

// NewGradeResponses converts grades preserving order.
func NewGradeResponses(grades []models.Grade) []GradeResponse {
	result := make([]GradeResponse, 0, len(grades))
	for _, grade := range grades {
		result = append(result, GradeResponse{
			Subject:    grade.Subject,
			Marks:      grade.Marks,
			TotalMarks: grade.TotalMarks,
			Grade:      grade.Grade,
			ExamDate:   grade.ExamDate,
		})
	}
	return result
}

// NewAttendanceResponses converts attendance records preserving order.
func NewAttendanceResponses(records []models.AttendanceRecord) []AttendanceResponse {
	result := make([]AttendanceResponse, 0, len(records))
	for _, record := range records {
		result = append(result, AttendanceResponse{Date: record.Date, Status: record.Status})
	}
	return result
}
