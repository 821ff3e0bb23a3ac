package models

import (
	"time"

	"gorm.io/datatypes"
)

// Attendance statuses recorded for a student.
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLate    = "late"
)

// Student is the profile of a user with the student role.
type Student struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	UserID        uint                        `gorm:"uniqueIndex;not null" json:"user_id"`
	User          User                        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	StudentNumber string                      `gorm:"column:student_number;size:64;uniqueIndex;not null" json:"student_id"`
	Class         string                      `gorm:"size:32;not null;index:idx_students_class_section" json:"class"`
	Section       string                      `gorm:"size:16;not null;index:idx_students_class_section" json:"section"`
	RollNumber    string                      `gorm:"size:32;not null" json:"roll_number"`
	DateOfBirth   *time.Time                  `json:"date_of_birth"`
	ParentID      *uint                       `gorm:"index" json:"parent_id"`
	Subjects      datatypes.JSONSlice[string] `json:"subjects"`
	Grades        []Grade                     `gorm:"constraint:OnDelete:CASCADE" json:"grades"`
	Attendance    []AttendanceRecord          `gorm:"constraint:OnDelete:CASCADE" json:"attendance"`
	Fees          StudentFees                 `gorm:"embedded;embeddedPrefix:fees_" json:"fees"`
	CreatedAt     time.Time                   `json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}

// StudentFees tracks the fee balance of a student.
type StudentFees struct {
	TotalAmount     float64    `gorm:"not null;default:0" json:"total_amount"`
	PaidAmount      float64    `gorm:"not null;default:0" json:"paid_amount"`
	PendingAmount   float64    `gorm:"not null;default:0" json:"pending_amount"`
	LastPaymentDate *time.Time `json:"last_payment_date"`
}

// Grade is a single exam result.
type Grade struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	StudentID  uint      `gorm:"index;not null" json:"student_id"`
	Subject    string    `gorm:"size:128;not null" json:"subject"`
	Marks      float64   `json:"marks"`
	TotalMarks float64   `json:"total_marks"`
	Grade      string    `gorm:"size:8" json:"grade"`
	ExamDate   time.Time `json:"exam_date"`
	CreatedAt  time.Time `json:"created_at"`
}

// AttendanceRecord is one day of attendance. A student has at most one record per date.
type AttendanceRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	StudentID uint      `gorm:"uniqueIndex:idx_attendance_student_date;not null" json:"student_id"`
	Date      time.Time `gorm:"uniqueIndex:idx_attendance_student_date;not null" json:"date"`
	Status    string    `gorm:"size:16;not null;default:present" json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName pins the attendance table name.
func (AttendanceRecord) TableName() string {
	return "attendance_records"
}
