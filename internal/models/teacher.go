package models

import (
	"time"

	"gorm.io/datatypes"
)

// Teacher is the profile of a user with the teacher role.
type Teacher struct {
	ID            uint                             `gorm:"primaryKey" json:"id"`
	UserID        uint                             `gorm:"uniqueIndex;not null" json:"user_id"`
	User          User                             `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	EmployeeID    string                           `gorm:"size:64;uniqueIndex;not null" json:"employee_id"`
	Subjects      datatypes.JSONSlice[string]      `json:"subjects"`
	Classes       []TeacherClass                   `gorm:"constraint:OnDelete:CASCADE" json:"classes"`
	Qualification string                           `gorm:"size:255;not null" json:"qualification"`
	Experience    int                              `gorm:"not null;default:0" json:"experience"`
	Salary        float64                          `gorm:"not null" json:"salary"`
	JoiningDate   time.Time                        `gorm:"not null" json:"joining_date"`
	Schedule      datatypes.JSONSlice[ScheduleDay] `json:"schedule"`
	CreatedAt     time.Time                        `json:"created_at"`
	UpdatedAt     time.Time                        `json:"updated_at"`
}

// TeacherClass is a (class, section) pair a teacher is assigned to.
type TeacherClass struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	TeacherID uint   `gorm:"uniqueIndex:idx_teacher_class;not null" json:"-"`
	ClassName string `gorm:"size:32;not null;uniqueIndex:idx_teacher_class" json:"class_name"`
	Section   string `gorm:"size:16;not null;uniqueIndex:idx_teacher_class" json:"section"`
}

// ScheduleDay lists the periods a teacher runs on one weekday.
type ScheduleDay struct {
	Day     string           `json:"day"`
	Periods []SchedulePeriod `json:"periods"`
}

// SchedulePeriod is one slot in a teacher's day.
type SchedulePeriod struct {
	Subject string `json:"subject"`
	Class   string `json:"class"`
	Section string `json:"section"`
	Time    string `json:"time"`
}
