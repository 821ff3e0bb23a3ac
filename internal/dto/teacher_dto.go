package dto

import (
	"time"

	"github.com/noah-isme/school-portal-api/internal/models"
)

// TeacherClassResponse is one class assignment.
type TeacherClassResponse struct {
	ClassName string `json:"class_name"`
	Section   string `json:"section"`
}

// TeacherResponse is a teacher profile joined with its user.
type TeacherResponse struct {
	ID            uint                   `json:"id"`
	User          UserSummary            `json:"user"`
	EmployeeID    string                 `json:"employee_id"`
	Subjects      []string               `json:"subjects"`
	Classes       []TeacherClassResponse `json:"classes"`
	Qualification string                 `json:"qualification"`
	Experience    int                    `json:"experience"`
	Salary        float64                `json:"salary"`
	JoiningDate   time.Time              `json:"joining_date"`
	Schedule      []models.ScheduleDay   `json:"schedule"`
}

// NewTeacherResponse converts a teacher model.
func NewTeacherResponse(teacher models.Teacher) TeacherResponse {
	classes := make([]TeacherClassResponse, 0, len(teacher.Classes))
	for _, class := range teacher.Classes {
		classes = append(classes, TeacherClassResponse{ClassName: class.ClassName, Section: class.Section})
	}

	subjects := []string(teacher.Subjects)
	if subjects == nil {
		subjects = []string{}
	}
	schedule := []models.ScheduleDay(teacher.Schedule)
	if schedule == nil {
		schedule = []models.ScheduleDay{}
	}

	return TeacherResponse{
		ID:            teacher.ID,
		User:          newUserSummary(teacher.User),
		EmployeeID:    teacher.EmployeeID,
		Subjects:      subjects,
		Classes:       classes,
		Qualification: teacher.Qualification,
		Experience:    teacher.Experience,
		Salary:        teacher.Salary,
		JoiningDate:   teacher.JoiningDate,
		Schedule:      schedule,
	}
}
