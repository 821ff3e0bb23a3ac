package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/auth"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/repository"
)

type stubStudentRepo struct {
	repository.StudentRepository
	student models.Student
}

func (s stubStudentRepo) GetByUserID(context.Context, uint) (models.Student, error) {
	return s.student, nil
}

func TestStudentServiceReturnsOwnRecords(t *testing.T) {
	p := newPortal(t)
	resp, student := p.registerStudent(t, "S1", "s1@example.com", "5th", "A")

	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	require.NoError(t, p.db.Create(&models.Grade{StudentID: student.ID, Subject: "Math", Marks: 88, TotalMarks: 100, Grade: "A", ExamDate: day.AddDate(0, 0, 7)}).Error)
	require.NoError(t, p.db.Create(&models.Grade{StudentID: student.ID, Subject: "Art", Marks: 70, TotalMarks: 100, Grade: "B", ExamDate: day}).Error)
	require.NoError(t, p.db.Create(&models.AttendanceRecord{StudentID: student.ID, Date: day, Status: models.AttendancePresent}).Error)
	require.NoError(t, p.db.Create(&models.AttendanceRecord{StudentID: student.ID, Date: day.AddDate(0, 0, 1), Status: models.AttendanceLate}).Error)

	svc := NewStudentService(p.students, testLogger())
	caller := callerOf(resp)

	profile, err := svc.Profile(context.Background(), caller)
	require.NoError(t, err)
	require.Equal(t, student.StudentNumber, profile.StudentID)
	require.NotNil(t, profile.Fees)

	grades, err := svc.Grades(context.Background(), caller)
	require.NoError(t, err)
	require.Len(t, grades, 2)
	require.Equal(t, "Art", grades[0].Subject)

	attendance, err := svc.Attendance(context.Background(), caller)
	require.NoError(t, err)
	require.Len(t, attendance, 2)
	require.Equal(t, models.AttendanceLate, attendance[1].Status)
}

func TestStudentServiceRejectsOtherRolesAndMissingProfiles(t *testing.T) {
	p := newPortal(t)
	svc := NewStudentService(p.students, testLogger())

	_, err := svc.Profile(context.Background(), auth.UserContext{UserID: 1, Role: models.RoleParent})
	require.ErrorIs(t, err, auth.ErrForbidden)

	_, err = svc.Grades(context.Background(), auth.UserContext{UserID: 77, Role: models.RoleStudent})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStudentServiceRejectsRecordOwnedBySomeoneElse(t *testing.T) {
	svc := NewStudentService(stubStudentRepo{student: models.Student{ID: 1, UserID: 99}}, testLogger())

	_, err := svc.Attendance(context.Background(), auth.UserContext{UserID: 5, Role: models.RoleStudent})
	require.ErrorIs(t, err, auth.ErrForbidden)
}
