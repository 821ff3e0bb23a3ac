package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/school-portal-api/internal/models"
)

func TestAccountRepositoryCreatesUserAndProfile(t *testing.T) {
	db := setupTestDB(t)

	student := &models.Student{StudentNumber: "STU1", Class: "5th", Section: "A", RollNumber: "1"}
	user := createAccount(t, db, "Sara", "sara@example.com", student)

	require.NotZero(t, user.ID)
	require.Equal(t, user.ID, student.UserID)

	var users, students int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Student{}).Where("user_id = ?", user.ID).Count(&students).Error)
	require.Equal(t, int64(1), users)
	require.Equal(t, int64(1), students)
}

func TestAccountRepositoryRollsBackUserWhenProfileFails(t *testing.T) {
	db := setupTestDB(t)
	createAccount(t, db, "First", "first@example.com", &models.Student{StudentNumber: "STU-DUP", Class: "1st", Section: "A", RollNumber: "1"})

	repo := NewAccountRepository(db)
	user := models.User{Name: "Second", Email: "second@example.com", PasswordHash: "hash", Role: models.RoleStudent, IsActive: true}
	err := repo.Create(context.Background(), &user, &models.Student{StudentNumber: "STU-DUP", Class: "1st", Section: "A", RollNumber: "2"})
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	exists, err := NewUserRepository(db).ExistsByEmail(context.Background(), "second@example.com")
	require.NoError(t, err)
	require.False(t, exists, "user row must be rolled back with the profile")
}

func TestAccountRepositoryRejectsMismatchedProfile(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAccountRepository(db)

	user := models.User{Name: "Mismatch", Email: "mismatch@example.com", PasswordHash: "hash", Role: models.RoleTeacher}
	err := repo.Create(context.Background(), &user, &models.Parent{Relationship: models.RelationshipMother})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestAccountRepositoryDuplicateEmailTranslates(t *testing.T) {
	db := setupTestDB(t)
	createAccount(t, db, "Admin", "admin@example.com", &models.Admin{Designation: "Principal"})

	user := models.User{Name: "Other", Email: "admin@example.com", PasswordHash: "hash", Role: models.RoleAdmin}
	err := NewAccountRepository(db).Create(context.Background(), &user, &models.Admin{Designation: "Clerk"})
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestAccountRepositoryPersistsTeacherClassesAndParentChildren(t *testing.T) {
	db := setupTestDB(t)

	teacher := &models.Teacher{
		EmployeeID:    "TECH1",
		Qualification: "M.Ed",
		Salary:        60000,
		JoiningDate:   time.Now(),
		Classes: []models.TeacherClass{
			{ClassName: "5th", Section: "A"},
			{ClassName: "6th", Section: "B"},
		},
	}
	teacherUser := createAccount(t, db, "Teach", "teach@example.com", teacher)

	loaded, err := NewTeacherRepository(db).GetByUserID(context.Background(), teacherUser.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Classes, 2)
	require.Equal(t, "Teach", loaded.User.Name)

	child := &models.Student{StudentNumber: "STU2", Class: "5th", Section: "A", RollNumber: "3"}
	createAccount(t, db, "Kid", "kid@example.com", child)

	parent := &models.Parent{Relationship: models.RelationshipGuardian, Children: []models.Student{{ID: child.ID}}}
	parentUser := createAccount(t, db, "Guardian", "guardian@example.com", parent)

	parents := NewParentRepository(db)
	storedParent, err := parents.GetByUserID(context.Background(), parentUser.ID)
	require.NoError(t, err)

	ids, err := parents.ChildIDs(context.Background(), storedParent.ID)
	require.NoError(t, err)
	require.Equal(t, []uint{child.ID}, ids)

	var students int64
	require.NoError(t, db.Model(&models.Student{}).Count(&students).Error)
	require.Equal(t, int64(1), students, "children must not be re-inserted")
}
