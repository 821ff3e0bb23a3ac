package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/school-portal-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

func createAccount(t *testing.T, db *gorm.DB, name, email string, profile models.Profile) models.User {
	t.Helper()
	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: "hash",
		Role:         profile.ProfileRole(),
		IsActive:     true,
	}
	require.NoError(t, NewAccountRepository(db).Create(t.Context(), &user, profile))
	return user
}
