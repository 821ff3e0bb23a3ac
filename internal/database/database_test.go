package database

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/noah-isme/school-portal-api/internal/config"
	"github.com/noah-isme/school-portal-api/internal/models"
)

func TestConnectSQLiteMigratesAndTranslatesUniqueViolations(t *testing.T) {
	db, err := Connect(config.DriverSQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	require.NoError(t, Ping(context.Background(), db))

	user := models.User{Name: "A", Email: "a@example.com", PasswordHash: "x", Role: models.RoleAdmin}
	require.NoError(t, db.Create(&user).Error)

	dup := models.User{Name: "B", Email: "a@example.com", PasswordHash: "x", Role: models.RoleAdmin}
	require.ErrorIs(t, db.Create(&dup).Error, gorm.ErrDuplicatedKey)
}

func TestConnectRejectsUnknownDriverAndEmptyDSN(t *testing.T) {
	_, err := Connect("mysql", "dsn")
	require.Error(t, err)

	_, err = Connect(config.DriverSQLite, "")
	require.Error(t, err)
}

func TestConnectRedis(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	client, err := ConnectRedis("redis://" + server.Addr())
	require.NoError(t, err)
	defer client.Close()

	_, err = ConnectRedis("")
	require.Error(t, err)
}

func TestConnectNATSRequiresURL(t *testing.T) {
	_, err := ConnectNATS("", "test")
	require.Error(t, err)
}
