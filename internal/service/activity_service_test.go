package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/dto"
	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/internal/repository"
)

type memoryActivityRepo struct {
	entries []models.ActivityLog
	filters []repository.ActivityLogFilter
}

func (m *memoryActivityRepo) Create(_ context.Context, entry *models.ActivityLog) error {
	entry.ID = uint(len(m.entries) + 1)
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memoryActivityRepo) List(_ context.Context, filter repository.ActivityLogFilter) ([]models.ActivityLog, int64, error) {
	m.filters = append(m.filters, filter)
	return m.entries, int64(len(m.entries)), nil
}

func TestActivityServiceRecordMasksSensitiveMetadata(t *testing.T) {
	repo := &memoryActivityRepo{}
	svc := NewActivityService(repo, testValidator(), testLogger())

	resp, err := svc.Record(context.Background(), ActivityEntry{
		ActorID:    7,
		ActorRole:  models.RoleTeacher,
		Action:     " User.Login ",
		EntityType: "User",
		EntityID:   ptrUint(7),
		Metadata:   map[string]interface{}{"email": "t@example.com", "access_token": "abc", "ip": "10.0.0.1"},
	})
	require.NoError(t, err)
	require.Equal(t, "user.login", resp.Action)
	require.Equal(t, "teacher", resp.ActorRole)
	require.Equal(t, "***", resp.Metadata["email"])
	require.Equal(t, "***", resp.Metadata["access_token"])
	require.Equal(t, "10.0.0.1", resp.Metadata["ip"])
}

func TestActivityServiceRecordRequiresActionAndEntity(t *testing.T) {
	svc := NewActivityService(&memoryActivityRepo{}, testValidator(), testLogger())

	_, err := svc.Record(context.Background(), ActivityEntry{EntityType: "user"})
	require.Error(t, err)
	_, err = svc.Record(context.Background(), ActivityEntry{Action: "user.login"})
	require.Error(t, err)
}

func TestActivityServiceRecordDefaultsRoleToSystem(t *testing.T) {
	repo := &memoryActivityRepo{}
	svc := NewActivityService(repo, testValidator(), testLogger())

	_, err := svc.Record(context.Background(), ActivityEntry{Action: "seed", EntityType: "user"})
	require.NoError(t, err)
	require.Equal(t, "system", repo.entries[0].ActorRole)
}

func TestActivityServiceListBuildsFilterAndPagination(t *testing.T) {
	repo := &memoryActivityRepo{}
	svc := NewActivityService(repo, testValidator(), testLogger())
	for i := 0; i < 3; i++ {
		_, err := svc.Record(context.Background(), ActivityEntry{ActorID: 1, ActorRole: models.RoleStudent, Action: "user.login", EntityType: "user"})
		require.NoError(t, err)
	}

	resp, err := svc.List(context.Background(), dto.AdminActivityListRequest{Page: 2, PageSize: 2, ActorID: 1, Role: "student", Action: "USER.LOGIN"})
	require.NoError(t, err)
	require.Len(t, resp.Items, 3)
	require.Equal(t, 2, resp.Pagination.TotalPages)
	require.Equal(t, 2, resp.Pagination.Page)

	filter := repo.filters[0]
	require.Equal(t, "user.login", filter.Action)
	require.Equal(t, "student", filter.ActorRole)
	require.NotNil(t, filter.ActorID)
	require.Equal(t, uint(1), *filter.ActorID)

	_, err = svc.List(context.Background(), dto.AdminActivityListRequest{PageSize: 500})
	require.Error(t, err)
}
