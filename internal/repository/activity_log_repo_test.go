package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/models"
)

func TestActivityLogRepositoryFiltersAndPaginates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityLogRepository(db)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	entries := []models.ActivityLog{
		{ActorID: 1, ActorRole: "student", Action: "user.registered", EntityType: "user", CreatedAt: base},
		{ActorID: 1, ActorRole: "student", Action: "user.login", EntityType: "user", CreatedAt: base.Add(time.Hour)},
		{ActorID: 2, ActorRole: "teacher", Action: "user.login", EntityType: "user", CreatedAt: base.Add(2 * time.Hour)},
	}
	for i := range entries {
		require.NoError(t, repo.Create(ctx, &entries[i]))
	}

	logins, total, err := repo.List(ctx, ActivityLogFilter{Action: "user.login"})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Equal(t, uint(2), logins[0].ActorID, "newest first")

	actor := uint(1)
	page, total, err := repo.List(ctx, ActivityLogFilter{ActorID: &actor, Page: 2, PageSize: 1})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, page, 1)
	require.Equal(t, "user.registered", page[0].Action)

	since := base.Add(90 * time.Minute)
	recent, _, err := repo.List(ctx, ActivityLogFilter{ActorRole: "teacher", Since: &since})
	require.NoError(t, err)
	require.Len(t, recent, 1)
}
