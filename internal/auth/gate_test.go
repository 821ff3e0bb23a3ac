package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-portal-api/internal/auth"
	"github.com/noah-isme/school-portal-api/internal/models"
)

func newGate(t *testing.T) (*auth.Gate, *auth.TokenManager) {
	t.Helper()
	manager, err := auth.NewTokenManager("gate-secret", time.Hour)
	require.NoError(t, err)
	return auth.NewGate(manager), manager
}

func TestGateAcceptsAllowedRole(t *testing.T) {
	gate, manager := newGate(t)
	token, _, err := manager.Issue(3, models.RoleAdmin)
	require.NoError(t, err)

	user, err := gate.Authorize(token, models.RoleAdmin)
	require.NoError(t, err)
	require.Equal(t, auth.UserContext{UserID: 3, Role: models.RoleAdmin}, user)
}

func TestGateRejectsOtherRoleAsForbidden(t *testing.T) {
	gate, manager := newGate(t)
	token, _, err := manager.Issue(4, models.RoleTeacher)
	require.NoError(t, err)

	_, err = gate.Authorize(token, models.RoleAdmin)
	require.ErrorIs(t, err, auth.ErrForbidden)
	require.NotErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestGateRejectsInvalidTokenAsUnauthenticated(t *testing.T) {
	gate, _ := newGate(t)

	_, err := gate.Authorize("", models.RoleAdmin)
	require.ErrorIs(t, err, auth.ErrUnauthenticated)

	_, err = gate.Authorize("garbage", models.RoleAdmin)
	require.ErrorIs(t, err, auth.ErrUnauthenticated)
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestGateReportsExpiryCause(t *testing.T) {
	past, err := auth.NewTokenManager("gate-secret", time.Minute, auth.WithClock(func() time.Time {
		return time.Now().Add(-time.Hour)
	}))
	require.NoError(t, err)
	token, _, err := past.Issue(9, models.RoleStudent)
	require.NoError(t, err)

	gate, _ := newGate(t)
	_, err = gate.Authorize(token, models.RoleStudent)
	require.ErrorIs(t, err, auth.ErrUnauthenticated)
	require.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestGateWithoutRolesAdmitsAnyAuthenticatedUser(t *testing.T) {
	gate, manager := newGate(t)
	token, _, err := manager.Issue(11, models.RoleParent)
	require.NoError(t, err)

	user, err := gate.Authorize(token)
	require.NoError(t, err)
	require.Equal(t, models.RoleParent, user.Role)
}
