package services

import (
	"testing"

	"github.com/emsteam/ems-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_ListEmployees(t *testing.T) {
	env := setupTestEnv(t)

	employees, err := env.users.ListEmployees(env.asAdmin)
	require.NoError(t, err)
	require.Len(t, employees, 2)
	assert.Equal(t, "alice", employees[0].Username)
	assert.Equal(t, "bob", employees[1].Username)

	_, err = env.users.ListEmployees(env.asAlice)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUserService_Dismiss(t *testing.T) {
	env := setupTestEnv(t)
	task := env.createTask(t, "keep me", env.alice)

	require.NoError(t, env.users.Dismiss(env.asAdmin, env.alice.ID))

	var count int64
	env.db.Model(&models.User{}).Where("id = ?", env.alice.ID).Count(&count)
	assert.Zero(t, count)

	// Tasks of a dismissed employee survive.
	assert.Equal(t, "keep me", env.reloadTask(t, task.ID).Title)

	assert.ErrorIs(t, env.users.Dismiss(env.asAdmin, env.alice.ID), ErrEmployeeNotFound)
}

func TestUserService_DismissForbidden(t *testing.T) {
	env := setupTestEnv(t)
	other := env.createUser(t, "boss", models.RoleAdmin)

	assert.ErrorIs(t, env.users.Dismiss(env.asAdmin, other.ID), ErrCannotDismissAdmin)
	assert.ErrorIs(t, env.users.Dismiss(env.asBob, env.alice.ID), ErrAdminOnly)

	var count int64
	env.db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(4), count)
}
