package database_test

import (
	"testing"

	"github.com/emsteam/ems-api/internal/config"
	"github.com/emsteam/ems-api/internal/database"
	"github.com/emsteam/ems-api/internal/models"
	"github.com/emsteam/ems-api/internal/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestConnect_UnsupportedDriver(t *testing.T) {
	_, err := database.Connect(&config.Config{DBDriver: "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}

func TestMigrate_CreatesCompositeIndexes(t *testing.T) {
	db := testutil.NewTestDB(t)

	assert.True(t, db.Migrator().HasIndex("tasks", "idx_tasks_assignee_status"))
	assert.True(t, db.Migrator().HasIndex("file_attachments", "idx_files_task_created"))

	// Running again must skip the existing indexes.
	require.NoError(t, database.Migrate(db))
}

func TestSeed_Idempotent(t *testing.T) {
	db := testutil.NewTestDB(t)
	log, _ := test.NewNullLogger()

	require.NoError(t, database.Seed(db, "Admin@123", log))
	require.NoError(t, database.Seed(db, "Admin@123", logrus.NewEntry(log)))

	var admins, employees, tasks int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins)
	db.Model(&models.User{}).Where("role = ?", models.RoleEmployee).Count(&employees)
	db.Model(&models.Task{}).Count(&tasks)

	assert.Equal(t, int64(1), admins)
	assert.Equal(t, int64(3), employees)
	assert.Equal(t, int64(12), tasks)

	var admin models.User
	require.NoError(t, db.Where("email = ?", "admin@ems.com").First(&admin).Error)
	require.True(t, admin.HasPassword())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*admin.PasswordHash), []byte("Admin@123")))
}
