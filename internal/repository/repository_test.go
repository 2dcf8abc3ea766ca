package repository_test

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/emsteam/ems-api/internal/models"
	"github.com/emsteam/ems-api/internal/repository"
	"github.com/emsteam/ems-api/internal/testutil"
	"github.com/emsteam/ems-api/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func createUser(t *testing.T, db *gorm.DB, email string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{Username: email, Email: email, Role: role}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTask(t *testing.T, db *gorm.DB, title string, assignee uint64, status models.TaskStatus) *models.Task {
	t.Helper()
	task := &models.Task{Title: title, AssignedToID: assignee, Status: status, Date: time.Now()}
	require.NoError(t, db.Create(task).Error)
	return task
}

func TestTaskRepository_ListFilters(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewTaskRepository(db)

	alice := createUser(t, db, "alice@example.com", models.RoleEmployee)
	bob := createUser(t, db, "bob@example.com", models.RoleEmployee)
	createTask(t, db, "a1", alice.ID, models.TaskStatusNew)
	createTask(t, db, "b1", bob.ID, models.TaskStatusActive)
	createTask(t, db, "a2", alice.ID, models.TaskStatusFailed)

	all, err := repo.List(repository.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	own, err := repo.List(repository.TaskFilter{AssignedToID: &alice.ID, Preload: []string{"Assignee"}})
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Equal(t, "a1", own[0].Title)
	assert.Equal(t, "alice@example.com", own[0].Assignee.Email)

	none, err := repo.List(repository.TaskFilter{AssignedToIDs: []uint64{}})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestTaskRepository_CountByStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewTaskRepository(db)

	user := createUser(t, db, "e@example.com", models.RoleEmployee)
	createTask(t, db, "1", user.ID, models.TaskStatusNew)
	createTask(t, db, "2", user.ID, models.TaskStatusNew)
	createTask(t, db, "3", user.ID, models.TaskStatusCompleted)

	counts, err := repo.CountByStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[models.TaskStatusNew])
	assert.Equal(t, int64(1), counts[models.TaskStatusCompleted])
	assert.Zero(t, counts[models.TaskStatusFailed])
}

func TestFileRepository_CreateAndAttach(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewFileRepository(db)

	user := createUser(t, db, "e@example.com", models.RoleEmployee)
	task := createTask(t, db, "t", user.ID, models.TaskStatusNew)

	file := &models.FileAttachment{
		OriginalName: "a.txt",
		StoredName:   "1-aa-a.txt",
		StoragePath:  "uploads/1-aa-a.txt",
		UploadedByID: user.ID,
		TaskID:       task.ID,
	}
	require.NoError(t, repo.CreateAndAttach(file))
	assert.NotZero(t, file.ID)

	var reloaded models.Task
	require.NoError(t, db.First(&reloaded, task.ID).Error)
	require.NotNil(t, reloaded.SubmissionFile)
	assert.Equal(t, "1-aa-a.txt", *reloaded.SubmissionFile)

	// A duplicate stored name rolls the whole upload back.
	dup := *file
	dup.ID = 0
	err := repo.CreateAndAttach(&dup)
	assert.ErrorIs(t, err, repository.ErrCreateFile)
}

func TestFileRepository_ListAndDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewFileRepository(db)

	user := createUser(t, db, "e@example.com", models.RoleEmployee)
	t1 := createTask(t, db, "t1", user.ID, models.TaskStatusNew)
	t2 := createTask(t, db, "t2", user.ID, models.TaskStatusNew)

	base := time.Now().Add(-time.Hour)
	for i, taskID := range []uint64{t1.ID, t1.ID, t2.ID} {
		f := &models.FileAttachment{
			OriginalName: "f",
			StoredName:   string(rune('a' + i)),
			StoragePath:  "p",
			UploadedByID: user.ID,
			TaskID:       taskID,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(f).Error)
	}

	files, total, err := repo.List(nil, "Uploader", "Task")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, files, 3)
	assert.Equal(t, "c", files[0].StoredName, "newest first")
	assert.Equal(t, "t2", files[0].Task.Title)

	page, total, err := repo.List(&utils.PaginationParams{Page: 2, Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 1)
	assert.Equal(t, "a", page[0].StoredName)

	byTask, err := repo.ListByTaskIDs([]uint64{t1.ID})
	require.NoError(t, err)
	assert.Len(t, byTask, 2)

	require.NoError(t, repo.Delete(byTask[0].ID))
	assert.ErrorIs(t, repo.Delete(byTask[0].ID), gorm.ErrRecordNotFound)
}

func TestUserRepository_FindByEmailIsCaseInsensitive(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)

	require.NoError(t, repo.Create(&models.User{Username: "a", Email: "a@x.com", Role: models.RoleEmployee}))

	user, err := repo.FindByEmail("  A@X.COM ")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", user.Email)

	employees, err := repo.ListByRole(models.RoleEmployee)
	require.NoError(t, err)
	assert.Len(t, employees, 1)
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func TestTaskRepository_ListPropagatesDriverErrors(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewTaskRepository(db)

	errBoom := errors.New("connection reset")
	mock.ExpectQuery(`SELECT \* FROM "tasks"`).WillReturnError(errBoom)

	_, err := repo.List(repository.TaskFilter{})
	assert.ErrorIs(t, err, errBoom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_CountByStatusScansRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := repository.NewTaskRepository(db)

	rows := sqlmock.NewRows([]string{"status", "count"}).
		AddRow("new", 2).
		AddRow("failed", 1)
	mock.ExpectQuery(`SELECT status, COUNT\(\*\) AS count FROM "tasks"`).WillReturnRows(rows)

	counts, err := repo.CountByStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[models.TaskStatusNew])
	assert.Equal(t, int64(1), counts[models.TaskStatusFailed])
	assert.NoError(t, mock.ExpectationsWereMet())
}
