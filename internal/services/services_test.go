package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/emsteam/ems-api/internal/models"
	"github.com/emsteam/ems-api/internal/repository"
	"github.com/emsteam/ems-api/internal/storage"
	"github.com/emsteam/ems-api/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db      *gorm.DB
	store   *storage.LocalStore
	tasks   *TaskService
	files   *FileService
	users   *UserService
	auth    *AuthService
	tokens  *TokenService
	admin   *models.User
	alice   *models.User
	bob     *models.User
	asAdmin Principal
	asAlice Principal
	asBob   Principal
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewTestDB(t)
	store, err := storage.NewLocalStore(filepath.Join(t.TempDir(), "uploads"), "http://localhost:5000", "/uploads")
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	fileRepo := repository.NewFileRepository(db)
	tokens := NewTokenService("test-secret", time.Hour)

	env := &testEnv{
		db:     db,
		store:  store,
		tasks:  NewTaskService(taskRepo, userRepo, fileRepo, store, nil),
		files:  NewFileService(fileRepo, taskRepo, store, 1024),
		users:  NewUserService(userRepo),
		auth:   NewAuthService(userRepo, tokens, nil),
		tokens: tokens,
	}

	env.admin = env.createUser(t, "admin", models.RoleAdmin)
	env.alice = env.createUser(t, "alice", models.RoleEmployee)
	env.bob = env.createUser(t, "bob", models.RoleEmployee)
	env.asAdmin = Principal{UserID: env.admin.ID, Role: models.RoleAdmin}
	env.asAlice = Principal{UserID: env.alice.ID, Role: models.RoleEmployee}
	env.asBob = Principal{UserID: env.bob.ID, Role: models.RoleEmployee}

	return env
}

func (e *testEnv) createUser(t *testing.T, name string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{Username: name, Email: name + "@example.com", Role: role}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) createTask(t *testing.T, title string, assignee *models.User) *models.Task {
	t.Helper()
	task, err := e.tasks.CreateTask(e.asAdmin, CreateTaskInput{Title: title, AssignedToID: assignee.ID})
	require.NoError(t, err)
	return task
}

func (e *testEnv) reloadTask(t *testing.T, id uint64) *models.Task {
	t.Helper()
	var task models.Task
	require.NoError(t, e.db.First(&task, id).Error)
	return &task
}
