package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/emsteam/ems-api/internal/middleware"
	"github.com/emsteam/ems-api/internal/models"
	"github.com/emsteam/ems-api/internal/repository"
	"github.com/emsteam/ems-api/internal/services"
	"github.com/emsteam/ems-api/internal/storage"
	"github.com/emsteam/ems-api/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testMaxUpload = 1024

type handlerTestEnv struct {
	db          *gorm.DB
	router      *gin.Engine
	tokens      *services.TokenService
	authService *services.AuthService
	admin       *models.User
	alice       *models.User
	bob         *models.User
}

func setupHandlerTestEnv(t *testing.T) *handlerTestEnv {
	t.Helper()

	db := testutil.NewTestDB(t)
	store, err := storage.NewLocalStore(filepath.Join(t.TempDir(), "uploads"), "http://localhost:5000", "/uploads")
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	fileRepo := repository.NewFileRepository(db)
	tokens := services.NewTokenService("test-secret", time.Hour)

	authService := services.NewAuthService(userRepo, tokens, nil)
	taskService := services.NewTaskService(taskRepo, userRepo, fileRepo, store, nil)
	fileService := services.NewFileService(fileRepo, taskRepo, store, testMaxUpload)
	userService := services.NewUserService(userRepo)

	env := &handlerTestEnv{
		db:          db,
		router:      newTestRouter(tokens, authService, taskService, fileService, userService),
		tokens:      tokens,
		authService: authService,
	}

	env.admin = env.createUser(t, "admin", models.RoleAdmin)
	env.alice = env.createUser(t, "alice", models.RoleEmployee)
	env.bob = env.createUser(t, "bob", models.RoleEmployee)

	return env
}

func newTestRouter(tokens *services.TokenService, authService *services.AuthService, taskService *services.TaskService, fileService *services.FileService, userService *services.UserService) *gin.Engine {
	authHandler := NewAuthHandler(authService)
	taskHandler := NewTaskHandler(taskService, fileService, testMaxUpload)
	fileHandler := NewFileHandler(fileService)
	userHandler := NewUserHandler(userService)

	requireAuth := middleware.RequireAuth(tokens)

	r := gin.New()
	r.POST("/api/auth/signup", authHandler.Signup)
	r.POST("/api/auth/login", authHandler.Login)
	r.POST("/api/auth/google-login", authHandler.GoogleLogin)
	r.GET("/api/auth/me", requireAuth, authHandler.GetCurrentUser)

	r.GET("/api/tasks", requireAuth, taskHandler.ListTasks)
	r.POST("/api/tasks/create", requireAuth, taskHandler.CreateTask)
	r.PATCH("/api/tasks/update-status/:id", requireAuth, taskHandler.UpdateStatus)
	r.POST("/api/tasks/upload/:taskId", requireAuth, taskHandler.UploadFile)
	r.DELETE("/api/tasks/file/:fileId", requireAuth, taskHandler.DeleteFile)
	r.GET("/api/tasks/overview", requireAuth, taskHandler.Overview)
	r.GET("/api/tasks/summary", requireAuth, taskHandler.Summary)
	r.POST("/api/tasks/generate", requireAuth, taskHandler.GenerateTasks)

	r.GET("/api/users/employees", requireAuth, userHandler.ListEmployees)
	r.DELETE("/api/users/:id", requireAuth, userHandler.DismissEmployee)

	r.GET("/api/files", requireAuth, fileHandler.ListFiles)
	r.GET("/api/files/:id", requireAuth, fileHandler.GetFile)

	return r
}

func (e *handlerTestEnv) createUser(t *testing.T, name string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{Username: name, Email: name + "@example.com", Role: role}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *handlerTestEnv) token(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := e.tokens.Issue(user)
	require.NoError(t, err)
	return token
}

func (e *handlerTestEnv) do(t *testing.T, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *handlerTestEnv) upload(t *testing.T, path, token, field, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "no file"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
