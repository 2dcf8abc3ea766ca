package server

import (
	"net/http"
	"time"

	"github.com/emsteam/ems-api/internal/config"
	"github.com/emsteam/ems-api/internal/constants"
	apierrors "github.com/emsteam/ems-api/internal/errors"
	"github.com/emsteam/ems-api/internal/handlers"
	"github.com/emsteam/ems-api/internal/middleware"
	"github.com/emsteam/ems-api/internal/models"
	"github.com/emsteam/ems-api/internal/repository"
	"github.com/emsteam/ems-api/internal/services"
	"github.com/emsteam/ems-api/internal/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Options are the collaborators the router is built from. Identity and AI
// are optional; without them federated login and task drafting answer 503.
type Options struct {
	Config   *config.Config
	Logger   logrus.FieldLogger
	DB       *gorm.DB
	Store    *storage.LocalStore
	Identity services.IdentityVerifier
	AI       *services.AIService
}

func NewRouter(opts Options) *gin.Engine {
	cfg := opts.Config

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	r.MaxMultipartMemory = 8 << 20

	userRepo := repository.NewUserRepository(opts.DB)
	taskRepo := repository.NewTaskRepository(opts.DB)
	fileRepo := repository.NewFileRepository(opts.DB)

	tokens := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := services.NewAuthService(userRepo, tokens, opts.Identity)
	taskService := services.NewTaskService(taskRepo, userRepo, fileRepo, opts.Store, opts.AI)
	fileService := services.NewFileService(fileRepo, taskRepo, opts.Store, cfg.MaxUploadBytes)
	userService := services.NewUserService(userRepo)

	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService, fileService, cfg.MaxUploadBytes)
	fileHandler := handlers.NewFileHandler(fileService)
	userHandler := handlers.NewUserHandler(userService)

	requireAuth := middleware.RequireAuth(tokens)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Employee Task Management API is running",
		})
	})

	r.Static(cfg.UploadURLPrefix, opts.Store.Dir())

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/google-login", authHandler.GoogleLogin)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.PATCH("/update-status/:id", taskHandler.UpdateStatus)
			tasks.POST("/upload/:taskId", taskHandler.UploadFile)
			tasks.POST("/create", adminOnly, taskHandler.CreateTask)
			tasks.DELETE("/file/:fileId", adminOnly, taskHandler.DeleteFile)
			tasks.GET("/overview", adminOnly, taskHandler.Overview)
			tasks.GET("/summary", adminOnly, taskHandler.Summary)
			tasks.POST("/generate", adminOnly, taskHandler.GenerateTasks)
		}

		users := api.Group("/users")
		users.Use(requireAuth, adminOnly)
		{
			users.GET("/employees", userHandler.ListEmployees)
			users.DELETE("/:id", userHandler.DismissEmployee)
		}

		files := api.Group("/files")
		files.Use(requireAuth)
		{
			files.GET("", adminOnly, fileHandler.ListFiles)
			files.GET("/:id", fileHandler.GetFile)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		apierrors.NotFound(c, "Route not found")
	})

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{constants.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(origins) == 0 {
		origins = []string{"*"}
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	return cfg
}
