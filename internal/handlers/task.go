package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/emsteam/ems-api/internal/constants"
	"github.com/emsteam/ems-api/internal/dto"
	"github.com/emsteam/ems-api/internal/services"
	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	taskService *services.TaskService
	fileService *services.FileService
	maxUpload   int64
}

// NewTaskHandler creates a new TaskHandler. maxUpload bounds the multipart
// body of uploads; <= 0 disables the bound.
func NewTaskHandler(taskService *services.TaskService, fileService *services.FileService, maxUpload int64) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		fileService: fileService,
		maxUpload:   maxUpload,
	}
}

// CreateTask creates a new task assigned to an employee
func (h *TaskHandler) CreateTask(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		Category    string `json:"category"`
		AssignedTo  uint64 `json:"assignedTo" binding:"required"`
		Date        string `json:"date"`
	}

	var req CreateTaskRequest
	if !bindJSON(c, &req, map[string]error{
		"Title":      services.ErrTitleRequired,
		"AssignedTo": services.ErrAssigneeRequired,
	}) {
		return
	}

	// Date inputs send plain YYYY-MM-DD values.
	date, err := services.ParseTaskDate(req.Date)
	if err != nil {
		respondError(c, err)
		return
	}

	task, err := h.taskService.CreateTask(p, services.CreateTaskInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		AssignedToID: req.AssignedTo,
		Date:         date,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Task created successfully",
		"task":    dto.ToTaskDTO(*task),
	})
}

// ListTasks returns all tasks for admins and the caller's own tasks otherwise
func (h *TaskHandler) ListTasks(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	tasks, err := h.taskService.ListTasks(p)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// UpdateStatus overwrites the status of a task
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	taskID, ok := parseIDParam(c, "id", "Invalid task ID")
	if !ok {
		return
	}

	type UpdateStatusRequest struct {
		Status string `json:"status" binding:"required"`
	}

	var req UpdateStatusRequest
	if !bindJSON(c, &req, map[string]error{"Status": services.ErrInvalidStatus}) {
		return
	}

	task, err := h.taskService.UpdateStatus(p, taskID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task status updated successfully",
		"task":    dto.ToTaskDTO(*task),
	})
}

// UploadFile stores a submission file for a task
func (h *TaskHandler) UploadFile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	taskID, ok := parseIDParam(c, "taskId", "Invalid task ID")
	if !ok {
		return
	}

	if h.maxUpload > 0 {
		// Leave room for the multipart envelope around the file itself.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+1<<20)
	}

	input := services.UploadInput{}
	header, err := c.FormFile(constants.UploadFormField)
	switch {
	case err == nil:
		src, err := header.Open()
		if err != nil {
			respondError(c, err)
			return
		}
		defer src.Close()

		input.Filename = header.Filename
		input.ContentType = header.Header.Get("Content-Type")
		input.Size = header.Size
		input.Content = src
	case isBodyTooLarge(err):
		input.Filename = "file"
		input.Size = h.maxUpload + 1
		input.Content = strings.NewReader("")
	}

	file, task, err := h.fileService.Upload(p, taskID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "File uploaded successfully",
		"file":    dto.ToFileDTO(*file, h.fileService.URL(file.StoredName)),
		"task":    dto.ToTaskDTO(*task),
	})
}

// DeleteFile removes an uploaded file and its metadata
func (h *TaskHandler) DeleteFile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	fileID, ok := parseIDParam(c, "fileId", "Invalid file ID")
	if !ok {
		return
	}

	if err := h.fileService.Delete(p, fileID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}

// Overview returns the per-employee dashboard
func (h *TaskHandler) Overview(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	overview, err := h.taskService.Overview(p)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

// Summary returns task counts by status across all employees
func (h *TaskHandler) Summary(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	summary, err := h.taskService.StatusSummary(p)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GenerateTasks generates task suggestions from text using AI
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	type GenerateTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req GenerateTasksRequest
	if !bindJSON(c, &req, map[string]error{"Text": services.ErrDraftTextRequired}) {
		return
	}

	drafts, err := h.taskService.GenerateTasks(c.Request.Context(), p, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": drafts,
	})
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
