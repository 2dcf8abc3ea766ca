package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/emsteam/ems-api/internal/constants"
	"github.com/emsteam/ems-api/internal/models"
	"github.com/emsteam/ems-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTitleRequired          = newError(ErrValidation, "title is required")
	ErrAssigneeRequired       = newError(ErrValidation, "assignedTo is required")
	ErrInvalidStatus          = newError(ErrValidation, "invalid status value")
	ErrInvalidDate            = newError(ErrValidation, "date must be YYYY-MM-DD or an RFC3339 timestamp")
	ErrDraftTextRequired      = newError(ErrValidation, "text is required")
	ErrAssigneeNotFound       = newError(ErrNotFound, "employee not found")
	ErrTaskNotFound           = newError(ErrNotFound, "task not found")
	ErrAIServiceNotConfigured = newError(ErrUnavailable, "AI service is not configured")
	ErrAINoTasksGenerated     = newError(ErrValidation, "AI did not generate any tasks")
)

// URLResolver maps a stored file name to its public download URL.
type URLResolver interface {
	URL(storedName string) string
}

// TaskService handles task business logic
type TaskService struct {
	taskRepo  repository.TaskRepository
	userRepo  repository.UserRepository
	fileRepo  repository.FileRepository
	urls      URLResolver
	aiService *AIService
	now       func() time.Time
}

// NewTaskService creates a new TaskService. aiService may be nil.
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, fileRepo repository.FileRepository, urls URLResolver, aiService *AIService) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		userRepo:  userRepo,
		fileRepo:  fileRepo,
		urls:      urls,
		aiService: aiService,
		now:       time.Now,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title        string
	Description  string
	Category     string
	AssignedToID uint64
	Date         *time.Time
}

// ParseTaskDate reads a task date as sent by clients: an RFC3339 timestamp
// or a plain YYYY-MM-DD date (midnight UTC). Blank input yields nil.
func ParseTaskDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, ErrInvalidDate
}

// CreateTask creates a new task in status new, owned by the calling admin.
func (s *TaskService) CreateTask(p Principal, input CreateTaskInput) (*models.Task, error) {
	if err := RequireAdmin(p); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if input.AssignedToID == 0 {
		return nil, ErrAssigneeRequired
	}

	if _, err := s.userRepo.FindByID(input.AssignedToID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssigneeNotFound
		}
		return nil, fmt.Errorf("failed to find assignee: %w", err)
	}

	date := s.now()
	if input.Date != nil {
		date = *input.Date
	}

	task := &models.Task{
		Title:        title,
		Description:  input.Description,
		Category:     input.Category,
		AssignedToID: input.AssignedToID,
		CreatedByID:  p.UserID,
		Date:         date,
		Status:       models.TaskStatusNew,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Assignee", "Creator")
}

// UpdateStatus overwrites a task's status. Any of the four statuses may
// follow any other.
func (s *TaskService) UpdateStatus(p Principal, taskID uint64, status string) (*models.Task, error) {
	next := models.TaskStatus(status)
	if !next.Valid() {
		return nil, ErrInvalidStatus
	}

	task, err := s.findTask(taskID)
	if err != nil {
		return nil, err
	}

	if err := AuthorizeTaskWrite(p, task); err != nil {
		return nil, err
	}

	if err := s.taskRepo.UpdateStatus(task.ID, next); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	return s.findTask(task.ID)
}

// ListTasks returns every task for admins, with assignee and creator
// resolved, and only the caller's own tasks for employees.
func (s *TaskService) ListTasks(p Principal) ([]models.Task, error) {
	filter := repository.TaskFilter{
		AssignedToID: taskVisibility(p),
		Preload:      []string{"Creator"},
	}
	if p.IsAdmin() {
		filter.Preload = append(filter.Preload, "Assignee")
	}

	tasks, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// TaskCounts is the per-status breakdown used by the overview.
type TaskCounts struct {
	New       int `json:"newTask"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

func (c *TaskCounts) add(status models.TaskStatus) {
	switch status {
	case models.TaskStatusNew:
		c.New++
	case models.TaskStatusActive:
		c.Active++
	case models.TaskStatusCompleted:
		c.Completed++
	case models.TaskStatusFailed:
		c.Failed++
	}
}

// Total is the number of counted tasks.
func (c TaskCounts) Total() int {
	return c.New + c.Active + c.Completed + c.Failed
}

// OverviewFile is an uploaded file as shown on the admin dashboard.
type OverviewFile struct {
	ID    uint64 `json:"id"`
	Title string `json:"title"`
	File  string `json:"file"`
	URL   string `json:"url"`
}

// EmployeeOverview is one dashboard row.
type EmployeeOverview struct {
	ID            uint64         `json:"id"`
	FirstName     string         `json:"firstName"`
	TaskCounts    TaskCounts     `json:"taskCounts"`
	UploadedFiles []OverviewFile `json:"uploadedFiles"`
}

// Overview builds one row per employee with task counts by status and the
// files uploaded against that employee's tasks. Tasks and files are each
// loaded once and joined in memory.
func (s *TaskService) Overview(p Principal) ([]EmployeeOverview, error) {
	if err := RequireAdmin(p); err != nil {
		return nil, err
	}

	employees, err := s.userRepo.ListByRole(models.RoleEmployee)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	employeeIDs := make([]uint64, len(employees))
	for i, emp := range employees {
		employeeIDs[i] = emp.ID
	}

	tasks, err := s.taskRepo.List(repository.TaskFilter{AssignedToIDs: employeeIDs})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	counts := make(map[uint64]*TaskCounts, len(employees))
	taskOwner := make(map[uint64]uint64, len(tasks))
	taskIDs := make([]uint64, len(tasks))
	for i, task := range tasks {
		taskIDs[i] = task.ID
		taskOwner[task.ID] = task.AssignedToID
		if counts[task.AssignedToID] == nil {
			counts[task.AssignedToID] = &TaskCounts{}
		}
		counts[task.AssignedToID].add(task.Status)
	}

	files, err := s.fileRepo.ListByTaskIDs(taskIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	filesByEmployee := make(map[uint64][]OverviewFile, len(employees))
	for _, f := range files {
		owner := taskOwner[f.TaskID]
		filesByEmployee[owner] = append(filesByEmployee[owner], OverviewFile{
			ID:    f.ID,
			Title: f.OriginalName,
			File:  f.StoredName,
			URL:   s.urls.URL(f.StoredName),
		})
	}

	overview := make([]EmployeeOverview, 0, len(employees))
	for _, emp := range employees {
		row := EmployeeOverview{
			ID:            emp.ID,
			FirstName:     emp.Username,
			UploadedFiles: filesByEmployee[emp.ID],
		}
		if c := counts[emp.ID]; c != nil {
			row.TaskCounts = *c
		}
		if row.UploadedFiles == nil {
			row.UploadedFiles = []OverviewFile{}
		}
		overview = append(overview, row)
	}

	return overview, nil
}

// StatusCount is one bucket of the global status rollup.
type StatusCount struct {
	Status models.TaskStatus `json:"status"`
	Count  int64             `json:"count"`
}

// StatusSummary counts all tasks by status regardless of assignee. Every
// status is present, in display order.
func (s *TaskService) StatusSummary(p Principal) ([]StatusCount, error) {
	if err := RequireAdmin(p); err != nil {
		return nil, err
	}

	counts, err := s.taskRepo.CountByStatus()
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	summary := make([]StatusCount, len(models.TaskStatuses))
	for i, status := range models.TaskStatuses {
		summary[i] = StatusCount{Status: status, Count: counts[status]}
	}
	return summary, nil
}

// GenerateTasks asks the AI service for task drafts. Drafts with a blank
// title are dropped and past dates are cleared.
func (s *TaskService) GenerateTasks(ctx context.Context, p Principal, text string) ([]GeneratedTask, error) {
	if err := RequireAdmin(p); err != nil {
		return nil, err
	}
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrDraftTextRequired
	}

	drafts, err := s.aiService.GenerateTasksFromText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	valid := make([]GeneratedTask, 0, len(drafts))
	cutoff := s.now().Add(-24 * time.Hour)
	for _, draft := range drafts {
		if strings.TrimSpace(draft.Title) == "" {
			continue
		}
		if draft.Date != nil && draft.Date.Before(cutoff) {
			draft.Date = nil
		}
		valid = append(valid, draft)
		if len(valid) == constants.MaxAIGeneratedTasks {
			break
		}
	}

	if len(valid) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	return valid, nil
}

func (s *TaskService) findTask(id uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id, "Assignee", "Creator")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}
