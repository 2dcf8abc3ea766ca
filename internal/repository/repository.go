package repository

import (
	"github.com/emsteam/ems-api/internal/models"
	"github.com/emsteam/ems-api/internal/utils"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks matching the filter, ordered by ID
	List(filter TaskFilter) ([]models.Task, error)

	// UpdateStatus overwrites only the status column
	UpdateStatus(id uint64, status models.TaskStatus) error

	// CountByStatus groups all tasks by status
	CountByStatus() (map[models.TaskStatus]int64, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	AssignedToID  *uint64
	AssignedToIDs []uint64
	Preload       []string
}

// FileRepository defines the interface for file attachment metadata
type FileRepository interface {
	// CreateAndAttach stores the attachment and points its task's
	// submission file at it in one transaction
	CreateAndAttach(file *models.FileAttachment) error

	// FindByID finds an attachment by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.FileAttachment, error)

	// List returns attachments newest first together with the total count
	List(page *utils.PaginationParams, preload ...string) ([]models.FileAttachment, int64, error)

	// ListByTaskIDs returns every attachment linked to one of the tasks
	ListByTaskIDs(taskIDs []uint64) ([]models.FileAttachment, error)

	// Delete hard deletes an attachment record
	Delete(id uint64) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by normalized email
	FindByEmail(email string) (*models.User, error)

	// ListByRole lists users with the given role ordered by ID
	ListByRole(role models.Role) ([]models.User, error)

	// Delete hard deletes a user
	Delete(id uint64) error
}
