package dto

import (
	"time"

	"github.com/emsteam/ems-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64      `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
}

// UserRefDTO is a user referenced from another resource. Username and
// email are only present when the relation was loaded.
type UserRefDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID             uint64            `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Category       string            `json:"category"`
	AssignedTo     UserRefDTO        `json:"assignedTo"`
	CreatedBy      UserRefDTO        `json:"createdBy"`
	Date           time.Time         `json:"date"`
	Status         models.TaskStatus `json:"status"`
	SubmissionFile *string           `json:"submissionFile"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// TaskRefDTO is a task referenced from a file attachment
type TaskRefDTO struct {
	ID     uint64            `json:"id"`
	Title  string            `json:"title,omitempty"`
	Status models.TaskStatus `json:"status,omitempty"`
}

// FileDTO represents a file attachment in API responses
type FileDTO struct {
	ID           uint64     `json:"id"`
	OriginalName string     `json:"originalName"`
	StoredName   string     `json:"storedName"`
	MimeType     string     `json:"mimeType"`
	Size         int64      `json:"size"`
	URL          string     `json:"url"`
	UploadedBy   UserRefDTO `json:"uploadedBy"`
	Task         TaskRefDTO `json:"task"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
}

// ToUserDTOs converts a slice of users
func ToUserDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i, u := range users {
		out[i] = ToUserDTO(u)
	}
	return out
}

func toUserRef(id uint64, user models.User) UserRefDTO {
	ref := UserRefDTO{ID: id}
	// Include identity if preloaded
	if user.ID == id {
		ref.Username = user.Username
		ref.Email = user.Email
	}
	return ref
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		Category:       task.Category,
		AssignedTo:     toUserRef(task.AssignedToID, task.Assignee),
		CreatedBy:      toUserRef(task.CreatedByID, task.Creator),
		Date:           task.Date,
		Status:         task.Status,
		SubmissionFile: task.SubmissionFile,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	out := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		out[i] = ToTaskDTO(t)
	}
	return out
}

// ToFileDTO converts a FileAttachment model to FileDTO. url is the public
// download location of the stored bytes.
func ToFileDTO(file models.FileAttachment, url string) FileDTO {
	dto := FileDTO{
		ID:           file.ID,
		OriginalName: file.OriginalName,
		StoredName:   file.StoredName,
		MimeType:     file.MimeType,
		Size:         file.Size,
		URL:          url,
		UploadedBy:   toUserRef(file.UploadedByID, file.Uploader),
		Task:         TaskRefDTO{ID: file.TaskID},
		CreatedAt:    file.CreatedAt,
	}

	// Include task summary if preloaded
	if file.Task.ID == file.TaskID {
		dto.Task.Title = file.Task.Title
		dto.Task.Status = file.Task.Status
	}

	return dto
}
