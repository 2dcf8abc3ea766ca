package models

import "time"

type TaskStatus string

const (
	TaskStatusNew       TaskStatus = "new"
	TaskStatusActive    TaskStatus = "active"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
)

// TaskStatuses lists every status in display order.
var TaskStatuses = []TaskStatus{
	TaskStatusNew,
	TaskStatusActive,
	TaskStatusCompleted,
	TaskStatusFailed,
}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusNew, TaskStatusActive, TaskStatusCompleted, TaskStatusFailed:
		return true
	default:
		return false
	}
}

type Task struct {
	ID             uint64     `gorm:"primarykey" json:"id"`
	Title          string     `gorm:"type:varchar(255);not null" json:"title"`
	Description    string     `gorm:"type:text" json:"description"`
	Category       string     `gorm:"type:varchar(100)" json:"category"`
	AssignedToID   uint64     `gorm:"not null;index" json:"assigned_to"`
	CreatedByID    uint64     `gorm:"index" json:"created_by"`
	Date           time.Time  `json:"date"`
	Status         TaskStatus `gorm:"type:varchar(20);not null;default:'new';index" json:"status"`
	SubmissionFile *string    `gorm:"type:varchar(255)" json:"submission_file"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Relations
	Assignee User `gorm:"foreignKey:AssignedToID" json:"-"`
	Creator  User `gorm:"foreignKey:CreatedByID" json:"-"`
}
