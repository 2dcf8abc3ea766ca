package models

import "time"

type FileAttachment struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	OriginalName string    `gorm:"type:varchar(255);not null" json:"original_name"`
	StoredName   string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"stored_name"`
	StoragePath  string    `gorm:"type:varchar(512);not null" json:"-"`
	MimeType     string    `gorm:"type:varchar(255)" json:"mime_type"`
	Size         int64     `json:"size"`
	UploadedByID uint64    `gorm:"not null;index" json:"uploaded_by"`
	TaskID       uint64    `gorm:"not null;index" json:"task_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Uploader User `gorm:"foreignKey:UploadedByID" json:"-"`
	Task     Task `gorm:"foreignKey:TaskID" json:"-"`
}
