package services

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/emsteam/ems-api/internal/models"
	"github.com/emsteam/ems-api/internal/repository"
	"github.com/emsteam/ems-api/internal/storage"
	"github.com/emsteam/ems-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrFileRequired = newError(ErrValidation, "no file uploaded")
	ErrFileTooLarge = newError(ErrValidation, "file exceeds the upload size limit")
	ErrFileNotFound = newError(ErrNotFound, "file not found")
)

// FileService handles submission uploads and attachment metadata.
type FileService struct {
	fileRepo repository.FileRepository
	taskRepo repository.TaskRepository
	store    storage.Store
	maxBytes int64
	now      func() time.Time
}

// NewFileService creates a new FileService. maxBytes <= 0 disables the
// size limit.
func NewFileService(fileRepo repository.FileRepository, taskRepo repository.TaskRepository, store storage.Store, maxBytes int64) *FileService {
	return &FileService{
		fileRepo: fileRepo,
		taskRepo: taskRepo,
		store:    store,
		maxBytes: maxBytes,
		now:      time.Now,
	}
}

// UploadInput is a single file received for a task.
type UploadInput struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// Upload stores the bytes under a generated name, records the attachment and
// points the task's submission file at it. The previous pointer is
// overwritten.
func (s *FileService) Upload(p Principal, taskID uint64, input UploadInput) (*models.FileAttachment, *models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrTaskNotFound
		}
		return nil, nil, fmt.Errorf("failed to find task: %w", err)
	}

	if err := AuthorizeTaskWrite(p, task); err != nil {
		return nil, nil, err
	}

	if input.Content == nil {
		return nil, nil, ErrFileRequired
	}
	if s.maxBytes > 0 && input.Size > s.maxBytes {
		return nil, nil, ErrFileTooLarge
	}

	storedName, err := utils.GenerateStoredFilename(input.Filename, s.now())
	if err != nil {
		return nil, nil, err
	}

	content := bufio.NewReader(input.Content)
	mimeType := input.ContentType
	if mimeType == "" || mimeType == "application/octet-stream" {
		head, _ := content.Peek(512)
		mimeType = http.DetectContentType(head)
	}

	path, size, err := s.store.Save(storedName, content, s.maxBytes)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return nil, nil, ErrFileTooLarge
		}
		return nil, nil, fmt.Errorf("failed to store file: %w", err)
	}

	file := &models.FileAttachment{
		OriginalName: originalName(input.Filename),
		StoredName:   storedName,
		StoragePath:  path,
		MimeType:     mimeType,
		Size:         size,
		UploadedByID: p.UserID,
		TaskID:       task.ID,
	}

	if err := s.fileRepo.CreateAndAttach(file); err != nil {
		_ = s.store.Remove(path)
		return nil, nil, fmt.Errorf("failed to record file: %w", err)
	}

	updated, err := s.taskRepo.FindByID(task.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to reload task: %w", err)
	}

	return file, updated, nil
}

// Delete removes an attachment and its bytes. The owning task's submission
// file pointer is left as is.
func (s *FileService) Delete(p Principal, fileID uint64) error {
	if err := RequireAdmin(p); err != nil {
		return err
	}

	file, err := s.findFile(fileID)
	if err != nil {
		return err
	}

	if err := s.store.Remove(file.StoragePath); err != nil {
		return err
	}

	if err := s.fileRepo.Delete(file.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFileNotFound
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// List returns all attachments newest first with uploader and task resolved.
func (s *FileService) List(p Principal, page *utils.PaginationParams) ([]models.FileAttachment, int64, error) {
	if err := RequireAdmin(p); err != nil {
		return nil, 0, err
	}

	files, total, err := s.fileRepo.List(page, "Uploader", "Task")
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list files: %w", err)
	}
	return files, total, nil
}

// Get returns one attachment to an admin or to its uploader.
func (s *FileService) Get(p Principal, fileID uint64) (*models.FileAttachment, error) {
	file, err := s.findFile(fileID, "Uploader", "Task")
	if err != nil {
		return nil, err
	}

	if err := AuthorizeFileRead(p, file); err != nil {
		return nil, err
	}
	return file, nil
}

// URL returns the public download URL for a stored name.
func (s *FileService) URL(storedName string) string {
	return s.store.URL(storedName)
}

func (s *FileService) findFile(id uint64, preload ...string) (*models.FileAttachment, error) {
	file, err := s.fileRepo.FindByID(id, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to find file: %w", err)
	}
	return file, nil
}

func originalName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "file"
	}
	return name
}
