package repository

import (
	"errors"
	"fmt"

	"github.com/emsteam/ems-api/internal/database"
	"github.com/emsteam/ems-api/internal/models"
	"github.com/emsteam/ems-api/internal/utils"
	"gorm.io/gorm"
)

var (
	// ErrCreateFile is returned when inserting the attachment fails inside the upload transaction.
	ErrCreateFile = errors.New("file repository: create file failed")
	// ErrAttachFile is returned when updating the task's submission file fails inside the upload transaction.
	ErrAttachFile = errors.New("file repository: attach file to task failed")
)

// GormFileRepository is a GORM implementation of FileRepository
type GormFileRepository struct {
	db *gorm.DB
}

// NewFileRepository creates a new FileRepository
func NewFileRepository(db *gorm.DB) FileRepository {
	return &GormFileRepository{db: db}
}

// CreateAndAttach inserts the attachment and overwrites tasks.submission_file atomically.
func (r *GormFileRepository) CreateAndAttach(file *models.FileAttachment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(file).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateFile, err)
		}

		if err := tx.Model(&models.Task{}).
			Where("id = ?", file.TaskID).
			Update("submission_file", file.StoredName).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrAttachFile, err)
		}

		return nil
	})
}

// FindByID finds an attachment by ID with optional preloading
func (r *GormFileRepository) FindByID(id uint64, preload ...string) (*models.FileAttachment, error) {
	var file models.FileAttachment
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&file, id).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

// List returns attachments newest first
func (r *GormFileRepository) List(page *utils.PaginationParams, preload ...string) ([]models.FileAttachment, int64, error) {
	var total int64
	if err := r.db.Model(&models.FileAttachment{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.Model(&models.FileAttachment{})
	for _, p := range preload {
		query = query.Preload(p)
	}

	files := []models.FileAttachment{}
	if err := query.Scopes(database.Paginate(page)).
		Order("created_at DESC, id DESC").
		Find(&files).Error; err != nil {
		return nil, 0, err
	}

	return files, total, nil
}

// ListByTaskIDs returns every attachment linked to one of the tasks
func (r *GormFileRepository) ListByTaskIDs(taskIDs []uint64) ([]models.FileAttachment, error) {
	files := []models.FileAttachment{}
	if len(taskIDs) == 0 {
		return files, nil
	}

	if err := r.db.Where("task_id IN ?", taskIDs).
		Order("id ASC").
		Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

// Delete hard deletes an attachment record
func (r *GormFileRepository) Delete(id uint64) error {
	result := r.db.Delete(&models.FileAttachment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
