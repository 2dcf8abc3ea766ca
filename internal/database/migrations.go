package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

type index struct {
	table   string
	name    string
	columns []string
}

// Composite indexes backing the employee overview and file listings.
var compositeIndexes = []index{
	{"tasks", "idx_tasks_assignee_status", []string{"assigned_to_id", "status"}},
	{"file_attachments", "idx_files_task_created", []string{"task_id", "created_at"}},
	{"file_attachments", "idx_files_uploader_created", []string{"uploaded_by_id", "created_at"}},
}

// AddIndexes creates the composite indexes that are missing.
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()

	for _, idx := range compositeIndexes {
		if migrator.HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, strings.Join(idx.columns, ", "))
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
