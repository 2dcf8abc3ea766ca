package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/emsteam/ems-api/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seedUser struct {
	username string
	email    string
	password string
	role     models.Role
}

type seedTask struct {
	title       string
	description string
	category    string
	status      models.TaskStatus
}

var seedEmployees = []seedUser{
	{"Arjun", "arjun@example.com", "123", models.RoleEmployee},
	{"Sneha", "sneha@example.com", "123", models.RoleEmployee},
	{"Kishor", "kishor@gmail.com", "123", models.RoleEmployee},
}

var seedTasks = []seedTask{
	{"Fix UI alignment", "Update dashboard layout.", "Design", models.TaskStatusNew},
	{"Backend API Testing", "Test API endpoints.", "Development", models.TaskStatusActive},
	{"Prepare Report", "Prepare monthly report.", "Documentation", models.TaskStatusCompleted},
	{"Resolve Bug #45", "Fix login issue.", "Bug", models.TaskStatusFailed},
}

// Seed upserts the development admin, the sample employees and one sample
// task per status for every employee. Running it twice changes nothing.
func Seed(db *gorm.DB, adminPassword string, log logrus.FieldLogger) error {
	admin := seedUser{"SuperAdmin", "admin@ems.com", adminPassword, models.RoleAdmin}
	if _, err := upsertUser(db, admin); err != nil {
		return err
	}
	log.WithField("email", admin.email).Info("seeded admin")

	for _, emp := range seedEmployees {
		if _, err := upsertUser(db, emp); err != nil {
			return err
		}
	}

	var employees []models.User
	if err := db.Where("role = ?", models.RoleEmployee).Find(&employees).Error; err != nil {
		return fmt.Errorf("failed to list employees: %w", err)
	}

	for _, emp := range employees {
		for _, t := range seedTasks {
			var existing models.Task
			err := db.Where("title = ? AND assigned_to_id = ?", t.title, emp.ID).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to look up seed task: %w", err)
			}

			task := &models.Task{
				Title:        t.title,
				Description:  t.description,
				Category:     t.category,
				Status:       t.status,
				AssignedToID: emp.ID,
				CreatedByID:  emp.ID,
				Date:         time.Now(),
			}
			if err := db.Create(task).Error; err != nil {
				return fmt.Errorf("failed to create seed task: %w", err)
			}
		}
		log.WithField("employee", emp.Username).Info("seeded default tasks")
	}

	return nil
}

func upsertUser(db *gorm.DB, su seedUser) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash seed password: %w", err)
	}
	hash := string(hashed)

	var user models.User
	err = db.Where("email = ?", su.email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			Username:     su.username,
			Email:        su.email,
			PasswordHash: &hash,
			Role:         su.role,
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create seed user %s: %w", su.email, err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to look up seed user %s: %w", su.email, err)
	default:
		user.Username = su.username
		user.PasswordHash = &hash
		user.Role = su.role
		if err := db.Save(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to update seed user %s: %w", su.email, err)
		}
	}

	return &user, nil
}
