package services

import (
	"errors"
	"fmt"

	"github.com/emsteam/ems-api/internal/models"
	"github.com/emsteam/ems-api/internal/repository"
	"gorm.io/gorm"
)

var ErrEmployeeNotFound = newError(ErrNotFound, "employee not found")

// UserService handles the employee directory.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ListEmployees returns every employee account.
func (s *UserService) ListEmployees(p Principal) ([]models.User, error) {
	if err := RequireAdmin(p); err != nil {
		return nil, err
	}

	users, err := s.userRepo.ListByRole(models.RoleEmployee)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return users, nil
}

// Dismiss hard deletes an employee. Their tasks and files are kept.
func (s *UserService) Dismiss(p Principal, userID uint64) error {
	if err := RequireAdmin(p); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	if err := AuthorizeDismiss(p, user); err != nil {
		return err
	}

	if err := s.userRepo.Delete(user.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to dismiss employee: %w", err)
	}
	return nil
}
